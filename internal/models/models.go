package models

import (
	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

type Category string

const (
	CategoryFunko    Category = "FUNKO"
	CategoryCushions Category = "CUSHIONS"
	CategoryToys     Category = "TOYS"
)

// Categories lists every valid product category in display order.
var Categories = []Category{CategoryFunko, CategoryCushions, CategoryToys}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// User is a shop customer. Password is kept exactly as submitted.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Product struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category Category        `json:"category"`
}

// Purchase is a snapshot taken at creation time: TotalPrice is never
// recomputed when the product price changes later.
type Purchase struct {
	UserID     string          `json:"userId"`
	ProductID  string          `json:"productId"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// UserPatch carries the fields of a partial user update. Nil fields are
// left unchanged.
type UserPatch struct {
	Email    *string
	Password *string
}

func (p UserPatch) Apply(u *User) {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Password != nil {
		u.Password = *p.Password
	}
}

// ProductPatch carries the fields of a partial product update. Nil fields
// are left unchanged.
type ProductPatch struct {
	Name     *string
	Price    *decimal.Decimal
	Category *Category
}

func (p ProductPatch) Apply(prod *Product) {
	if p.Name != nil {
		prod.Name = *p.Name
	}
	if p.Price != nil {
		prod.Price = *p.Price
	}
	if p.Category != nil {
		prod.Category = *p.Category
	}
}

func (p ProductPatch) Empty() bool {
	return p.Name == nil && p.Price == nil && p.Category == nil
}

func (p UserPatch) Empty() bool {
	return p.Email == nil && p.Password == nil
}
