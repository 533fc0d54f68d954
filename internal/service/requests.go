package service

import (
	"github.com/safar/labecommerce/internal/models"
	"github.com/shopspring/decimal"
)

type CreateUserRequest struct {
	ID       string `json:"id" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
}

// UpdateUserRequest is a partial update; absent fields are left unchanged.
type UpdateUserRequest struct {
	Email    *string `json:"email" validate:"omitnil,email"`
	Password *string `json:"password" validate:"omitnil,password"`
}

func (r UpdateUserRequest) Patch() models.UserPatch {
	return models.UserPatch{Email: r.Email, Password: r.Password}
}

type CreateProductRequest struct {
	ID       string           `json:"id" validate:"required"`
	Name     string           `json:"name" validate:"required,min=1"`
	Price    *decimal.Decimal `json:"price" validate:"required,gte=0"`
	Category models.Category  `json:"category" validate:"required,category"`
}

type UpdateProductRequest struct {
	Name     *string          `json:"name" validate:"omitnil,min=1"`
	Price    *decimal.Decimal `json:"price" validate:"omitnil,gte=0"`
	Category *models.Category `json:"category" validate:"omitnil,category"`
}

func (r UpdateProductRequest) Patch() models.ProductPatch {
	return models.ProductPatch{Name: r.Name, Price: r.Price, Category: r.Category}
}

type CreatePurchaseRequest struct {
	UserID     string           `json:"userId" validate:"required"`
	ProductID  string           `json:"productId" validate:"required"`
	Quantity   int              `json:"quantity" validate:"required,gt=0"`
	TotalPrice *decimal.Decimal `json:"totalPrice" validate:"required"`
}
