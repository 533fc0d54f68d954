package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, c.Valid(), c)
	}
	assert.False(t, Category("BOOKS").Valid())
	assert.False(t, Category("funko").Valid())
}

func TestPriceMarshalsAsNumber(t *testing.T) {
	b, err := json.Marshal(Product{ID: "1", Name: "Funko Hermione", Price: decimal.RequireFromString("69.90"), Category: CategoryFunko})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1","name":"Funko Hermione","price":69.9,"category":"FUNKO"}`, string(b))
}

func TestProductPatchKeepsAbsentFields(t *testing.T) {
	p := Product{ID: "1", Name: "Funko Hermione", Price: decimal.RequireFromString("69.90"), Category: CategoryFunko}
	price := decimal.NewFromInt(10)

	patch := ProductPatch{Price: &price}
	assert.False(t, patch.Empty())
	patch.Apply(&p)

	assert.Equal(t, "Funko Hermione", p.Name)
	assert.Equal(t, CategoryFunko, p.Category)
	assert.True(t, p.Price.Equal(price))
	assert.True(t, ProductPatch{}.Empty())
}

func TestUserPatch(t *testing.T) {
	u := User{ID: "u1", Email: "a@x.com", Password: "old"}
	pw := "new"
	UserPatch{Password: &pw}.Apply(&u)

	assert.Equal(t, User{ID: "u1", Email: "a@x.com", Password: "new"}, u)
	assert.True(t, UserPatch{}.Empty())
}
