package validation

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type account struct {
	ID       string `json:"id" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
}

type item struct {
	Name     *string          `json:"name" validate:"omitnil,min=1"`
	Price    *decimal.Decimal `json:"price" validate:"omitnil,gte=0"`
	Category *string          `json:"category" validate:"omitnil,category"`
	Size     string           `json:"size" validate:"omitempty,oneof=S M L"`
	Quantity int              `json:"quantity" validate:"omitempty,gt=0"`
}

func messages(t *testing.T, err error) []string {
	t.Helper()
	var verr *Error
	require.ErrorAs(t, err, &verr)
	return verr.Messages
}

func TestPasswordRule(t *testing.T) {
	tests := []struct {
		password string
		valid    bool
	}{
		{"Abcdef1!", true},
		{"Abcdefgh12#$", true},
		{"Abc1!", false},
		{"Abcdefgh123#$", false},
		{"abcdefg1!", false},
		{"ABCDEFG1!", false},
		{"Abcdefgh!", false},
		{"Abcdefgh1", false},
		{"784512tt@", false},
	}
	for _, tc := range tests {
		err := Struct(account{ID: "u1", Email: "a@x.com", Password: tc.password})
		if tc.valid {
			assert.NoError(t, err, tc.password)
		} else {
			assert.Error(t, err, tc.password)
		}
	}
}

func TestStructReportsEveryViolation(t *testing.T) {
	err := Struct(account{Email: "not-an-email", Password: "short"})
	msgs := messages(t, err)

	assert.Equal(t, []string{
		`"id" is required`,
		`"email" must be a valid email`,
		`"password" must be 8 to 12 characters long with a lowercase letter, an uppercase letter, a digit and a symbol`,
	}, msgs)
	assert.Equal(t, `"id" is required`, err.Error())
}

func TestPartialFields(t *testing.T) {
	assert.NoError(t, Struct(item{}))

	empty := ""
	assert.Equal(t, []string{`"name" length must be at least 1 characters long`}, messages(t, Struct(item{Name: &empty})))

	negative := decimal.RequireFromString("-0.01")
	assert.Equal(t, []string{`"price" must be greater than or equal to 0`}, messages(t, Struct(item{Price: &negative})))

	zero := decimal.Zero
	assert.NoError(t, Struct(item{Price: &zero}))

	books := "BOOKS"
	assert.Equal(t, []string{`"category" must be one of [FUNKO, CUSHIONS, TOYS]`}, messages(t, Struct(item{Category: &books})))

	assert.Equal(t, []string{`"quantity" must be greater than 0`}, messages(t, Struct(item{Quantity: -1})))

	assert.Equal(t, []string{`"size" must be one of [S, M, L]`}, messages(t, Struct(item{Size: "XL"})))
}

func TestVar(t *testing.T) {
	assert.NoError(t, Var("id", "u001", "required"))
	assert.Equal(t, []string{`"q" length must be at least 1 characters long`}, messages(t, Var("q", "", "min=1")))
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty body", "", "request body is required"},
		{"malformed", `{"id": `, "request body must be valid JSON"},
		{"not an object", `[1, 2]`, "request body must be a JSON object"},
		{"unknown field", `{"id":"u1","email":"a@x.com","password":"Abcdef1!","role":"admin"}`, `"role" is not allowed`},
		{"wrong type", `{"id": 7}`, `"id" must be a string`},
		{"null body", "null", "request body must be a JSON object"},
		{"null member", `{"id":"u1","email":null,"password":null}`, `"email" must not be null`},
		{"trailing data", `{"id":"u1","email":"a@x.com","password":"Abcdef1!"} {}`, "request body must contain a single JSON object"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var a account
			msgs := messages(t, Decode(strings.NewReader(tc.body), &a))
			assert.Contains(t, msgs[0], tc.want)
		})
	}

	var a account
	require.NoError(t, Decode(strings.NewReader(`{"id":"u1","email":"a@x.com","password":"weak"}`), &a))
	assert.Equal(t, account{ID: "u1", Email: "a@x.com", Password: "weak"}, a)
	assert.Error(t, Struct(a))
}

func TestDecodeIntegerField(t *testing.T) {
	var it item
	msgs := messages(t, Decode(strings.NewReader(`{"quantity": 1.5}`), &it))
	assert.Equal(t, `"quantity" must be an integer`, msgs[0])

	require.NoError(t, Decode(strings.NewReader(`{"price": 69.90}`), &it))
	assert.True(t, it.Price.Equal(decimal.RequireFromString("69.9")))
}

func TestDecodeRejectsNullMembers(t *testing.T) {
	var it item
	msgs := messages(t, Decode(strings.NewReader(`{"price": null}`), &it))
	assert.Equal(t, []string{`"price" must not be null`}, msgs)

	msgs = messages(t, Decode(strings.NewReader(`{"name": "Almofada", "category":  null }`), &it))
	assert.Equal(t, []string{`"category" must not be null`}, msgs)

	it = item{}
	require.NoError(t, Decode(strings.NewReader(`{"name": "null"}`), &it))
	assert.Equal(t, "null", *it.Name)
}

func TestDecodeOptional(t *testing.T) {
	for _, body := range []string{"", "  \n"} {
		var it item
		require.NoError(t, DecodeOptional(strings.NewReader(body), &it))
		assert.Equal(t, item{}, it)
	}

	var it item
	require.NoError(t, DecodeOptional(strings.NewReader(`{"quantity": 2}`), &it))
	assert.Equal(t, 2, it.Quantity)

	assert.Error(t, DecodeOptional(strings.NewReader(`{"price": null}`), &it))
	assert.Error(t, DecodeOptional(strings.NewReader(`{"id": `), &it))
	assert.ErrorIs(t, Decode(strings.NewReader(""), &it), ErrEmptyBody)
}
