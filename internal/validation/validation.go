// Package validation checks request payloads against the rules declared in
// their `validate` struct tags and renders failures as readable messages.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/safar/labecommerce/internal/models"
	"github.com/shopspring/decimal"
)

// Error lists every rule a payload violated. Messages is never empty.
type Error struct {
	Messages []string
}

func (e *Error) Error() string {
	return e.Messages[0]
}

func newError(format string, args ...any) *Error {
	return &Error{Messages: []string{fmt.Sprintf(format, args...)}}
}

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				name = f.Name
			}
			return name
		})

		// Decimals are compared as numbers by gte/gt/lte.
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				f, _ := d.Float64()
				return f
			}
			return nil
		}, decimal.Decimal{})

		if err := v.RegisterValidation("password", validPassword); err != nil {
			panic(err)
		}
		if err := v.RegisterValidation("category", validCategory); err != nil {
			panic(err)
		}
		validate = v
	})
	return validate
}

// validPassword requires 8 to 12 characters with at least one lowercase
// letter, one uppercase letter, one digit and one other character.
func validPassword(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if n := utf8.RuneCountInString(s); n < 8 || n > 12 {
		return false
	}

	var lower, upper, digit, symbol bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}

func validCategory(fl validator.FieldLevel) bool {
	return models.Category(fl.Field().String()).Valid()
}

func categoryNames() string {
	names := make([]string, len(models.Categories))
	for i, c := range models.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// Struct validates v and returns a *Error describing every violation, or nil.
func Struct(v any) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, message(fe))
	}
	return &Error{Messages: msgs}
}

// Var validates a single value, naming it field in the message.
func Var(field string, value any, tag string) error {
	err := instance().Var(value, tag)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate %s: %w", field, err)
	}
	return &Error{Messages: []string{messageFor(field, verrs[0])}}
}

func message(fe validator.FieldError) string {
	return messageFor(fe.Field(), fe)
}

func messageFor(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", field)
	case "email":
		return fmt.Sprintf("%q must be a valid email", field)
	case "password":
		return fmt.Sprintf("%q must be 8 to 12 characters long with a lowercase letter, an uppercase letter, a digit and a symbol", field)
	case "category":
		return fmt.Sprintf("%q must be one of [%s]", field, categoryNames())
	case "oneof":
		return fmt.Sprintf("%q must be one of [%s]", field, strings.Join(strings.Fields(fe.Param()), ", "))
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%q length must be at least %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%q must be greater than or equal to %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%q must be greater than or equal to %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%q must be greater than %s", field, fe.Param())
	default:
		return fmt.Sprintf("%q failed the %s rule", field, fe.Tag())
	}
}

// ErrEmptyBody is returned by Decode when the body holds no JSON value.
var ErrEmptyBody = newError("request body is required")

// Decode strictly decodes a single JSON object from r into dst. Unknown
// fields, mistyped values and explicit nulls are reported as *Error. Rules
// are checked separately with Struct.
func Decode(r io.Reader, dst any) error {
	body, err := io.ReadAll(r)
	if err != nil {
		return newError("invalid request body: %v", err)
	}
	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return newError("request body must be a JSON object")
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return decodeError(err)
	}
	if dec.More() {
		return newError("request body must contain a single JSON object")
	}
	return rejectNulls(body)
}

// DecodeOptional is Decode for partial updates: an empty body leaves dst
// untouched.
func DecodeOptional(r io.Reader, dst any) error {
	if err := Decode(r, dst); !errors.Is(err, ErrEmptyBody) {
		return err
	}
	return nil
}

// rejectNulls fails on the first member, in name order, whose value is null.
func rejectNulls(body []byte) error {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(body, &members); err != nil {
		return nil
	}

	names := make([]string, 0, len(members))
	for name, raw := range members {
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil
	}
	slices.Sort(names)
	return newError("%q must not be null", names[0])
}

func decodeError(err error) *Error {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	switch {
	case errors.Is(err, io.EOF):
		return ErrEmptyBody
	case errors.Is(err, io.ErrUnexpectedEOF), errors.As(err, &syntaxErr):
		return newError("request body must be valid JSON")
	case errors.As(err, &typeErr):
		if typeErr.Field == "" {
			return newError("request body must be a JSON object")
		}
		return newError("%q must be %s", typeErr.Field, jsonKind(typeErr.Type))
	}

	if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		return newError("%s is not allowed", field)
	}
	return newError("invalid request body: %v", err)
}

func jsonKind(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Bool:
		return "a boolean"
	default:
		return "a " + t.String()
	}
}
