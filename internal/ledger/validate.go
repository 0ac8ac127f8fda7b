package ledger

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// newValidator returns a validator that treats decimal.Decimal as a number, so
// tags like min=0 work on prices.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// checkStruct runs the struct tags of in and converts the first failure into a
// *ValidationError. subject names the record in messages ("Product", ...).
func (l *Ledger) checkStruct(subject string, in interface{}) error {
	err := l.validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validate %s: %w", subject, err)
	}

	fe := fieldErrs[0]
	return NewValidationError(fe.Field(), fe.Value(), fieldMessage(subject, fe))
}

func fieldMessage(subject string, fe validator.FieldError) string {
	field := humanize(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s %s is required", subject, field)
	case "min", "gte":
		return fmt.Sprintf("%s %s must be at least %s", subject, field, fe.Param())
	case "email":
		return "Please enter a valid email address"
	default:
		return fmt.Sprintf("%s %s is invalid", subject, field)
	}
}

// humanize turns a Go field name into lower-case words: InvoicePrefix -> "invoice prefix".
func humanize(field string) string {
	var b strings.Builder
	for i, r := range field {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
