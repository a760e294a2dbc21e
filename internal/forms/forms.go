// Package forms holds the HTML form definitions accepted by the web layer and
// validates them with struct tags. Field errors are keyed by the form field
// name so templates can render them next to the matching input.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Errors maps a form field name to a message describing what is wrong with it.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

var validate = newValidator()

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	must(v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	}))
	must(v.RegisterValidation("notfuture", func(fl validator.FieldLevel) bool {
		d, err := time.Parse(dateLayout, fl.Field().String())
		if err != nil {
			return false
		}
		return !d.After(today())
	}))
	// bcrypt reads at most 72 bytes; max= counts runes.
	must(v.RegisterValidation("bcryptlen", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= maxPasswordBytes
	}))
	return v
}

func must(err error) {
	if err != nil {
		panic(fmt.Sprintf("forms: register validation: %v", err))
	}
}

// Validate checks form against its validate tags. It returns nil when the
// form is valid.
func Validate(form any) Errors {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Errors{"__all__": err.Error()}
	}

	errs := make(Errors, len(fieldErrs))
	for _, fe := range fieldErrs {
		if _, seen := errs[fe.Field()]; seen {
			continue
		}
		errs[fe.Field()] = message(fe)
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
	case "oneof":
		return fmt.Sprintf("Select one of %s.", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "eqfield":
		return "The two password fields didn't match."
	case "username":
		return "Enter a valid username. Use only letters, numbers, and @ . + - _ characters."
	case "bcryptlen":
		return fmt.Sprintf("Ensure this value has at most %d bytes.", maxPasswordBytes)
	case "datetime":
		return "Enter a valid date (YYYY-MM-DD)."
	case "notfuture":
		return "The visit date cannot be in the future."
	default:
		return "Enter a valid value."
	}
}

const (
	dateLayout       = "2006-01-02"
	maxPasswordBytes = 72
)

func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
