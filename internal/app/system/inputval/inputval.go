// Package inputval validates form input structs via struct tags.
//
// Fields carry standard go-playground/validator tags plus an optional
// `label` tag used in the human-readable message:
//
//	type createGroupInput struct {
//	    Title string `validate:"required,max=200" label:"Title"`
//	}
//
//	if result := inputval.Validate(input); result.HasErrors() {
//	    data.SetError(result.First())
//	    ...
//	}
package inputval

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report the `label` tag (falling back to the field name) so messages
	// read like the form, not like Go identifiers.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		return fld.Name
	})
	return v
}

// Result holds validation outcomes for one struct.
type Result struct {
	errs []string
}

// HasErrors reports whether any field failed validation.
func (r Result) HasErrors() bool { return len(r.errs) > 0 }

// First returns the first error message, or "" when valid.
func (r Result) First() string {
	if len(r.errs) == 0 {
		return ""
	}
	return r.errs[0]
}

// All returns every error message.
func (r Result) All() []string { return r.errs }

// Validate checks a tagged struct and returns a Result with friendly
// messages in field-declaration order.
func Validate(input any) Result {
	err := validate.Struct(input)
	if err == nil {
		return Result{}
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Result{errs: []string{"Invalid input."}}
	}

	var res Result
	for _, fe := range verrs {
		res.errs = append(res.errs, message(fe))
	}
	return res
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or more.", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be %s or less.", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address.", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid.", strings.TrimSpace(fe.Field()))
	}
}
