package utils

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"wedding-rsvp/models"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator. Field names in errors are the
// json tag names so they can be echoed back to API callers.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("invitestatus", func(fl validator.FieldLevel) bool {
			return models.IsValidInviteStatus(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// InvalidFields runs struct validation and returns the json names of
// failing fields in declaration order. A non-validation error is returned as is.
func InvalidFields(s interface{}) ([]string, error) {
	err := Validator().Struct(s)
	if err == nil {
		return nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fe.Field())
	}
	return out, nil
}
