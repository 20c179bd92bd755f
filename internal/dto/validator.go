package dto

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators installs custom tags on gin's validator engine.
// Field errors report json/form names instead of Go field names.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})

	if err := v.RegisterValidation("sortorder", validateSortOrder); err != nil {
		return err
	}
	if err := v.RegisterValidation("visibility", validateVisibility); err != nil {
		return err
	}
	return nil
}

func validateSortOrder(fl validator.FieldLevel) bool {
	switch strings.ToLower(fl.Field().String()) {
	case "asc", "desc":
		return true
	}
	return false
}

func validateVisibility(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "public", "private":
		return true
	}
	return false
}
