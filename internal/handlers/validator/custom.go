package validator

import (
	"regexp"

	"github.com/apptrackhq/ats/internal/store/model"
	"github.com/go-playground/validator/v10"
)

var titleValidRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9 +\-_./(),]*$`)

func statusValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return model.Status(val).Known()
}

func roleCategoryValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return model.RoleCategory(val).Known()
}

func titleValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return titleValidRegex.MatchString(val)
}
