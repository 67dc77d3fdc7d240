package validator

import "github.com/go-playground/validator/v10"

func registerFn(tag string, fn func(fl validator.FieldLevel) bool) func(v *validator.Validate) {
	return func(v *validator.Validate) {
		_ = v.RegisterValidation(tag, fn)
	}
}

func NewApplicationValidationRules() []ValidationRule {
	return []ValidationRule{
		{
			Rule: registerFn("application_status", statusValidator),
		},
	}
}

func NewJobValidationRules() []ValidationRule {
	return []ValidationRule{
		{
			Rule: registerFn("job_title", titleValidator),
		},
		{
			Rule: registerFn("role_category", roleCategoryValidator),
		},
	}
}
