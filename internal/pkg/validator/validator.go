package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func registerCustomValidations() {
	// Social network platform validation
	validate.RegisterValidation("platform", func(fl validator.FieldLevel) bool {
		platform := fl.Field().String()
		valid := []string{"instagram", "youtube", "facebook", "twitter", "telegram", "tiktok"}
		for _, p := range valid {
			if platform == p {
				return true
			}
		}
		return false
	})

	// Account role validation
	validate.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		role := fl.Field().String()
		valid := []string{"user", "reseller", "admin", ""}
		for _, r := range valid {
			if role == r {
				return true
			}
		}
		return false
	})

	// Order status validation (admin overrides)
	validate.RegisterValidation("order_status", func(fl validator.FieldLevel) bool {
		status := fl.Field().String()
		valid := []string{"pending", "processing", "completed", "failed", "refunded"}
		for _, s := range valid {
			if status == s {
				return true
			}
		}
		return false
	})
}

// Validate validates a struct and returns a map of field errors,
// or nil when the struct is valid.
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "email":
			errors[field] = "Invalid email address"
		case "min":
			errors[field] = "Value is too small"
		case "max":
			errors[field] = "Value is too large"
		case "url":
			errors[field] = "Invalid URL"
		case "gt":
			errors[field] = "Value must be greater than " + err.Param()
		case "platform":
			errors[field] = "Unknown platform"
		case "role":
			errors[field] = "Unknown role"
		case "order_status":
			errors[field] = "Unknown order status"
		default:
			errors[field] = "Invalid value"
		}
	}
	return errors
}
