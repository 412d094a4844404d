package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// EmailRegex is a simple email validation regex
	EmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// SessionNameRegex matches academic session names like "2025/2026"
	SessionNameRegex = regexp.MustCompile(`^\d{4}/\d{4}$`)

	// CourseCodeRegex matches course codes like "CSC101" or "GST 102"
	CourseCodeRegex = regexp.MustCompile(`^[A-Z]{2,4}\s?\d{3}$`)
)

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance with the portal's
// custom tags (session_name, course_code) registered.
func NewValidator() *Validator {
	validate := validator.New()
	_ = validate.RegisterValidation("session_name", func(fl validator.FieldLevel) bool {
		return ValidateSessionName(fl.Field().String())
	})
	_ = validate.RegisterValidation("course_code", func(fl validator.FieldLevel) bool {
		return CourseCodeRegex.MatchString(fl.Field().String())
	})
	return &Validator{validate: validate}
}

// ValidateStruct validates a struct using struct tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatValidationErrors converts validation errors to a user-friendly format
func FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			field := strings.ToLower(e.Field())
			switch e.Tag() {
			case "required":
				errors[field] = fmt.Sprintf("%s is required", e.Field())
			case "email":
				errors[field] = "Invalid email format"
			case "min":
				errors[field] = fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param())
			case "max":
				errors[field] = fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param())
			case "gte":
				errors[field] = fmt.Sprintf("%s must be greater than or equal to %s", e.Field(), e.Param())
			case "lte":
				errors[field] = fmt.Sprintf("%s must be less than or equal to %s", e.Field(), e.Param())
			case "session_name":
				errors[field] = "Session name must be two consecutive years, e.g. 2025/2026"
			case "course_code":
				errors[field] = "Course code must look like CSC101 or GST 102"
			default:
				errors[field] = fmt.Sprintf("%s is invalid", e.Field())
			}
		}
	}

	return errors
}

// ValidateEmail checks if an email is valid
func ValidateEmail(email string) bool {
	if len(email) < 3 || len(email) > 254 {
		return false
	}
	return EmailRegex.MatchString(email)
}

// ValidateSessionName checks an academic session name and requires the
// second year to follow the first ("2025/2026", never "2025/2025").
func ValidateSessionName(name string) bool {
	if !SessionNameRegex.MatchString(name) {
		return false
	}
	var first, second int
	if _, err := fmt.Sscanf(name, "%d/%d", &first, &second); err != nil {
		return false
	}
	return second == first+1
}
