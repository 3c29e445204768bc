package validation

import (
	"strings"
	"unicode"

	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a configured validator with the custom rules used by the
// request and contact payloads registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()
	v.RegisterValidation("phone", validPhone)
	v.RegisterValidation("notdigits", notDigits)
	v.RegisterValidation("safechars", safeChars)
	return v
}

// validPhone accepts numbers that contain 7 to 15 digits once separators
// like spaces, dashes and a leading plus are stripped.
func validPhone(fl validatorv10.FieldLevel) bool {
	digits := 0
	for _, r := range fl.Field().String() {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	return digits >= 7 && digits <= 15
}

// notDigits rejects values made up entirely of digits; contact names must
// contain at least one letter.
func notDigits(fl validatorv10.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// safeChars rejects characters with meaning to shells and markup; contact
// names end up in messages rendered by the chat front end.
func safeChars(fl validatorv10.FieldLevel) bool {
	return !strings.ContainsAny(fl.Field().String(), "<>\"'&;()|`$\\")
}

// Message flattens a validation error into the single human-readable string
// returned to the client.
func Message(err error) string {
	verrs, ok := err.(validatorv10.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return "invalid request body"
	}

	fe := verrs[0]
	switch fe.Field() {
	case "PhoneNumber":
		switch fe.Tag() {
		case "required":
			return "phone number is required"
		case "max":
			return "phone number must be 14 characters or fewer"
		default:
			return "invalid phone number format"
		}
	case "Amount":
		switch fe.Tag() {
		case "required", "gt":
			return "amount must be greater than 0"
		default:
			return "amount is too large"
		}
	case "Name":
		switch fe.Tag() {
		case "required":
			return "name is required"
		case "max":
			return "name must be 50 characters or fewer"
		case "safechars":
			return "name contains invalid characters"
		default:
			return "name must contain letters"
		}
	}
	return "invalid request body"
}
