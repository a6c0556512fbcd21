package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// validationMessage maps the first failing field rule to the message shown to
// the client. The client displays these verbatim.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid input"
	}

	fe := verrs[0]
	switch fe.Field() {
	case "Name":
		return "Name must be at least 3 characters"
	case "Email":
		return "Invalid email address"
	case "Password":
		if fe.Tag() == "min" {
			return "Password must be at least 6 characters"
		}
		return "Password is required"
	case "Title":
		return "Title is required"
	}
	return "Invalid input"
}
