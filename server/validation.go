package server

import (
	"reflect"
	"strings"

	"newsdeck/news"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// validate is shared by all handlers; validator.Validate is safe for
// concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// plaintext rejects the control characters never allowed in
	// user-supplied text fields.
	v.RegisterValidation("plaintext", func(fl validator.FieldLevel) bool {
		return !news.ContainsControlChars(fl.Field().String())
	})
	// Report json field names in error details, not Go struct field names.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type registrationRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100,plaintext"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	// Preferences tolerate any JSON shape; the normalizer decides what
	// survives.
	Preferences interface{} `json:"preferences"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type preferencesRequest struct {
	Preferences interface{} `json:"preferences"`
}

type searchKeywordRequest struct {
	Keyword string `json:"keyword" validate:"required,max=100,plaintext"`
}

// validationDetails renders validator errors into the `details` entries of
// the error envelope: one {path, message} object per failed field.
func validationDetails(err error, contextName string) []gin.H {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return []gin.H{{"path": "<" + contextName + ".root>", "message": err.Error()}}
	}
	details := make([]gin.H, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		details = append(details, gin.H{"path": fe.Field(), "message": messageFor(fe)})
	}
	return details
}

func messageFor(fe validator.FieldError) string {
	switch fe.Field() {
	case "name":
		switch fe.Tag() {
		case "required", "min":
			return "Name must be at least 2 characters"
		case "max":
			return "Name must be 100 characters or fewer"
		case "plaintext":
			return "Name contains invalid control characters"
		}
	case "email":
		return "Valid email is required"
	case "password":
		return "Password must be at least 8 characters"
	case "keyword":
		switch fe.Tag() {
		case "required":
			return "Keyword is required"
		case "max":
			return "Keyword must be 100 characters or fewer"
		case "plaintext":
			return "Keyword contains invalid control characters"
		}
	}
	return fe.Error()
}
