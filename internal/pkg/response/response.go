package response

import (
	"errors"
	"net/http"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// FieldError is one entry of the uniform error envelope. Every error
// body this service produces has the shape {"errors":[FieldError...]}.
type FieldError struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Path     string `json:"path"`
	Location string `json:"location"`
}

func Error(c *gin.Context, statusCode int, errType, message string) {
	Errors(c, statusCode, []FieldError{{
		Type:    errType,
		Message: message,
	}})
}

func Errors(c *gin.Context, statusCode int, errs []FieldError) {
	c.JSON(statusCode, gin.H{"errors": errs})
}

// BindingError shapes a gin binding failure into a 400 with one entry
// per failing field. Non-validator failures (malformed JSON, wrong
// types) collapse into a single entry.
func BindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		Error(c, http.StatusBadRequest, "ValidationError", "Invalid request body")
		return
	}

	fieldErrors := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		path := jsonPath(fe.Field())
		fieldErrors = append(fieldErrors, FieldError{
			Type:     "field",
			Message:  messageFor(fe, path),
			Path:     path,
			Location: "body",
		})
	}

	Errors(c, http.StatusBadRequest, fieldErrors)
}

func messageFor(fe validator.FieldError, path string) string {
	switch fe.Tag() {
	case "required":
		return capitalize(path) + " is required!"
	case "email":
		return "Please provide a valid email address"
	case "min":
		return capitalize(path) + " is too short"
	default:
		return capitalize(path) + " is invalid"
	}
}

// jsonPath maps an exported struct field name onto its json key. The
// request DTOs all use lowerCamelCase json tags mirroring field names.
func jsonPath(field string) string {
	if field == "" {
		return field
	}
	r := []rune(field)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
