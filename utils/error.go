package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// APIError is an error that knows how it should be rendered to a client.
type APIError struct {
	Status  int
	Message string
	Errors  map[string][]string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func ValidationError(message string, fields map[string][]string) *APIError {
	if message == "" {
		message = "The given data was invalid."
	}
	return &APIError{Status: http.StatusUnprocessableEntity, Message: message, Errors: fields}
}

func Unauthorized(message string) *APIError {
	if message == "" {
		message = "Unauthenticated."
	}
	return &APIError{Status: http.StatusUnauthorized, Message: message}
}

func Forbidden(message string) *APIError {
	if message == "" {
		message = "This action is unauthorized."
	}
	return &APIError{Status: http.StatusForbidden, Message: message}
}

func NotFound(resource string) *APIError {
	return &APIError{Status: http.StatusNotFound, Message: resource + " not found"}
}

func Conflict(message string) *APIError {
	return &APIError{Status: http.StatusConflict, Message: message}
}

// Internal hides the cause from the client; the cause is logged by RespondError.
func Internal(err error) *APIError {
	return &APIError{Status: http.StatusInternalServerError, Message: "Server Error", Err: err}
}

// AsAPIError converts any error into an APIError, defaulting to a 500.
func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Internal(err)
}

// BindingError turns a gin ShouldBind* failure into a 422 with field-level detail.
func BindingError(err error) *APIError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string][]string, len(verrs))
		for _, fe := range verrs {
			name := toSnake(fe.Field())
			fields[name] = append(fields[name], fieldMessage(name, fe))
		}
		return ValidationError("", fields)
	}
	return ValidationError("Malformed request body.", map[string][]string{"body": {err.Error()}})
}

func fieldMessage(field string, fe validator.FieldError) string {
	label := strings.ReplaceAll(field, "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", label)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", label)
	case "min":
		return fmt.Sprintf("The %s must be at least %s.", label, fe.Param())
	case "max":
		return fmt.Sprintf("The %s may not be greater than %s.", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", label)
	case "gte", "gt":
		return fmt.Sprintf("The %s must be greater than %s.", label, fe.Param())
	default:
		return fmt.Sprintf("The %s is invalid.", label)
	}
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				Logger := GetLogger()
				Logger.Error("Unhandled panic", zap.Any("error", err), zap.String("path", c.Request.URL.Path))

				c.AbortWithStatusJSON(http.StatusInternalServerError, Envelope{
					Success: false,
					Message: "Server Error",
				})
			}
		}()
		c.Next()
	}
}

// RespondError writes err using the error envelope. 5xx causes are logged, never sent.
func RespondError(c *gin.Context, err error) {
	apiErr := AsAPIError(err)
	if apiErr.Status >= http.StatusInternalServerError {
		GetLogger().Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", apiErr.Status),
			zap.Error(apiErr.Err),
		)
	} else {
		GetLogger().Debug(apiErr.Message, zap.String("path", c.Request.URL.Path), zap.Int("status", apiErr.Status))
	}
	c.AbortWithStatusJSON(apiErr.Status, Envelope{
		Success: false,
		Message: apiErr.Message,
		Errors:  apiErr.Errors,
	})
}
