package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	// report json names ("start_date") instead of Go field names
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
}

// RequestError is returned by ReadAndValidateRequest. Bind is set when the
// body could not be decoded at all.
type RequestError struct {
	Bind   error
	Fields []ValidationError
}

func (e *RequestError) Error() string {
	if e.Bind != nil {
		return fmt.Sprintf("invalid request body: %v", e.Bind)
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

func (e *RequestError) Unwrap() error { return e.Bind }

// FirstMissing returns the first field that failed the "required" rule.
func (e *RequestError) FirstMissing() (string, bool) {
	for _, f := range e.Fields {
		if f.Tag == "required" {
			return f.Field, true
		}
	}
	return "", false
}

// ReadAndValidateRequest binds the request, applies defaults and validates it.
func ReadAndValidateRequest(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return &RequestError{Bind: bindMessage(err)}
	}
	if err := defaults.Set(req); err != nil {
		return &RequestError{Bind: err}
	}
	if err := validate.StructCtx(c.Request().Context(), req); err != nil {
		return validationError(err)
	}
	return nil
}

func bindMessage(err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return fmt.Errorf("%v", he.Message)
	}
	return err
}

func validationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return &RequestError{Bind: err}
	}
	out := &RequestError{Fields: make([]ValidationError, 0, len(validationErrors))}
	for _, e := range validationErrors {
		out.Fields = append(out.Fields, ValidationError{
			Code:    "ERR_" + strings.ToUpper(e.Tag()),
			Field:   e.Field(),
			Tag:     e.Tag(),
			Message: getErrorMessage(e),
		})
	}
	return out
}

func getErrorMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Type().Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Type().Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}
