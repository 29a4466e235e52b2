package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// DataResponse writes data as the bare JSON body.
func DataResponse(c echo.Context, statusCode int, data interface{}) error {
	return c.JSON(statusCode, data)
}

// SuccessResponse writes success response.
func SuccessResponse(c echo.Context, data interface{}) error {
	return DataResponse(c, http.StatusOK, data)
}

// NoContentResponse writes no content response.
func NoContentResponse(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

// ErrorResponse writes {error, suggestions?} with the given status.
func ErrorResponse(c echo.Context, status int, message string, suggestions ...string) error {
	return DataResponse(c, status, ErrorBody{Error: message, Suggestions: suggestions})
}

// BadRequestResponse writes bad request error.
func BadRequestResponse(c echo.Context, message string) error {
	return ErrorResponse(c, http.StatusBadRequest, message)
}

// InternalServerErrorResponse writes internal server error.
func InternalServerErrorResponse(c echo.Context) error {
	return ErrorResponse(c, http.StatusInternalServerError, "Something went wrong")
}

// AppErrorResponse writes application error response. Errors that are not
// an AppError become a 500 with the raw error text.
func AppErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return ErrorResponse(c, appErr.Status, appErr.Message, appErr.Suggestions...)
	}
	if err == nil {
		return InternalServerErrorResponse(c)
	}
	return ErrorResponse(c, http.StatusInternalServerError, err.Error())
}
