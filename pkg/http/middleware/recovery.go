package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	applogger "StockLens/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Recover turns a panic into a 500 {error} response.
func Recover(l *applogger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				perr, ok := r.(error)
				if !ok {
					perr = fmt.Errorf("%v", r)
				}
				if l != nil {
					l.Error("panic recovered",
						applogger.String("path", c.Path()),
						applogger.String("request_id", RequestIDFrom(c)),
						applogger.Error(perr),
						applogger.String("stack", string(debug.Stack())))
				}
				err = c.JSON(http.StatusInternalServerError, map[string]string{
					"error": "Internal Server Error",
				})
			}()
			return next(c)
		}
	}
}
