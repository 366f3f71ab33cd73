package transport

import (
	"github.com/labstack/echo/v4"

	"meishiClient/internal/modules/realtime/application/usecase"
)

// SessionMiddleware routes notices raised while serving a request to the
// websocket session named by the X-Session-ID header.
func SessionMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if session := c.Request().Header.Get(HeaderSessionID); session != "" {
				req := c.Request()
				c.SetRequest(req.WithContext(usecase.WithSession(req.Context(), session)))
			}
			return next(c)
		}
	}
}
