package web

import (
	"errors"
	"github.com/labstack/echo/v4"
	"log"
	"net/http"
)

// ErrorLogAndMaskMiddleware logs every handler error and replaces errors the client
// should not see with a plain 500.
func ErrorLogAndMaskMiddleware(logger *log.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			req := c.Request()
			logger.Printf("%s %s: %v", req.Method, req.URL.Path, err)

			var httpErr *HTTPError
			if errors.As(err, &httpErr) {
				return httpErr.Public()
			}

			var echoErr *echo.HTTPError
			if errors.As(err, &echoErr) {
				return echoErr
			}

			return echo.NewHTTPError(http.StatusInternalServerError)
		}
	}
}

func NoCacheOnErrorMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err != nil {
				noCache(c)
			}

			return err
		}
	}
}

func NeverCacheMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			noCache(c)
			err := next(c)
			noCache(c)
			return err
		}
	}
}
