package web

import (
	"github.com/explore-flights/farefinder/provider"
	"github.com/explore-flights/farefinder/ratelimit"
	"github.com/explore-flights/farefinder/web/model"
	"github.com/labstack/echo/v4"
	"net/http"
)

func NewProvidersEndpoint(registry *provider.Registry, limiter *ratelimit.Limiter) echo.HandlerFunc {
	return func(c echo.Context) error {
		entries := registry.All()
		result := make([]model.ProviderStatus, 0, len(entries))
		for _, e := range entries {
			result = append(result, model.ProviderStatusFromConfig(e.Config, limiter.Usage(e.Config.Name)))
		}

		noCache(c)
		return c.JSON(http.StatusOK, result)
	}
}
