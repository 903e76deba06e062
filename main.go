package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/explore-flights/farefinder/business/aggregator"
	"github.com/explore-flights/farefinder/cache"
	"github.com/explore-flights/farefinder/common/xsync"
	"github.com/explore-flights/farefinder/config"
	"github.com/explore-flights/farefinder/db"
	"github.com/explore-flights/farefinder/provider"
	"github.com/explore-flights/farefinder/provider/amadeus"
	"github.com/explore-flights/farefinder/provider/fares"
	"github.com/explore-flights/farefinder/provider/synthetic"
	"github.com/explore-flights/farefinder/ratelimit"
	"github.com/explore-flights/farefinder/web"
	lwamw "github.com/its-felix/aws-lwa-go-middleware"
	"github.com/labstack/echo/v4"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	providerConfigs := xsync.NewPreload(ctx, config.Config.ProviderConfigs)

	amc, err := config.Config.AmadeusClient()
	if err != nil {
		panic(err)
	}

	database, err := config.Config.FaresDatabase()
	if err != nil {
		panic(err)
	}
	defer database.Close()

	configs, err := providerConfigs.Value(ctx)
	if err != nil {
		panic(err)
	}

	fallback := synthetic.New()
	registry := provider.NewRegistry(
		configs,
		amadeus.NewAdapter(amc),
		fares.NewAdapter(db.NewFareRepo(database)),
		fallback,
	)

	for _, e := range registry.All() {
		slog.Info(
			"provider registered",
			slog.String("provider", e.Config.Name),
			slog.Bool("enabled", e.Config.Enabled),
			slog.Int("priority", e.Config.Priority),
		)
	}

	limiter := ratelimit.NewLimiter(registry.Limits())
	resultCache := aggregator.NewCache()
	agg := aggregator.New(
		registry,
		limiter,
		resultCache,
		fallback,
		aggregator.WithCacheTTL(config.Config.CacheTTL()),
	)

	go sweep(ctx, resultCache, time.Minute)

	e := echo.New()
	e.Use(
		lwamw.EchoMiddleware(
			lwamw.WithMaskError(),
			lwamw.WithRemoveHeaders(),
		),
		web.ErrorLogAndMaskMiddleware(log.New(os.Stderr, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)),
		web.NoCacheOnErrorMiddleware(),
	)

	{
		group := e.Group("/api")

		searchHandler := web.NewSearchHandler(agg)
		group.GET("/search", searchHandler.Search)
		group.GET("/search/feed.rss", searchHandler.SearchRSSFeed)
		group.GET("/search/feed.atom", searchHandler.SearchAtomFeed)

		group.GET("/providers", web.NewProvidersEndpoint(registry, limiter), web.NeverCacheMiddleware())
	}

	if err := run(ctx, e); err != nil {
		panic(err)
	}
}

func sweep[T any](ctx context.Context, c *cache.Cache[T], interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := c.Sweep(); n > 0 {
				slog.Debug("swept expired search results", slog.Int("removed", n))
			}
		}
	}
}

func run(ctx context.Context, e *echo.Echo) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		<-ctx.Done()
		if err := e.Shutdown(context.Background()); err != nil {
			slog.Error("error shutting down the echo server", slog.String("err", err.Error()))
		}
	}()

	if err := e.Start(fmt.Sprintf(":%d", config.Config.EchoPort())); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	}

	return nil
}
