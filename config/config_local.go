//go:build !lambda

package config

import (
	"cmp"
	"context"
	"github.com/explore-flights/farefinder/business/aggregator"
	"github.com/explore-flights/farefinder/common/local"
	"github.com/explore-flights/farefinder/db"
	"github.com/explore-flights/farefinder/provider"
	"github.com/explore-flights/farefinder/provider/amadeus"
	"golang.org/x/time/rate"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

var Config = accessor{}

type accessor struct{}

func (accessor) EchoPort() int {
	port, _ := strconv.Atoi(os.Getenv("FARES_PORT"))
	return cmp.Or(port, 8080)
}

func (accessor) localS3Path() (string, error) {
	if p := os.Getenv("FARES_LOCAL_S3"); p != "" {
		return p, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, "Downloads", "local_s3"), nil
}

func (a accessor) S3Client(ctx context.Context) (S3Client, error) {
	basePath, err := a.localS3Path()
	if err != nil {
		return nil, err
	}

	return local.NewS3Client(basePath), nil
}

func (accessor) ConfigBucket() (string, error) {
	return cmp.Or(os.Getenv("FARES_CONFIG_BUCKET"), "fares_config_bucket"), nil
}

func (a accessor) ProviderConfigs(ctx context.Context) ([]provider.Config, error) {
	s3c, err := a.S3Client(ctx)
	if err != nil {
		return nil, err
	}

	bucket, err := a.ConfigBucket()
	if err != nil {
		return nil, err
	}

	return loadProviderConfigs(ctx, s3c, bucket)
}

// AmadeusClient returns nil when no credentials are set, the adapter then reports itself as not configured.
func (accessor) AmadeusClient() (*amadeus.Client, error) {
	clientId := os.Getenv("FARES_AMADEUS_CLIENT_ID")
	clientSecret := os.Getenv("FARES_AMADEUS_CLIENT_SECRET")
	if clientId == "" || clientSecret == "" {
		return nil, nil
	}

	return amadeus.NewClient(
		clientId,
		clientSecret,
		amadeus.WithBaseUrl(cmp.Or(os.Getenv("FARES_AMADEUS_BASE_URL"), amadeus.TestBaseUrl)),
		amadeus.WithRateLimiter(rate.NewLimiter(rate.Every(time.Second)*10, 1)),
	), nil
}

func (a accessor) FaresDatabase() (*db.Database, error) {
	if p := os.Getenv("FARES_DB_PATH"); p != "" {
		return db.NewDatabase(p), nil
	}

	basePath, err := a.localS3Path()
	if err != nil {
		return nil, err
	}

	bucket, err := a.ConfigBucket()
	if err != nil {
		return nil, err
	}

	p := filepath.Join(basePath, bucket, "fares.db")
	if _, err := os.Stat(p); err != nil {
		// start with an empty fares table
		return db.NewDatabase(""), nil
	}

	return db.NewDatabase(p), nil
}

func (accessor) CacheTTL() time.Duration {
	return parseCacheTTL(os.Getenv("FARES_CACHE_TTL"), aggregator.DefaultCacheTTL)
}
