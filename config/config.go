package config

import (
	"context"
	"github.com/explore-flights/farefinder/common/adapt"
	"github.com/explore-flights/farefinder/db"
	"github.com/explore-flights/farefinder/provider"
	"github.com/explore-flights/farefinder/provider/amadeus"
	"log/slog"
	"time"
)

const providersKey = "providers.json"

type S3Client interface {
	adapt.S3Getter
	adapt.S3Putter
}

type Accessor interface {
	EchoPort() int
	S3Client(ctx context.Context) (S3Client, error)
	ConfigBucket() (string, error)
	ProviderConfigs(ctx context.Context) ([]provider.Config, error)
	AmadeusClient() (*amadeus.Client, error)
	FaresDatabase() (*db.Database, error)
	CacheTTL() time.Duration
}

// loadProviderConfigs reads the provider table from the config bucket. When none was uploaded
// it seeds the bucket with provider.DefaultConfigs so operators have a file to edit.
func loadProviderConfigs(ctx context.Context, s3c S3Client, bucket string) ([]provider.Config, error) {
	configs, found, err := adapt.S3GetJsonOr(ctx, s3c, bucket, providersKey, provider.DefaultConfigs())
	if err != nil {
		return nil, err
	}

	if !found {
		if err := adapt.S3PutJson(ctx, s3c, bucket, providersKey, configs); err != nil {
			slog.WarnContext(
				ctx,
				"failed to seed provider configs",
				slog.String("bucket", bucket),
				slog.String("err", err.Error()),
			)
		}
	}

	return configs, nil
}

func parseCacheTTL(raw string, def time.Duration) time.Duration {
	if raw == "" {
		return def
	}

	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return def
	}

	return d
}
