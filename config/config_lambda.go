//go:build lambda

package config

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/explore-flights/farefinder/business/aggregator"
	"github.com/explore-flights/farefinder/db"
	"github.com/explore-flights/farefinder/provider"
	"github.com/explore-flights/farefinder/provider/amadeus"
	"golang.org/x/time/rate"
	"os"
	"strconv"
	"sync"
	"time"
)

var Config = func() *accessor {
	awsConfig := sync.OnceValues(func() (aws.Config, error) {
		return config.LoadDefaultConfig(context.Background())
	})

	ssmParamsDone := make(chan struct{})
	a := &accessor{
		awsConfig:     awsConfig,
		ssmParamsDone: ssmParamsDone,
	}

	go func() {
		defer close(ssmParamsDone)

		cfg, err := awsConfig()
		if err != nil {
			a.ssmParamsErr = err
			return
		}

		a.ssmParams, a.ssmParamsErr = loadSsmParams(
			context.Background(),
			cfg,
			"FARES_SSM_AMADEUS_CLIENT_ID",
			"FARES_SSM_AMADEUS_CLIENT_SECRET",
		)
	}()

	return a
}()

type accessor struct {
	awsConfig     func() (aws.Config, error)
	ssmParamsDone <-chan struct{}
	ssmParams     map[string]string
	ssmParamsErr  error
}

func (*accessor) EchoPort() int {
	port, _ := strconv.Atoi(os.Getenv("AWS_LWA_PORT"))
	return cmp.Or(port, 8080)
}

func (a *accessor) S3Client(ctx context.Context) (S3Client, error) {
	cfg, err := a.awsConfig()
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(cfg), nil
}

func (*accessor) ConfigBucket() (string, error) {
	bucket := os.Getenv("FARES_CONFIG_BUCKET")
	if bucket == "" {
		return "", errors.New("env variable FARES_CONFIG_BUCKET required")
	}

	return bucket, nil
}

func (a *accessor) ProviderConfigs(ctx context.Context) ([]provider.Config, error) {
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

func (a *accessor) AmadeusClient() (*amadeus.Client, error) {
	params, err := a.getSsmParams()
	if err != nil {
		return nil, err
	}

	return amadeus.NewClient(
		params["FARES_SSM_AMADEUS_CLIENT_ID"],
		params["FARES_SSM_AMADEUS_CLIENT_SECRET"],
		amadeus.WithBaseUrl(cmp.Or(os.Getenv("FARES_AMADEUS_BASE_URL"), amadeus.ProductionBaseUrl)),
		amadeus.WithRateLimiter(rate.NewLimiter(rate.Every(time.Second)*10, 1)),
	), nil
}

func (*accessor) FaresDatabase() (*db.Database, error) {
	return db.NewDatabase("/opt/data/fares.db"), nil
}

func (*accessor) CacheTTL() time.Duration {
	return parseCacheTTL(os.Getenv("FARES_CACHE_TTL"), aggregator.DefaultCacheTTL)
}

func (a *accessor) getSsmParams() (map[string]string, error) {
	<-a.ssmParamsDone
	return a.ssmParams, a.ssmParamsErr
}

func loadSsmParams(ctx context.Context, cfg aws.Config, envNames ...string) (map[string]string, error) {
	reqNames := make([]string, 0, len(envNames))
	lookup := make(map[string]string)

	for _, envName := range envNames {
		reqName := os.Getenv(envName)
		if reqName == "" {
			return nil, fmt.Errorf("env variable %s required", envName)
		}

		reqNames = append(reqNames, reqName)
		lookup[reqName] = envName
	}

	ssmc := ssm.NewFromConfig(cfg)
	resp, err := ssmc.GetParameters(ctx, &ssm.GetParametersInput{
		Names:          reqNames,
		WithDecryption: aws.Bool(true),
	})

	if err != nil {
		return nil, err
	} else if len(resp.InvalidParameters) > 0 {
		return nil, fmt.Errorf("ssm invalid parameters: %v", resp.InvalidParameters)
	}

	result := make(map[string]string)
	for _, p := range resp.Parameters {
		result[lookup[*p.Name]] = *p.Value
	}

	return result, nil
}
