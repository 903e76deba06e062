package provider

import (
	"cmp"
	"github.com/explore-flights/farefinder/common"
	"github.com/explore-flights/farefinder/ratelimit"
	"time"
)

const defaultTimeout = 5 * time.Second

type Config struct {
	Name        string             `json:"name"`
	DisplayName string             `json:"displayName"`
	Enabled     bool               `json:"enabled"`
	Priority    int                `json:"priority"`
	TimeoutMs   int                `json:"timeoutMs"`
	Reliability common.Reliability `json:"reliability"`
	RateLimit   ratelimit.Limit    `json:"rateLimit"`
	// ClassFiltered marks sources that only return offers of the requested cabin class.
	ClassFiltered bool `json:"classFiltered"`
}

func (c Config) Timeout() time.Duration {
	if c.TimeoutMs <= 0 {
		return defaultTimeout
	}

	return time.Duration(c.TimeoutMs) * time.Millisecond
}

func (c Config) Label() string {
	return cmp.Or(c.DisplayName, c.Name)
}

func DefaultConfigs() []Config {
	return []Config{
		{
			Name:          "amadeus",
			DisplayName:   "Amadeus",
			Enabled:       true,
			Priority:      1,
			TimeoutMs:     8000,
			Reliability:   common.ReliabilityHigh,
			RateLimit:     ratelimit.Limit{PerMinute: 30, PerHour: 1000},
			ClassFiltered: true,
		},
		{
			Name:        "fares",
			DisplayName: "Published Fares",
			Enabled:     true,
			Priority:    2,
			TimeoutMs:   3000,
			Reliability: common.ReliabilityMedium,
			RateLimit:   ratelimit.Limit{PerMinute: 120},
		},
		{
			Name:        "synthetic",
			DisplayName: "Demo Data",
			Enabled:     false,
			Priority:    100,
			TimeoutMs:   1000,
			Reliability: common.ReliabilitySynthetic,
		},
	}
}
