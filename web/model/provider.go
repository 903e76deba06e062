package model

import (
	"github.com/explore-flights/farefinder/common"
	"github.com/explore-flights/farefinder/provider"
	"github.com/explore-flights/farefinder/ratelimit"
)

type RateLimitUsage struct {
	RequestsPerMinute int `json:"requestsPerMinute"`
	RequestsPerHour   int `json:"requestsPerHour"`
	LastMinute        int `json:"lastMinute"`
	LastHour          int `json:"lastHour"`
}

type ProviderStatus struct {
	Name          string             `json:"name"`
	DisplayName   string             `json:"displayName"`
	Enabled       bool               `json:"enabled"`
	Priority      int                `json:"priority"`
	TimeoutMs     int                `json:"timeoutMs"`
	Reliability   common.Reliability `json:"reliability"`
	ClassFiltered bool               `json:"classFiltered,omitempty"`
	RateLimit     RateLimitUsage     `json:"rateLimit"`
}

func ProviderStatusFromConfig(cfg provider.Config, usage ratelimit.Usage) ProviderStatus {
	return ProviderStatus{
		Name:          cfg.Name,
		DisplayName:   cfg.Label(),
		Enabled:       cfg.Enabled,
		Priority:      cfg.Priority,
		TimeoutMs:     int(cfg.Timeout().Milliseconds()),
		Reliability:   cfg.Reliability,
		ClassFiltered: cfg.ClassFiltered,
		RateLimit: RateLimitUsage{
			RequestsPerMinute: usage.Limit.PerMinute,
			RequestsPerHour:   usage.Limit.PerHour,
			LastMinute:        usage.Minute,
			LastHour:          usage.Hour,
		},
	}
}
