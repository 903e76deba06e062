package aggregator

import (
	"github.com/explore-flights/farefinder/common"
	"github.com/explore-flights/farefinder/provider"
	"github.com/gofrs/uuid/v5"
	"slices"
	"time"
)

type Status string

const (
	StatusOk        = Status("ok")
	StatusFailed    = Status("failed")
	StatusTimeout   = Status("timeout")
	StatusThrottled = Status("throttled")
	StatusFallback  = Status("fallback")
)

type DataSource string

const (
	DataSourceLive  = DataSource("live")
	DataSourceMixed = DataSource("mixed")
	DataSourceDemo  = DataSource("demo")
)

type ProviderFailure struct {
	Provider string
	Kind     provider.Kind
	Message  string
}

type ProviderStat struct {
	Provider string
	Status   Status
	Offers   int
	Duration time.Duration
}

type Result struct {
	SearchID   uuid.UUID
	Params     common.SearchParams
	Flights    []common.Offer
	Sources    []string
	Cached     bool
	Fallback   bool
	SearchTime time.Duration
	Errors     []ProviderFailure
	Providers  []ProviderStat
	CreatedAt  time.Time
}

// DataSource tells whether the flights came from real providers, synthetic data or both.
func (r Result) DataSource() DataSource {
	if r.Fallback {
		return DataSourceDemo
	}

	var live, demo bool
	for _, o := range r.Flights {
		if o.Reliability == common.ReliabilitySynthetic {
			demo = true
		} else {
			live = true
		}
	}

	switch {
	case live && demo:
		return DataSourceMixed
	case demo:
		return DataSourceDemo
	default:
		return DataSourceLive
	}
}

func (r Result) Clone() Result {
	if r.Flights != nil {
		flights := make([]common.Offer, len(r.Flights))
		for i, o := range r.Flights {
			flights[i] = o.Clone()
		}

		r.Flights = flights
	}

	r.Sources = slices.Clone(r.Sources)
	r.Errors = slices.Clone(r.Errors)
	r.Providers = slices.Clone(r.Providers)

	return r
}

func statusOf(kind provider.Kind) Status {
	switch kind {
	case provider.KindTimeout:
		return StatusTimeout
	case provider.KindThrottled:
		return StatusThrottled
	default:
		return StatusFailed
	}
}
