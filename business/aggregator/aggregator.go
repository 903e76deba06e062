package aggregator

import (
	"context"
	"errors"
	"fmt"
	"github.com/explore-flights/farefinder/business/inference"
	"github.com/explore-flights/farefinder/cache"
	"github.com/explore-flights/farefinder/common"
	"github.com/explore-flights/farefinder/common/concurrent"
	"github.com/explore-flights/farefinder/common/xtime"
	"github.com/explore-flights/farefinder/provider"
	"github.com/explore-flights/farefinder/ratelimit"
	"github.com/gofrs/uuid/v5"
	"log/slog"
	"strings"
	"time"
)

// ErrNoProvidersAvailable is logged when no real provider succeeded and the fallback is used.
var ErrNoProvidersAvailable = errors.New("no providers available")

const (
	DefaultCacheTTL    = 5 * time.Minute
	DefaultMaxResults  = 20
	DefaultBucketWidth = 50.0
)

type Option func(a *Aggregator)

func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

func WithCacheTTL(ttl time.Duration) Option {
	return func(a *Aggregator) {
		a.cacheTTL = ttl
	}
}

func WithMaxResults(n int) Option {
	return func(a *Aggregator) {
		a.maxResults = n
	}
}

// WithBucketWidth sets the price bucket width offers are deduplicated by.
func WithBucketWidth(width float64) Option {
	return func(a *Aggregator) {
		a.bucketWidth = width
	}
}

func WithInferer(in *inference.Inferer) Option {
	return func(a *Aggregator) {
		a.inferer = in
	}
}

func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		a.now = now
	}
}

func NewCache(opts ...cache.Option) *cache.Cache[Result] {
	return cache.New(Result.Clone, opts...)
}

type Aggregator struct {
	registry    *provider.Registry
	limiter     *ratelimit.Limiter
	cache       *cache.Cache[Result]
	fallback    provider.Adapter
	inferer     *inference.Inferer
	logger      *slog.Logger
	cacheTTL    time.Duration
	maxResults  int
	bucketWidth float64
	now         func() time.Time
}

func New(registry *provider.Registry, limiter *ratelimit.Limiter, c *cache.Cache[Result], fallback provider.Adapter, opts ...Option) *Aggregator {
	a := &Aggregator{
		registry:    registry,
		limiter:     limiter,
		cache:       c,
		fallback:    fallback,
		inferer:     inference.New(),
		logger:      slog.Default(),
		cacheTTL:    DefaultCacheTTL,
		maxResults:  DefaultMaxResults,
		bucketWidth: DefaultBucketWidth,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.bucketWidth <= 0 {
		a.bucketWidth = DefaultBucketWidth
	}

	return a
}

// Search returns the merged offers of all enabled providers. The only error it returns is a
// *common.InvalidSearchParamsError, raised before any provider is contacted.
func (a *Aggregator) Search(ctx context.Context, params common.SearchParams) (Result, error) {
	start := a.now()
	params = params.Normalize()
	if err := params.Validate(xtime.NewLocalDate(start)); err != nil {
		return Result{}, err
	}

	key := params.CacheKey()
	if r, ok := a.cache.Get(key); ok {
		r.Cached = true
		return r, nil
	}

	r := Result{
		SearchID:  uuid.Must(uuid.NewV4()),
		Params:    params,
		CreatedAt: start,
	}

	lists, succeeded := a.collect(ctx, params, &r)
	if succeeded == 0 {
		a.logger.WarnContext(
			ctx,
			"falling back to synthetic offers",
			slog.String("err", ErrNoProvidersAvailable.Error()),
			slog.String("search", r.SearchID.String()),
			slog.Int("failures", len(r.Errors)),
		)

		lists = [][]common.Offer{a.runFallback(ctx, params, &r)}
		r.Fallback = true
	}

	r.Flights = merge(lists, a.bucketWidth, a.maxResults)
	r.SearchTime = a.now().Sub(start)

	// a cancelled caller turns every provider call into a failure
	if err := ctx.Err(); err != nil {
		a.logger.DebugContext(
			ctx,
			"not caching result of cancelled search",
			slog.String("search", r.SearchID.String()),
			slog.String("err", err.Error()),
		)

		return r, nil
	}

	a.cache.Set(key, r, a.cacheTTL)

	return r, nil
}

func (a *Aggregator) collect(ctx context.Context, params common.SearchParams, r *Result) ([][]common.Offer, int) {
	var launched []provider.Entry
	var tasks []concurrent.Task[[]common.Offer]

	for _, e := range a.registry.Enabled() {
		if a.limiter.ShouldThrottle(e.Config.Name) {
			perr := provider.NewError(e.Config.Name, provider.KindThrottled, provider.ErrThrottled)
			a.recordFailure(ctx, r, perr, 0)
			continue
		}

		launched = append(launched, e)
		tasks = append(tasks, concurrent.Task[[]common.Offer]{
			Timeout: e.Config.Timeout(),
			Run: func(ctx context.Context) ([]common.Offer, error) {
				offers, err := e.Adapter.Search(ctx, params)
				if err != nil {
					return nil, err
				}

				if err = provider.CheckOffers(offers); err != nil {
					return nil, err
				}

				return offers, nil
			},
		})
	}

	outcomes := concurrent.Settle(ctx, tasks)
	lists := make([][]common.Offer, 0, len(outcomes))
	succeeded := 0

	for i, o := range outcomes {
		cfg := launched[i].Config
		if o.Err != nil {
			a.recordFailure(ctx, r, provider.Classify(cfg.Name, o.Err), o.Duration)
			continue
		}

		succeeded++
		offers := a.prepare(o.Value, cfg, params)
		lists = append(lists, offers)

		r.Providers = append(r.Providers, ProviderStat{
			Provider: cfg.Name,
			Status:   StatusOk,
			Offers:   len(offers),
			Duration: o.Duration,
		})

		if len(offers) > 0 {
			r.Sources = append(r.Sources, cfg.Label())
		}

		a.logger.DebugContext(
			ctx,
			"provider search succeeded",
			slog.String("provider", cfg.Name),
			slog.Int("offers", len(offers)),
			slog.Duration("duration", o.Duration),
		)
	}

	return lists, succeeded
}

func (a *Aggregator) runFallback(ctx context.Context, params common.SearchParams, r *Result) []common.Offer {
	name := a.fallback.Name()
	cfg, ok := a.registry.Config(name)
	if !ok {
		cfg = provider.Config{Name: name, Reliability: common.ReliabilitySynthetic}
	}

	start := a.now()
	offers, err := a.fallback.Search(ctx, params)
	duration := a.now().Sub(start)
	if err == nil {
		err = provider.CheckOffers(offers)
	}

	if err != nil {
		a.recordFailure(ctx, r, provider.Classify(name, err), duration)
		return nil
	}

	offers = a.prepare(offers, cfg, params)
	r.Sources = append(r.Sources, fmt.Sprintf("%s (fallback)", cfg.Label()))
	r.Providers = append(r.Providers, ProviderStat{
		Provider: name,
		Status:   StatusFallback,
		Offers:   len(offers),
		Duration: duration,
	})

	return offers
}

// prepare stamps provenance from the provider config and runs inference.
func (a *Aggregator) prepare(offers []common.Offer, cfg provider.Config, params common.SearchParams) []common.Offer {
	prefix := cfg.Name + "-"
	for i := range offers {
		o := &offers[i]
		o.Provider = cfg.Name
		o.Reliability = cfg.Reliability

		if !strings.HasPrefix(o.Id, prefix) {
			o.Id = prefix + o.Id
		}
	}

	a.inferer.Enrich(offers, params, cfg.ClassFiltered)

	return offers
}

func (a *Aggregator) recordFailure(ctx context.Context, r *Result, perr *provider.Error, duration time.Duration) {
	r.Errors = append(r.Errors, ProviderFailure{
		Provider: perr.Provider,
		Kind:     perr.Kind,
		Message:  perr.Err.Error(),
	})

	r.Providers = append(r.Providers, ProviderStat{
		Provider: perr.Provider,
		Status:   statusOf(perr.Kind),
		Duration: duration,
	})

	level := slog.LevelWarn
	if perr.Kind == provider.KindThrottled {
		level = slog.LevelInfo
	}

	a.logger.Log(
		ctx,
		level,
		"provider search failed",
		slog.String("provider", perr.Provider),
		slog.String("kind", string(perr.Kind)),
		slog.String("err", perr.Err.Error()),
	)
}
