package ratelimit

import (
	"github.com/explore-flights/farefinder/common/concurrent"
	"slices"
	"time"
)

// Limit is the request budget of one provider. A zero field means unlimited for that window.
type Limit struct {
	PerMinute int `json:"requestsPerMinute"`
	PerHour   int `json:"requestsPerHour"`
}

type Usage struct {
	Limit  Limit `json:"limit"`
	Minute int   `json:"minute"`
	Hour   int   `json:"hour"`
}

type Option func(l *Limiter)

func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// Limiter tracks, per provider, the timestamps of admitted requests within the last hour.
// The minute window is the tail of the same timestamp list.
type Limiter struct {
	limits map[string]Limit
	hits   concurrent.Map[string, []time.Time]
	now    func() time.Time
}

func NewLimiter(limits map[string]Limit, opts ...Option) *Limiter {
	l := &Limiter{
		limits: make(map[string]Limit, len(limits)),
		hits:   concurrent.NewMap[string, []time.Time](),
		now:    time.Now,
	}

	for name, limit := range limits {
		l.limits[name] = limit
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// ShouldThrottle reports whether provider has exhausted either window. If it has not,
// the current request is recorded. Check and record happen under one lock.
func (l *Limiter) ShouldThrottle(provider string) bool {
	limit := l.limits[provider]
	if limit.PerMinute <= 0 && limit.PerHour <= 0 {
		return false
	}

	now := l.now()
	throttled := false

	l.hits.Compute(provider, func(hits []time.Time, _ bool) ([]time.Time, bool) {
		hits = prune(hits, now)
		minute, hour := count(hits, now)

		if (limit.PerMinute > 0 && minute >= limit.PerMinute) || (limit.PerHour > 0 && hour >= limit.PerHour) {
			throttled = true
			return hits, len(hits) > 0
		}

		return append(hits, now), true
	})

	return throttled
}

func (l *Limiter) Usage(provider string) Usage {
	now := l.now()
	u := Usage{Limit: l.limits[provider]}

	if hits, ok := l.hits.Load(provider); ok {
		u.Minute, u.Hour = count(hits, now)
	}

	return u
}

func prune(hits []time.Time, now time.Time) []time.Time {
	cutoff := now.Add(-time.Hour)
	return slices.DeleteFunc(hits, func(t time.Time) bool {
		return !t.After(cutoff)
	})
}

func count(hits []time.Time, now time.Time) (int, int) {
	minuteCutoff := now.Add(-time.Minute)
	hourCutoff := now.Add(-time.Hour)

	var minute, hour int
	for _, t := range hits {
		if t.After(hourCutoff) {
			hour++
			if t.After(minuteCutoff) {
				minute++
			}
		}
	}

	return minute, hour
}
