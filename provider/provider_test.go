package provider

import (
	"context"
	"errors"
	"fmt"
	"github.com/explore-flights/farefinder/common"
	"github.com/explore-flights/farefinder/ratelimit"
	"github.com/stretchr/testify/assert"
	"testing"
)

type namedAdapter string

func (a namedAdapter) Name() string {
	return string(a)
}

func (a namedAdapter) Search(ctx context.Context, params common.SearchParams) ([]common.Offer, error) {
	return nil, nil
}

func TestClassify(t *testing.T) {
	testCases := []struct {
		err  error
		kind Kind
	}{
		{context.DeadlineExceeded, KindTimeout},
		{fmt.Errorf("call: %w", context.DeadlineExceeded), KindTimeout},
		{ErrThrottled, KindThrottled},
		{fmt.Errorf("offer 1: %w", common.ErrInvalidOffer), KindMalformed},
		{ErrMalformedOffer, KindMalformed},
		{errors.New("connection refused"), KindTransport},
		{ErrNotConfigured, KindTransport},
	}

	for _, tc := range testCases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			perr := Classify("p", tc.err)
			assert.Equal(t, tc.kind, perr.Kind)
			assert.Equal(t, "p", perr.Provider)
			assert.ErrorIs(t, perr, tc.err)
		})
	}

	existing := NewError("a", KindThrottled, ErrThrottled)
	assert.Same(t, existing, Classify("b", fmt.Errorf("wrapped: %w", existing)))
	assert.Nil(t, Classify("p", nil))
}

func TestCheckOffers(t *testing.T) {
	valid := common.Offer{Id: "1", Origin: "JFK", Destination: "LAX", Airline: "AA", Price: 100}
	invalid := valid
	invalid.Id = "2"
	invalid.Price = 0

	assert.NoError(t, CheckOffers(nil))
	assert.NoError(t, CheckOffers([]common.Offer{valid}))

	err := CheckOffers([]common.Offer{valid, invalid})
	assert.ErrorIs(t, err, ErrMalformedOffer)
	assert.ErrorIs(t, err, common.ErrInvalidOffer)
	assert.Equal(t, KindMalformed, Classify("p", err).Kind)
}

func TestRegistry(t *testing.T) {
	configs := []Config{
		{Name: "c", Enabled: true, Priority: 2},
		{Name: "a", Enabled: true, Priority: 1, RateLimit: ratelimit.Limit{PerMinute: 5}},
		{Name: "b", Enabled: false, Priority: 0},
		{Name: "d", Enabled: true, Priority: 1},
	}

	r := NewRegistry(configs, namedAdapter("c"), namedAdapter("b"), namedAdapter("a"), namedAdapter("d"), namedAdapter("unconfigured"))

	names := func(entries []Entry) []string {
		result := make([]string, 0, len(entries))
		for _, e := range entries {
			result = append(result, e.Config.Name)
		}

		return result
	}

	assert.Equal(t, []string{"b", "a", "d", "c"}, names(r.All()))
	assert.Equal(t, []string{"a", "d", "c"}, names(r.Enabled()))

	c, ok := r.Config("a")
	if assert.True(t, ok) {
		assert.Equal(t, 1, c.Priority)
	}

	_, ok = r.Config("unconfigured")
	assert.False(t, ok)

	assert.Equal(t, ratelimit.Limit{PerMinute: 5}, r.Limits()["a"])
	assert.Len(t, r.Limits(), 4)
}

func TestDefaultConfigs(t *testing.T) {
	for _, c := range DefaultConfigs() {
		assert.NotEmpty(t, c.Name)
		assert.Positive(t, c.Timeout())
	}
}

func TestCheckOffers_DuplicateIds(t *testing.T) {
	o := common.Offer{Id: "1", Origin: "JFK", Destination: "LAX", Airline: "AA", Price: 100}
	assert.ErrorIs(t, CheckOffers([]common.Offer{o, o}), ErrMalformedOffer)
}
