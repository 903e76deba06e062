package synthetic

import (
	"context"
	"github.com/explore-flights/farefinder/common"
	"github.com/explore-flights/farefinder/common/xtime"
	"github.com/stretchr/testify/assert"
	"testing"
	"time"
)

func oneWay(origin, destination string) common.SearchParams {
	return common.SearchParams{
		Origin:        origin,
		Destination:   destination,
		DepartureDate: xtime.Today(time.UTC).AddDays(1),
		Passengers:    1,
		TripType:      common.TripTypeOneWay,
	}
}

func TestProvider_Search(t *testing.T) {
	p := New()
	assert.Equal(t, Name, p.Name())

	for range 50 {
		offers, err := p.Search(context.Background(), oneWay("JFK", "LAX"))
		if !assert.NoError(t, err) {
			return
		}

		assert.GreaterOrEqual(t, len(offers), 6)
		assert.LessOrEqual(t, len(offers), 9)

		ids := make(map[string]struct{})
		for _, o := range offers {
			assert.NoError(t, o.Validate())
			assert.Equal(t, "JFK", o.Origin)
			assert.Equal(t, "LAX", o.Destination)
			assert.Positive(t, o.Price)
			assert.Equal(t, Name, o.Provider)
			assert.Equal(t, common.ReliabilitySynthetic, o.Reliability)
			assert.True(t, o.TravelClass.Valid())
			assert.Len(t, o.Layovers, o.Stops)

			if assert.NotNil(t, o.PriceBreakdown) {
				total, _ := o.PriceBreakdown.Total().Float64()
				assert.InDelta(t, o.Price, total, 0.001)
			}

			ids[o.Id] = struct{}{}
		}

		assert.Len(t, ids, len(offers))
	}
}

func TestProvider_Seeded(t *testing.T) {
	params := oneWay("LHR", "SIN")

	a, _ := New(WithSeed(42)).Search(context.Background(), params)
	b, _ := New(WithSeed(42)).Search(context.Background(), params)
	c, _ := New(WithSeed(43)).Search(context.Background(), params)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestProvider_RequestedCabinClass(t *testing.T) {
	params := oneWay("JFK", "LHR")
	params.CabinClass = common.TravelClassBusiness

	offers, err := New(WithSeed(1)).Search(context.Background(), params)
	if assert.NoError(t, err) {
		for _, o := range offers {
			assert.Equal(t, common.TravelClassBusiness, o.TravelClass)
		}
	}
}

func TestProvider_UnknownAirports(t *testing.T) {
	offers, err := New(WithSeed(7), WithName("demo")).Search(context.Background(), oneWay("xyz", "QQQ"))
	if assert.NoError(t, err) {
		assert.NotEmpty(t, offers)
		for _, o := range offers {
			assert.Equal(t, "demo", o.Provider)
			assert.Equal(t, "XYZ", o.Origin)
			assert.NoError(t, o.Validate())
		}
	}
}

func TestProvider_RoundTripCostsMore(t *testing.T) {
	ow := oneWay("JFK", "LAX")
	rt := ow
	rt.TripType = common.TripTypeRoundTrip
	rt.ReturnDate = ow.DepartureDate.AddDays(7)

	a, _ := New(WithSeed(5)).Search(context.Background(), ow)
	b, _ := New(WithSeed(5)).Search(context.Background(), rt)

	if assert.Equal(t, len(a), len(b)) {
		for i := range a {
			assert.Greater(t, b[i].Price, a[i].Price)
		}
	}
}

func TestBasePrice(t *testing.T) {
	assert.Equal(t, 289.0, basePrice("JFK", "LAX"))
	assert.Equal(t, 289.0, basePrice("LAX", "JFK"))

	km, ok := distanceKm("JFK", "LHR")
	if assert.True(t, ok) {
		assert.InDelta(t, 5540, km, 60)
	}

	assert.Greater(t, basePrice("JFK", "SIN"), basePrice("JFK", "ORD"))
	assert.Equal(t, 349.0, basePrice("XXX", "YYY"))
	assert.Equal(t, 649.0, basePrice("JFK", "YYY"))
}

func TestRoster(t *testing.T) {
	for _, al := range roster("JFK", "LAX") {
		assert.Contains(t, al.regions, regionNorthAmerica)
	}

	assert.Len(t, roster("XXX", "YYY"), len(airlines))
	assert.GreaterOrEqual(t, len(roster("NBO", "AKL")), 3)
}

func TestProvider_UniqueDeparturesPerAirline(t *testing.T) {
	p := New(WithSeed(3))

	for range 50 {
		offers, err := p.Search(context.Background(), oneWay("LHR", "FRA"))
		if !assert.NoError(t, err) {
			return
		}

		seen := make(map[string]bool)
		for _, o := range offers {
			key := o.Airline + o.DepartTime.String()
			assert.False(t, seen[key], "duplicate departure %s", key)
			seen[key] = true
		}
	}
}
