package common

import (
	"github.com/explore-flights/farefinder/common/xtime"
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestSearchParams_Validate(t *testing.T) {
	today := xtime.MustParseLocalDate("2026-10-19")
	valid := SearchParams{
		Origin:        "JFK",
		Destination:   "LAX",
		DepartureDate: today.AddDays(1),
		Passengers:    1,
		TripType:      TripTypeOneWay,
	}

	assert.NoError(t, valid.Validate(today))

	testCases := []struct {
		name  string
		mod   func(p SearchParams) SearchParams
		field string
	}{
		{"bad origin", func(p SearchParams) SearchParams { p.Origin = "JF"; return p }, "origin"},
		{"same airports", func(p SearchParams) SearchParams { p.Destination = "JFK"; return p }, "destination"},
		{"past date", func(p SearchParams) SearchParams { p.DepartureDate = today.AddDays(-1); return p }, "departureDate"},
		{"missing date", func(p SearchParams) SearchParams { p.DepartureDate = xtime.LocalDate{}; return p }, "departureDate"},
		{"zero passengers", func(p SearchParams) SearchParams { p.Passengers = 0; return p }, "passengers"},
		{"too many passengers", func(p SearchParams) SearchParams { p.Passengers = 10; return p }, "passengers"},
		{"round trip without return", func(p SearchParams) SearchParams { p.TripType = TripTypeRoundTrip; return p }, "returnDate"},
		{"return before departure", func(p SearchParams) SearchParams {
			p.TripType = TripTypeRoundTrip
			p.ReturnDate = today
			p.DepartureDate = today.AddDays(2)
			return p
		}, "returnDate"},
		{"unknown cabin", func(p SearchParams) SearchParams { p.CabinClass = "cargo"; return p }, "cabinClass"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.mod(valid).Validate(today)
			assert.ErrorIs(t, err, ErrInvalidSearchParams)

			var ispe *InvalidSearchParamsError
			if assert.ErrorAs(t, err, &ispe) {
				assert.Equal(t, tc.field, ispe.Field)
			}
		})
	}
}

func TestSearchParams_Normalize(t *testing.T) {
	p := SearchParams{
		Origin:        " jfk",
		Destination:   "lax ",
		DepartureDate: xtime.MustParseLocalDate("2026-10-20"),
		ReturnDate:    xtime.MustParseLocalDate("2026-10-27"),
		Passengers:    2,
		CabinClass:    "PREMIUM_ECONOMY",
	}.Normalize()

	assert.Equal(t, "JFK", p.Origin)
	assert.Equal(t, "LAX", p.Destination)
	assert.Equal(t, TripTypeRoundTrip, p.TripType)
	assert.Equal(t, TravelClassPremiumEconomy, p.CabinClass)

	oneWay := SearchParams{ReturnDate: xtime.MustParseLocalDate("2026-10-27"), TripType: "ONE_WAY"}.Normalize()
	assert.Equal(t, TripTypeOneWay, oneWay.TripType)
	assert.True(t, oneWay.ReturnDate.IsZero())
}

func TestSearchParams_CacheKey(t *testing.T) {
	a := SearchParams{Origin: "jfk", Destination: "LAX", DepartureDate: xtime.MustParseLocalDate("2026-10-20"), Passengers: 1}
	b := SearchParams{Origin: "JFK", Destination: "lax", DepartureDate: xtime.MustParseLocalDate("2026-10-20"), Passengers: 1, TripType: TripTypeOneWay}
	c := b
	c.Passengers = 2

	assert.Equal(t, a.CacheKey(), b.CacheKey())
	assert.NotEqual(t, b.CacheKey(), c.CacheKey())
	assert.Equal(t, "JFK|LAX|2026-10-20||1|one-way|", b.CacheKey())
}
