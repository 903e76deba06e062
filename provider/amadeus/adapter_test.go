package amadeus

import (
	"context"
	"github.com/explore-flights/farefinder/common"
	"github.com/explore-flights/farefinder/common/xtime"
	"github.com/explore-flights/farefinder/provider"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

const offersBody = `{
  "data": [
    {
      "id": "1",
      "source": "GDS",
      "itineraries": [{
        "duration": "PT6H10M",
        "segments": [{
          "departure": {"iataCode": "JFK", "at": "2026-10-20T08:00:00"},
          "arrival": {"iataCode": "LAX", "at": "2026-10-20T11:10:00"},
          "carrierCode": "AA", "number": "123", "aircraft": {"code": "321"}, "numberOfStops": 0
        }]
      }],
      "price": {"currency": "USD", "total": "289.40", "base": "240.00", "grandTotal": "289.40", "fees": [{"amount": "5.00", "type": "SUPPLIER"}]},
      "validatingAirlineCodes": ["AA"],
      "travelerPricings": [{"fareDetailsBySegment": [{"segmentId": "1", "cabin": "ECONOMY"}]}]
    },
    {
      "id": "2",
      "source": "GDS",
      "itineraries": [{
        "duration": "PT9H5M",
        "segments": [
          {
            "departure": {"iataCode": "JFK", "at": "2026-10-20T21:00:00"},
            "arrival": {"iataCode": "ORD", "at": "2026-10-20T22:40:00"},
            "carrierCode": "UA", "number": "88", "aircraft": {"code": "789"}
          },
          {
            "departure": {"iataCode": "ORD", "at": "2026-10-21T00:10:00"},
            "arrival": {"iataCode": "LAX", "at": "2026-10-21T03:05:00"},
            "carrierCode": "UA", "number": "89", "aircraft": {"code": "738"}
          }
        ]
      }],
      "price": {"currency": "USD", "total": "1450.00", "base": "1300.00", "grandTotal": "1450.00"},
      "validatingAirlineCodes": ["UA"],
      "travelerPricings": [{"fareDetailsBySegment": [{"segmentId": "1", "cabin": "PREMIUM_ECONOMY"}]}]
    }
  ],
  "dictionaries": {"carriers": {"AA": "AMERICAN AIRLINES", "UA": "UNITED AIRLINES"}}
}`

type upstream struct {
	tokenCalls  atomic.Int32
	searchCalls atomic.Int32
	statuses    []int
	body        string
	lastQuery   atomic.Pointer[string]
}

func (u *upstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/v1/security/oauth2/token":
		u.tokenCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token_type":"Bearer","expires_in":1799,"access_token":"tok"}`))

	case "/v2/shopping/flight-offers":
		n := int(u.searchCalls.Add(1))
		q := r.URL.RawQuery
		u.lastQuery.Store(&q)

		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		if n <= len(u.statuses) {
			w.WriteHeader(u.statuses[n-1])
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(u.body))

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestAdapter(t *testing.T, u *upstream) *Adapter {
	srv := httptest.NewServer(u)
	t.Cleanup(srv.Close)

	return NewAdapter(NewClient("id", "secret", WithBaseUrl(srv.URL), WithHttpClient(srv.Client())))
}

func searchParams() common.SearchParams {
	return common.SearchParams{
		Origin:        "JFK",
		Destination:   "LAX",
		DepartureDate: xtime.MustParseLocalDate("2026-10-20"),
		Passengers:    2,
		TripType:      common.TripTypeOneWay,
		CabinClass:    common.TravelClassPremiumEconomy,
	}
}

func TestAdapter_Search(t *testing.T) {
	u := &upstream{body: offersBody}
	a := newTestAdapter(t, u)

	offers, err := a.Search(context.Background(), searchParams())
	require.NoError(t, err)
	require.Len(t, offers, 2)
	require.NoError(t, provider.CheckOffers(offers))

	nonstop := offers[0]
	assert.Equal(t, "1", nonstop.Id)
	assert.Equal(t, "JFK", nonstop.Origin)
	assert.Equal(t, "LAX", nonstop.Destination)
	assert.Equal(t, "08:00", nonstop.DepartTime.String())
	assert.Equal(t, "11:10", nonstop.ArriveTime.String())
	assert.Equal(t, 6*time.Hour+10*time.Minute, nonstop.Duration)
	assert.Equal(t, 289.4, nonstop.Price)
	assert.Equal(t, common.TravelClassEconomy, nonstop.TravelClass)
	assert.Equal(t, "AA", nonstop.Airline)
	assert.Equal(t, "AMERICAN AIRLINES", nonstop.AirlineName)
	assert.Equal(t, "AA123", nonstop.FlightNumber)
	assert.Equal(t, 0, nonstop.Stops)
	assert.Empty(t, nonstop.Layovers)
	assert.NotNil(t, nonstop.RawOffer)
	if assert.NotNil(t, nonstop.PriceBreakdown) {
		assert.True(t, decimal.RequireFromString("240").Equal(nonstop.PriceBreakdown.BaseFare))
		assert.True(t, decimal.RequireFromString("5").Equal(nonstop.PriceBreakdown.Fees))
		assert.True(t, decimal.RequireFromString("44.4").Equal(nonstop.PriceBreakdown.Taxes))
	}

	connecting := offers[1]
	assert.Equal(t, 1, connecting.Stops)
	assert.Equal(t, 1, connecting.ArriveDayOffset)
	assert.Equal(t, common.TravelClassPremiumEconomy, connecting.TravelClass)
	assert.Equal(t, "789", connecting.Aircraft)
	assert.Equal(t, []common.Layover{{Airport: "ORD", Duration: 90 * time.Minute}}, connecting.Layovers)

	q := u.lastQuery.Load()
	if assert.NotNil(t, q) {
		assert.Contains(t, *q, "adults=2")
		assert.Contains(t, *q, "travelClass=PREMIUM_ECONOMY")
		assert.Contains(t, *q, "currencyCode=USD")
		assert.NotContains(t, *q, "returnDate")
	}

	_, err = a.Search(context.Background(), searchParams())
	assert.NoError(t, err)
	assert.Equal(t, int32(1), u.tokenCalls.Load())
}

func TestAdapter_RoundTripQuery(t *testing.T) {
	u := &upstream{body: `{"data": []}`}
	a := newTestAdapter(t, u)

	p := searchParams()
	p.TripType = common.TripTypeRoundTrip
	p.ReturnDate = p.DepartureDate.AddDays(5)

	offers, err := a.Search(context.Background(), p)
	if assert.NoError(t, err) {
		assert.Empty(t, offers)
	}

	q := u.lastQuery.Load()
	if assert.NotNil(t, q) {
		assert.Contains(t, *q, "returnDate=2026-10-25")
	}
}

func TestAdapter_RetriesBadGateway(t *testing.T) {
	u := &upstream{body: offersBody, statuses: []int{http.StatusBadGateway, http.StatusGatewayTimeout}}
	a := newTestAdapter(t, u)

	offers, err := a.Search(context.Background(), searchParams())
	if assert.NoError(t, err) {
		assert.Len(t, offers, 2)
	}

	assert.Equal(t, int32(3), u.searchCalls.Load())
}

func TestAdapter_GivesUpAfterRetries(t *testing.T) {
	u := &upstream{body: offersBody, statuses: []int{504, 504, 504, 504}}
	a := newTestAdapter(t, u)

	_, err := a.Search(context.Background(), searchParams())
	assert.ErrorIs(t, err, provider.ErrTemporary)
	assert.Equal(t, provider.KindTransport, provider.Classify(Name, err).Kind)
	assert.Equal(t, int32(3), u.searchCalls.Load())
}

func TestAdapter_Throttled(t *testing.T) {
	u := &upstream{body: offersBody, statuses: []int{http.StatusTooManyRequests}}
	a := newTestAdapter(t, u)

	_, err := a.Search(context.Background(), searchParams())
	assert.ErrorIs(t, err, provider.ErrThrottled)
	assert.Equal(t, provider.KindThrottled, provider.Classify(Name, err).Kind)
	assert.Equal(t, int32(1), u.searchCalls.Load())
}

func TestAdapter_ServerError(t *testing.T) {
	u := &upstream{body: offersBody, statuses: []int{http.StatusInternalServerError}}
	a := newTestAdapter(t, u)

	_, err := a.Search(context.Background(), searchParams())
	assert.Error(t, err)
	assert.Equal(t, int32(1), u.searchCalls.Load())
}

func TestAdapter_Malformed(t *testing.T) {
	for name, body := range map[string]string{
		"not json":     `{"data": [`,
		"no segments":  `{"data": [{"id": "1", "itineraries": [], "price": {"currency": "USD", "grandTotal": "10"}}]}`,
		"no departure": `{"data": [{"id": "1", "itineraries": [{"duration": "PT1H", "segments": [{"departure": {"iataCode": "JFK"}, "arrival": {"iataCode": "BOS", "at": "2026-10-20T09:00:00"}, "carrierCode": "B6", "number": "1"}]}], "price": {"currency": "USD", "grandTotal": "10"}}]}`,
		"bad currency": `{"data": [{"id": "1", "itineraries": [{"duration": "PT1H", "segments": [{"departure": {"iataCode": "JFK", "at": "2026-10-20T08:00:00"}, "arrival": {"iataCode": "BOS", "at": "2026-10-20T09:00:00"}, "carrierCode": "B6", "number": "1"}]}], "price": {"currency": "EUR", "grandTotal": "10"}}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			a := newTestAdapter(t, &upstream{body: body})

			_, err := a.Search(context.Background(), searchParams())
			assert.ErrorIs(t, err, provider.ErrMalformedOffer)
			assert.Equal(t, provider.KindMalformed, provider.Classify(Name, err).Kind)
		})
	}
}

func TestAdapter_NotConfigured(t *testing.T) {
	_, err := NewAdapter(nil).Search(context.Background(), searchParams())
	assert.ErrorIs(t, err, provider.ErrNotConfigured)
}

func TestParseDuration(t *testing.T) {
	for v, expected := range map[string]time.Duration{
		"PT6H10M":  6*time.Hour + 10*time.Minute,
		"PT45M":    45 * time.Minute,
		"P1DT2H":   26 * time.Hour,
		"PT1H0M5S": time.Hour + 5*time.Second,
	} {
		d, err := parseDuration(v)
		if assert.NoError(t, err, v) {
			assert.Equal(t, expected, d, v)
		}
	}

	for _, v := range []string{"", "P", "PT", "6h", "PT6X"} {
		_, err := parseDuration(v)
		assert.Error(t, err, v)
	}
}
