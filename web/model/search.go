package model

import (
	"github.com/explore-flights/farefinder/business/aggregator"
	"github.com/explore-flights/farefinder/common"
	"github.com/explore-flights/farefinder/common/xtime"
	"github.com/explore-flights/farefinder/provider"
	"github.com/shopspring/decimal"
	"time"
)

type Layover struct {
	Airport         string `json:"airport"`
	DurationMinutes int    `json:"durationMinutes"`
}

type Amenities struct {
	Wifi          bool `json:"wifi"`
	Meals         bool `json:"meals"`
	Entertainment bool `json:"entertainment"`
	PowerOutlets  bool `json:"powerOutlets"`
}

type PriceBreakdown struct {
	BaseFare decimal.Decimal `json:"baseFare"`
	Taxes    decimal.Decimal `json:"taxes"`
	Fees     decimal.Decimal `json:"fees"`
}

type FlightOffer struct {
	Id              string             `json:"id"`
	Provider        string             `json:"provider"`
	Origin          string             `json:"origin"`
	Destination     string             `json:"destination"`
	DepartTime      xtime.LocalTime    `json:"departTime"`
	ArriveTime      xtime.LocalTime    `json:"arriveTime"`
	ArriveDayOffset int                `json:"arriveDayOffset,omitempty"`
	DurationMinutes int                `json:"durationMinutes"`
	Price           float64            `json:"price"`
	Currency        string             `json:"currency"`
	TravelClass     common.TravelClass `json:"travelClass"`
	ClassInferred   bool               `json:"classInferred,omitempty"`
	PriceBreakdown  *PriceBreakdown    `json:"priceBreakdown,omitempty"`
	Airline         string             `json:"airline"`
	AirlineName     string             `json:"airlineName,omitempty"`
	FlightNumber    string             `json:"flightNumber,omitempty"`
	Aircraft        string             `json:"aircraft,omitempty"`
	Stops           int                `json:"stops"`
	Layovers        []Layover          `json:"layovers,omitempty"`
	Amenities       *Amenities         `json:"amenities,omitempty"`
	Reliability     common.Reliability `json:"reliability"`
	BookingUrl      string             `json:"bookingUrl,omitempty"`
}

func FlightOfferFromCommon(o common.Offer) FlightOffer {
	fo := FlightOffer{
		Id:              o.Id,
		Provider:        o.Provider,
		Origin:          o.Origin,
		Destination:     o.Destination,
		DepartTime:      o.DepartTime,
		ArriveTime:      o.ArriveTime,
		ArriveDayOffset: o.ArriveDayOffset,
		DurationMinutes: int(o.Duration / time.Minute),
		Price:           o.Price,
		Currency:        common.ReferenceCurrency,
		TravelClass:     o.TravelClass,
		ClassInferred:   o.ClassInferred,
		Airline:         o.Airline,
		AirlineName:     o.AirlineName,
		FlightNumber:    o.FlightNumber,
		Aircraft:        o.Aircraft,
		Stops:           o.Stops,
		Reliability:     o.Reliability,
		BookingUrl:      o.BookingUrl,
	}

	if o.PriceBreakdown != nil {
		fo.PriceBreakdown = &PriceBreakdown{
			BaseFare: o.PriceBreakdown.BaseFare,
			Taxes:    o.PriceBreakdown.Taxes,
			Fees:     o.PriceBreakdown.Fees,
		}
	}

	for _, l := range o.Layovers {
		fo.Layovers = append(fo.Layovers, Layover{
			Airport:         l.Airport,
			DurationMinutes: int(l.Duration / time.Minute),
		})
	}

	if o.Amenities != nil {
		fo.Amenities = &Amenities{
			Wifi:          o.Amenities.Wifi,
			Meals:         o.Amenities.Meals,
			Entertainment: o.Amenities.Entertainment,
			PowerOutlets:  o.Amenities.PowerOutlets,
		}
	}

	return fo
}

type SearchParams struct {
	Origin        string             `json:"origin"`
	Destination   string             `json:"destination"`
	DepartureDate xtime.LocalDate    `json:"departureDate"`
	ReturnDate    *xtime.LocalDate   `json:"returnDate,omitempty"`
	Passengers    int                `json:"passengers"`
	TripType      common.TripType    `json:"tripType"`
	CabinClass    common.TravelClass `json:"cabinClass,omitempty"`
}

type ProviderError struct {
	Provider string        `json:"provider"`
	Kind     provider.Kind `json:"kind"`
	Message  string        `json:"message"`
}

type ProviderStat struct {
	Provider   string            `json:"provider"`
	Status     aggregator.Status `json:"status"`
	Offers     int               `json:"offers"`
	DurationMs int64             `json:"durationMs"`
}

type SearchResult struct {
	SearchId     UUID                  `json:"searchId"`
	Params       SearchParams          `json:"params"`
	Flights      []FlightOffer         `json:"flights"`
	Sources      []string              `json:"sources"`
	DataSource   aggregator.DataSource `json:"dataSource"`
	Cached       bool                  `json:"cached"`
	Fallback     bool                  `json:"fallback"`
	SearchTimeMs int64                 `json:"searchTimeMs"`
	Errors       []ProviderError       `json:"errors"`
	Providers    []ProviderStat        `json:"providers"`
	CreatedAt    time.Time             `json:"createdAt"`
}

func SearchResultFromAggregated(r aggregator.Result) SearchResult {
	sr := SearchResult{
		SearchId: UUID(r.SearchID),
		Params: SearchParams{
			Origin:        r.Params.Origin,
			Destination:   r.Params.Destination,
			DepartureDate: r.Params.DepartureDate,
			Passengers:    r.Params.Passengers,
			TripType:      r.Params.TripType,
			CabinClass:    r.Params.CabinClass,
		},
		Flights:      make([]FlightOffer, 0, len(r.Flights)),
		Sources:      append(make([]string, 0, len(r.Sources)), r.Sources...),
		DataSource:   r.DataSource(),
		Cached:       r.Cached,
		Fallback:     r.Fallback,
		SearchTimeMs: r.SearchTime.Milliseconds(),
		Errors:       make([]ProviderError, 0, len(r.Errors)),
		Providers:    make([]ProviderStat, 0, len(r.Providers)),
		CreatedAt:    r.CreatedAt.UTC(),
	}

	if !r.Params.ReturnDate.IsZero() {
		rd := r.Params.ReturnDate
		sr.Params.ReturnDate = &rd
	}

	for _, o := range r.Flights {
		sr.Flights = append(sr.Flights, FlightOfferFromCommon(o))
	}

	for _, f := range r.Errors {
		sr.Errors = append(sr.Errors, ProviderError{
			Provider: f.Provider,
			Kind:     f.Kind,
			Message:  f.Message,
		})
	}

	for _, s := range r.Providers {
		sr.Providers = append(sr.Providers, ProviderStat{
			Provider:   s.Provider,
			Status:     s.Status,
			Offers:     s.Offers,
			DurationMs: s.Duration.Milliseconds(),
		})
	}

	return sr
}
