package amadeus

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
)

type FlightOffersQuery struct {
	Origin        string
	Destination   string
	DepartureDate string
	ReturnDate    string
	Adults        int
	TravelClass   string
	Currency      string
	Max           int
}

type FlightOffersResponse struct {
	Data         []jsoniter.RawMessage `json:"data"`
	Dictionaries Dictionaries          `json:"dictionaries"`
}

type Dictionaries struct {
	Carriers map[string]string `json:"carriers"`
	Aircraft map[string]string `json:"aircraft"`
}

type FlightOffer struct {
	Id                     string            `json:"id"`
	Source                 string            `json:"source"`
	Itineraries            []Itinerary       `json:"itineraries"`
	Price                  Price             `json:"price"`
	ValidatingAirlineCodes []string          `json:"validatingAirlineCodes"`
	TravelerPricings       []TravelerPricing `json:"travelerPricings"`
}

type Itinerary struct {
	Duration string    `json:"duration"`
	Segments []Segment `json:"segments"`
}

type Segment struct {
	Departure     Endpoint `json:"departure"`
	Arrival       Endpoint `json:"arrival"`
	CarrierCode   string   `json:"carrierCode"`
	Number        string   `json:"number"`
	Aircraft      Aircraft `json:"aircraft"`
	Duration      string   `json:"duration"`
	NumberOfStops int      `json:"numberOfStops"`
}

type Endpoint struct {
	IataCode string `json:"iataCode"`
	Terminal string `json:"terminal"`
	At       string `json:"at"`
}

type Aircraft struct {
	Code string `json:"code"`
}

type Price struct {
	Currency   string          `json:"currency"`
	Total      decimal.Decimal `json:"total"`
	Base       decimal.Decimal `json:"base"`
	GrandTotal decimal.Decimal `json:"grandTotal"`
	Fees       []Fee           `json:"fees"`
}

type Fee struct {
	Amount decimal.Decimal `json:"amount"`
	Type   string          `json:"type"`
}

type TravelerPricing struct {
	FareDetailsBySegment []FareDetails `json:"fareDetailsBySegment"`
}

type FareDetails struct {
	SegmentId string `json:"segmentId"`
	Cabin     string `json:"cabin"`
}
