package common

import (
	"errors"
	"fmt"
	"github.com/explore-flights/farefinder/common/xtime"
	"github.com/shopspring/decimal"
	"math"
	"slices"
	"strings"
	"time"
)

// ReferenceCurrency is the currency every Offer.Price is expressed in.
const ReferenceCurrency = "USD"

var ErrInvalidOffer = errors.New("invalid offer")

type TravelClass string

const (
	TravelClassEconomy        = TravelClass("economy")
	TravelClassPremiumEconomy = TravelClass("premium-economy")
	TravelClassBusiness       = TravelClass("business")
	TravelClassFirst          = TravelClass("first")
)

var travelClasses = []TravelClass{
	TravelClassEconomy,
	TravelClassPremiumEconomy,
	TravelClassBusiness,
	TravelClassFirst,
}

// ParseTravelClass accepts the canonical names as well as the upper/underscore variants
// upstream APIs commonly use (PREMIUM_ECONOMY, premium_economy, ...).
func ParseTravelClass(v string) (TravelClass, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(v)), "_", "-")
	for _, tc := range travelClasses {
		if string(tc) == norm {
			return tc, nil
		}
	}

	return "", fmt.Errorf("unknown travel class %q", v)
}

func (tc TravelClass) Valid() bool {
	return slices.Contains(travelClasses, tc)
}

type Reliability int

const (
	ReliabilitySynthetic Reliability = iota
	ReliabilityLow
	ReliabilityMedium
	ReliabilityHigh
)

var reliabilityNames = map[Reliability]string{
	ReliabilitySynthetic: "synthetic",
	ReliabilityLow:       "low",
	ReliabilityMedium:    "medium",
	ReliabilityHigh:      "high",
}

func (r Reliability) String() string {
	if name, ok := reliabilityNames[r]; ok {
		return name
	}

	return fmt.Sprintf("Reliability(%d)", int(r))
}

func (r Reliability) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Reliability) UnmarshalText(text []byte) error {
	for k, v := range reliabilityNames {
		if v == string(text) {
			*r = k
			return nil
		}
	}

	return fmt.Errorf("unknown reliability %q", string(text))
}

type Layover struct {
	Airport  string
	Duration time.Duration
}

type Amenities struct {
	Wifi          bool
	Meals         bool
	Entertainment bool
	PowerOutlets  bool
}

type PriceBreakdown struct {
	BaseFare decimal.Decimal
	Taxes    decimal.Decimal
	Fees     decimal.Decimal
}

func (pb PriceBreakdown) Total() decimal.Decimal {
	return pb.BaseFare.Add(pb.Taxes).Add(pb.Fees)
}

// Offer is one normalized, priced itinerary candidate. Id is only unique within one search result.
type Offer struct {
	Id              string
	Provider        string
	Origin          string
	Destination     string
	DepartTime      xtime.LocalTime
	ArriveTime      xtime.LocalTime
	ArriveDayOffset int
	Duration        time.Duration
	Price           float64
	TravelClass     TravelClass
	ClassInferred   bool
	PriceBreakdown  *PriceBreakdown
	Airline         string
	AirlineName     string
	FlightNumber    string
	Aircraft        string
	Stops           int
	Layovers        []Layover
	Amenities       *Amenities
	Reliability     Reliability
	BookingUrl      string
	// RawOffer is the upstream record, kept for a later booking attempt.
	RawOffer any
}

func (o Offer) Validate() error {
	switch {
	case o.Id == "":
		return fmt.Errorf("%w: missing id", ErrInvalidOffer)
	case o.Origin == "" || o.Destination == "":
		return fmt.Errorf("%w: %s: missing route", ErrInvalidOffer, o.Id)
	case o.Airline == "":
		return fmt.Errorf("%w: %s: missing airline", ErrInvalidOffer, o.Id)
	case !(o.Price > 0) || math.IsInf(o.Price, 0):
		return fmt.Errorf("%w: %s: price must be > 0, got %v", ErrInvalidOffer, o.Id, o.Price)
	case o.Stops < 0:
		return fmt.Errorf("%w: %s: negative stops", ErrInvalidOffer, o.Id)
	case o.Stops == 0 && len(o.Layovers) > 0:
		return fmt.Errorf("%w: %s: non-stop offer with layovers", ErrInvalidOffer, o.Id)
	case o.TravelClass != "" && !o.TravelClass.Valid():
		return fmt.Errorf("%w: %s: unknown travel class %q", ErrInvalidOffer, o.Id, o.TravelClass)
	}

	return nil
}

// Clone returns a copy that shares no mutable slices or pointers with o. RawOffer is shared.
func (o Offer) Clone() Offer {
	if o.Layovers != nil {
		o.Layovers = append([]Layover(nil), o.Layovers...)
	}

	if o.Amenities != nil {
		a := *o.Amenities
		o.Amenities = &a
	}

	if o.PriceBreakdown != nil {
		pb := *o.PriceBreakdown
		o.PriceBreakdown = &pb
	}

	return o
}
