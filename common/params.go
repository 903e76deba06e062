package common

import (
	"errors"
	"fmt"
	"github.com/explore-flights/farefinder/common/xtime"
	"regexp"
	"strconv"
	"strings"
)

const MaxPassengers = 9

var ErrInvalidSearchParams = errors.New("invalid search params")

var airportCodeRgx = regexp.MustCompile("^[A-Z]{3}$")

type InvalidSearchParamsError struct {
	Field  string
	Reason string
}

func (e *InvalidSearchParamsError) Error() string {
	return fmt.Sprintf("invalid search params: %s: %s", e.Field, e.Reason)
}

func (e *InvalidSearchParamsError) Unwrap() error {
	return ErrInvalidSearchParams
}

func invalidParam(field, reason string) error {
	return &InvalidSearchParamsError{Field: field, Reason: reason}
}

type TripType string

const (
	TripTypeOneWay    = TripType("one-way")
	TripTypeRoundTrip = TripType("round-trip")
)

type SearchParams struct {
	Origin        string
	Destination   string
	DepartureDate xtime.LocalDate
	ReturnDate    xtime.LocalDate
	Passengers    int
	TripType      TripType
	// CabinClass is empty when the caller accepts any class.
	CabinClass TravelClass
}

func (p SearchParams) IsRoundTrip() bool {
	return p.TripType == TripTypeRoundTrip
}

// Normalize upper-cases codes and fills the trip type from the presence of a return date.
func (p SearchParams) Normalize() SearchParams {
	p.Origin = strings.ToUpper(strings.TrimSpace(p.Origin))
	p.Destination = strings.ToUpper(strings.TrimSpace(p.Destination))

	tripType := TripType(strings.ToLower(strings.ReplaceAll(strings.TrimSpace(string(p.TripType)), "_", "-")))
	switch tripType {
	case TripTypeOneWay, TripTypeRoundTrip:
		p.TripType = tripType
	case "":
		if p.ReturnDate.IsZero() {
			p.TripType = TripTypeOneWay
		} else {
			p.TripType = TripTypeRoundTrip
		}
	default:
		p.TripType = tripType
	}

	if p.TripType == TripTypeOneWay {
		p.ReturnDate = xtime.LocalDate{}
	}

	if p.CabinClass != "" {
		if tc, err := ParseTravelClass(string(p.CabinClass)); err == nil {
			p.CabinClass = tc
		}
	}

	return p
}

// Validate checks a normalized SearchParams against the booking date today.
func (p SearchParams) Validate(today xtime.LocalDate) error {
	switch {
	case !airportCodeRgx.MatchString(p.Origin):
		return invalidParam("origin", "must be a 3-letter airport code")
	case !airportCodeRgx.MatchString(p.Destination):
		return invalidParam("destination", "must be a 3-letter airport code")
	case p.Origin == p.Destination:
		return invalidParam("destination", "must differ from origin")
	case p.DepartureDate.IsZero():
		return invalidParam("departureDate", "is required")
	case p.DepartureDate.Before(today):
		return invalidParam("departureDate", "must not be in the past")
	case p.Passengers < 1 || p.Passengers > MaxPassengers:
		return invalidParam("passengers", "must be between 1 and "+strconv.Itoa(MaxPassengers))
	case p.TripType != TripTypeOneWay && p.TripType != TripTypeRoundTrip:
		return invalidParam("tripType", fmt.Sprintf("unknown trip type %q", p.TripType))
	case p.IsRoundTrip() && p.ReturnDate.IsZero():
		return invalidParam("returnDate", "is required for round trips")
	case p.IsRoundTrip() && p.ReturnDate.Before(p.DepartureDate):
		return invalidParam("returnDate", "must not be before the departure date")
	case p.CabinClass != "" && !p.CabinClass.Valid():
		return invalidParam("cabinClass", fmt.Sprintf("unknown cabin class %q", p.CabinClass))
	}

	return nil
}

// CacheKey is derived from the normalized params, so equivalent requests share a key.
func (p SearchParams) CacheKey() string {
	p = p.Normalize()
	return strings.Join([]string{
		p.Origin,
		p.Destination,
		p.DepartureDate.String(),
		p.ReturnDate.String(),
		strconv.Itoa(p.Passengers),
		string(p.TripType),
		string(p.CabinClass),
	}, "|")
}
