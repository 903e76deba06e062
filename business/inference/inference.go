package inference

import (
	"github.com/explore-flights/farefinder/common"
	"strings"
)

// Thresholds are per-passenger prices (in common.ReferenceCurrency) at or above which an
// offer of unknown class is assumed to be of that class.
type Thresholds struct {
	PremiumEconomy float64 `json:"premiumEconomy"`
	Business       float64 `json:"business"`
	First          float64 `json:"first"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		PremiumEconomy: 600,
		Business:       1200,
		First:          3000,
	}
}

var DefaultPremiumAirlines = common.NewCodeSet(
	"EK", "QR", "SQ", "CX", "NH", "JL", "EY", "LH", "LX", "BA", "DL", "QF", "VS", "AF", "KL", "TK",
)

type Option func(in *Inferer)

func WithThresholds(t Thresholds) Option {
	return func(in *Inferer) {
		in.thresholds = t
	}
}

func WithPremiumAirlines(codes common.CodeSet) Option {
	return func(in *Inferer) {
		in.premium = codes
	}
}

type Inferer struct {
	thresholds Thresholds
	premium    common.CodeSet
}

func New(opts ...Option) *Inferer {
	in := &Inferer{
		thresholds: DefaultThresholds(),
		premium:    DefaultPremiumAirlines,
	}

	for _, opt := range opts {
		opt(in)
	}

	return in
}

func (in *Inferer) Amenities(o common.Offer) common.Amenities {
	wide := common.IsWideBody(o.Aircraft)
	premium := in.premium.Contains(strings.ToUpper(o.Airline))

	return common.Amenities{
		Wifi:          wide || premium,
		Meals:         true,
		Entertainment: wide,
		PowerOutlets:  wide || premium,
	}
}

// Class maps a per-passenger price onto the four price bands.
func (in *Inferer) Class(pricePerPassenger float64) common.TravelClass {
	switch {
	case pricePerPassenger >= in.thresholds.First:
		return common.TravelClassFirst
	case pricePerPassenger >= in.thresholds.Business:
		return common.TravelClassBusiness
	case pricePerPassenger >= in.thresholds.PremiumEconomy:
		return common.TravelClassPremiumEconomy
	default:
		return common.TravelClassEconomy
	}
}

// Enrich fills missing amenities and travel classes in place. A class reported by the
// provider is never replaced. If classFiltered is set, the provider only returns offers of
// the requested class, so that class wins over the price heuristic.
func (in *Inferer) Enrich(offers []common.Offer, params common.SearchParams, classFiltered bool) {
	passengers := max(params.Passengers, 1)

	for i := range offers {
		o := &offers[i]

		if o.Amenities == nil {
			a := in.Amenities(*o)
			o.Amenities = &a
		}

		if o.TravelClass != "" {
			continue
		}

		if classFiltered && params.CabinClass.Valid() {
			o.TravelClass = params.CabinClass
		} else {
			o.TravelClass = in.Class(o.Price / float64(passengers))
		}

		o.ClassInferred = true
	}
}
