package synthetic

import (
	"context"
	"fmt"
	"github.com/explore-flights/farefinder/common"
	"github.com/explore-flights/farefinder/common/xtime"
	"github.com/shopspring/decimal"
	"math/rand/v2"
	"sync"
	"time"
)

const (
	Name      = "synthetic"
	minOffers = 6
	maxOffers = 9
)

type classWeight struct {
	class  common.TravelClass
	weight int
}

var narrowBodyClasses = []classWeight{
	{common.TravelClassEconomy, 80},
	{common.TravelClassPremiumEconomy, 12},
	{common.TravelClassBusiness, 8},
}

var wideBodyClasses = []classWeight{
	{common.TravelClassEconomy, 50},
	{common.TravelClassPremiumEconomy, 20},
	{common.TravelClassBusiness, 22},
	{common.TravelClassFirst, 8},
}

var classMultiplier = map[common.TravelClass]float64{
	common.TravelClassEconomy:        1,
	common.TravelClassPremiumEconomy: 1.7,
	common.TravelClassBusiness:       3.4,
	common.TravelClassFirst:          5.8,
}

type Option func(p *Provider)

func WithSeed(seed uint64) Option {
	return func(p *Provider) {
		p.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithName registers the generator under a different provider name.
func WithName(name string) Option {
	return func(p *Provider) {
		p.name = name
	}
}

// Provider generates plausible offers from the search params alone. It never fails.
type Provider struct {
	name string
	mtx  sync.Mutex
	rng  *rand.Rand
}

func New(opts ...Option) *Provider {
	p := &Provider{
		name: Name,
		rng:  rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

func (p *Provider) Name() string {
	return p.name
}

func (p *Provider) Search(ctx context.Context, params common.SearchParams) ([]common.Offer, error) {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	return p.generate(params.Normalize()), nil
}

func (p *Provider) generate(params common.SearchParams) []common.Offer {
	carriers := roster(params.Origin, params.Destination)
	base := basePrice(params.Origin, params.Destination)
	km, knownDistance := distanceKm(params.Origin, params.Destination)

	var flightTime time.Duration
	if knownDistance {
		flightTime = time.Duration(km/820*float64(time.Hour)) + 35*time.Minute
	}

	passengers := max(params.Passengers, 1)
	count := minOffers + p.rng.IntN(maxOffers-minOffers+1)
	offers := make([]common.Offer, 0, count)
	taken := make(map[string]bool, count)

	for i := range count {
		al := carriers[p.rng.IntN(len(carriers))]

		legTime := flightTime
		if !knownDistance {
			legTime = time.Duration(90+p.rng.IntN(330)) * time.Minute
		}

		stops := p.stops(km, knownDistance)
		layovers := p.layovers(al, params, stops)

		duration := legTime
		for _, l := range layovers {
			duration += l.Duration + 40*time.Minute
		}

		// +-8% schedule jitter, rounded to 5 minutes
		duration = time.Duration(float64(duration) * (0.92 + p.rng.Float64()*0.16)).Round(5 * time.Minute)

		aircraft := p.aircraft(km, knownDistance, legTime)
		class := params.CabinClass
		if class == "" {
			class = p.class(aircraft)
		}

		// departure slots are unique per airline
		var depart xtime.LocalTime
		for {
			depart = xtime.Clock(5+p.rng.IntN(18), p.rng.IntN(12)*5)
			if key := al.code + depart.String(); !taken[key] {
				taken[key] = true
				break
			}
		}

		arrive, dayOffset := depart.Add(duration)

		fare := base * classMultiplier[class] * (1 - 0.12*float64(stops)) * (0.85 + p.rng.Float64()*0.4)
		if params.IsRoundTrip() {
			fare *= 1.85
		}

		breakdown := breakdownOf(decimal.NewFromFloat(fare * float64(passengers)))
		total, _ := breakdown.Total().Float64()

		offers = append(offers, common.Offer{
			Id:              fmt.Sprintf("%s-%d", p.name, i+1),
			Provider:        p.name,
			Origin:          params.Origin,
			Destination:     params.Destination,
			DepartTime:      depart,
			ArriveTime:      arrive,
			ArriveDayOffset: dayOffset,
			Duration:        duration,
			Price:           total,
			TravelClass:     class,
			PriceBreakdown:  &breakdown,
			Airline:         al.code,
			AirlineName:     al.name,
			FlightNumber:    fmt.Sprintf("%s%d", al.code, 100+p.rng.IntN(2900)),
			Aircraft:        aircraft,
			Stops:           stops,
			Layovers:        layovers,
			Reliability:     common.ReliabilitySynthetic,
		})
	}

	return offers
}

func (p *Provider) stops(km float64, knownDistance bool) int {
	roll := p.rng.IntN(100)
	switch {
	case roll < 60:
		return 0
	case roll < 90 || (knownDistance && km < 1500):
		return 1
	default:
		return 2
	}
}

func (p *Provider) layovers(al airline, params common.SearchParams, stops int) []common.Layover {
	if stops == 0 {
		return nil
	}

	candidates := make([]string, 0, len(al.hubs))
	for _, hub := range al.hubs {
		if hub != params.Origin && hub != params.Destination {
			candidates = append(candidates, hub)
		}
	}

	if len(candidates) == 0 {
		candidates = []string{"ORD", "FRA", "DXB"}
	}

	layovers := make([]common.Layover, 0, stops)
	for range stops {
		layovers = append(layovers, common.Layover{
			Airport:  candidates[p.rng.IntN(len(candidates))],
			Duration: time.Duration(45+p.rng.IntN(28)*5) * time.Minute,
		})
	}

	return layovers
}

func (p *Provider) aircraft(km float64, knownDistance bool, legTime time.Duration) string {
	long := (knownDistance && km > 4000) || legTime > 5*time.Hour
	if long || p.rng.IntN(100) < 15 {
		return wideBody[p.rng.IntN(len(wideBody))]
	}

	return narrowBody[p.rng.IntN(len(narrowBody))]
}

func (p *Provider) class(aircraft string) common.TravelClass {
	weights := narrowBodyClasses
	if common.IsWideBody(aircraft) {
		weights = wideBodyClasses
	}

	total := 0
	for _, w := range weights {
		total += w.weight
	}

	roll := p.rng.IntN(total)
	for _, w := range weights {
		if roll < w.weight {
			return w.class
		}

		roll -= w.weight
	}

	return common.TravelClassEconomy
}

// breakdownOf splits a total into base fare, taxes and fees, all rounded to cents.
func breakdownOf(total decimal.Decimal) common.PriceBreakdown {
	total = decimal.Max(total.Round(2), decimal.NewFromFloat(1))

	taxes := total.Mul(decimal.NewFromFloat(0.14)).Round(2)
	fees := decimal.Min(total.Mul(decimal.NewFromFloat(0.04)), decimal.NewFromInt(45)).Round(2)
	base := total.Sub(taxes).Sub(fees)

	return common.PriceBreakdown{
		BaseFare: base,
		Taxes:    taxes,
		Fees:     fees,
	}
}
