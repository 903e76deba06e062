package fares

import (
	"context"
	"fmt"
	"github.com/explore-flights/farefinder/common"
	"github.com/explore-flights/farefinder/common/xtime"
	"github.com/explore-flights/farefinder/db"
	"github.com/shopspring/decimal"
	"slices"
)

const Name = "fares"

type fareRepo interface {
	Fares(ctx context.Context, origin, destination string, date xtime.LocalDate) ([]db.Fare, error)
}

// Adapter serves published per-passenger fares. Round trips pair every outbound fare
// with the cheapest matching return fare.
type Adapter struct {
	repo fareRepo
}

func NewAdapter(repo fareRepo) *Adapter {
	return &Adapter{repo: repo}
}

func (a *Adapter) Name() string {
	return Name
}

func (a *Adapter) Search(ctx context.Context, params common.SearchParams) ([]common.Offer, error) {
	outbound, err := a.fares(ctx, params.Origin, params.Destination, params.DepartureDate, params.CabinClass)
	if err != nil {
		return nil, err
	}

	var inboundFare db.Fare
	if params.IsRoundTrip() {
		inbound, err := a.fares(ctx, params.Destination, params.Origin, params.ReturnDate, params.CabinClass)
		if err != nil {
			return nil, err
		}

		if len(inbound) == 0 {
			return []common.Offer{}, nil
		}

		inboundFare = slices.MinFunc(inbound, func(a, b db.Fare) int {
			return a.Total().Cmp(b.Total())
		})
	}

	passengers := decimal.NewFromInt(int64(max(params.Passengers, 1)))
	offers := make([]common.Offer, 0, len(outbound))

	for i, f := range outbound {
		breakdown := common.PriceBreakdown{
			BaseFare: f.BaseFare.Add(inboundFare.BaseFare).Mul(passengers),
			Taxes:    f.Taxes.Add(inboundFare.Taxes).Mul(passengers),
			Fees:     f.Fees.Add(inboundFare.Fees).Mul(passengers),
		}

		price, _ := breakdown.Total().Float64()
		arrive, dayOffset := f.Depart.Add(f.Duration)

		offers = append(offers, common.Offer{
			Id:              fmt.Sprintf("%s-%d", f.FlightNumber, i+1),
			Provider:        Name,
			Origin:          f.Origin,
			Destination:     f.Destination,
			DepartTime:      f.Depart,
			ArriveTime:      arrive,
			ArriveDayOffset: dayOffset,
			Duration:        f.Duration,
			Price:           price,
			TravelClass:     f.Cabin,
			PriceBreakdown:  &breakdown,
			Airline:         f.Airline,
			AirlineName:     f.AirlineName,
			FlightNumber:    f.FlightNumber,
			Aircraft:        f.Aircraft,
			Stops:           len(f.Via),
			Layovers:        slices.Clone(f.Via),
			RawOffer:        f,
		})
	}

	return offers, nil
}

// fares drops fares of a different cabin. Fares without a cabin are kept.
func (a *Adapter) fares(ctx context.Context, origin, destination string, date xtime.LocalDate, cabin common.TravelClass) ([]db.Fare, error) {
	fares, err := a.repo.Fares(ctx, origin, destination, date)
	if err != nil {
		return nil, err
	}

	if cabin == "" {
		return fares, nil
	}

	return slices.DeleteFunc(fares, func(f db.Fare) bool {
		return f.Cabin != "" && f.Cabin != cabin
	}), nil
}
