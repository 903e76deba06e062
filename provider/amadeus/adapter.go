package amadeus

import (
	"context"
	"errors"
	"fmt"
	"github.com/explore-flights/farefinder/common"
	"github.com/explore-flights/farefinder/common/xtime"
	"github.com/explore-flights/farefinder/provider"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	Name            = "amadeus"
	maxOffers       = 50
	timestampLayout = "2006-01-02T15:04:05"
)

var isoDurationRgx = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// Adapter queries the Amadeus flight offers search. A nil client makes every search fail
// with provider.ErrNotConfigured.
type Adapter struct {
	client *Client
}

func NewAdapter(client *Client) *Adapter {
	return &Adapter{client: client}
}

func (a *Adapter) Name() string {
	return Name
}

func (a *Adapter) Search(ctx context.Context, params common.SearchParams) ([]common.Offer, error) {
	if a.client == nil {
		return nil, provider.NewError(Name, provider.KindTransport, provider.ErrNotConfigured)
	}

	query := FlightOffersQuery{
		Origin:        params.Origin,
		Destination:   params.Destination,
		DepartureDate: params.DepartureDate.String(),
		Adults:        params.Passengers,
		TravelClass:   strings.ToUpper(strings.ReplaceAll(string(params.CabinClass), "-", "_")),
		Currency:      common.ReferenceCurrency,
		Max:           maxOffers,
	}

	if params.IsRoundTrip() {
		query.ReturnDate = params.ReturnDate.String()
	}

	res, err := a.client.FlightOffers(ctx, query)
	if err != nil {
		return nil, err
	}

	offers := make([]common.Offer, 0, len(res.Data))
	for _, raw := range res.Data {
		o, err := convertOffer(raw, res.Dictionaries)
		if err != nil {
			return nil, err
		}

		offers = append(offers, o)
	}

	return offers, nil
}

func convertOffer(raw jsoniter.RawMessage, dict Dictionaries) (common.Offer, error) {
	var fo FlightOffer
	if err := json.Unmarshal(raw, &fo); err != nil {
		return common.Offer{}, fmt.Errorf("%w: %w", provider.ErrMalformedOffer, err)
	}

	malformed := func(format string, args ...any) error {
		return fmt.Errorf("%w: offer %q: %s", provider.ErrMalformedOffer, fo.Id, fmt.Sprintf(format, args...))
	}

	if len(fo.Itineraries) < 1 || len(fo.Itineraries[0].Segments) < 1 {
		return common.Offer{}, malformed("no outbound segments")
	}

	if !strings.EqualFold(fo.Price.Currency, common.ReferenceCurrency) {
		return common.Offer{}, malformed("unexpected currency %q", fo.Price.Currency)
	}

	outbound := fo.Itineraries[0]
	first := outbound.Segments[0]
	last := outbound.Segments[len(outbound.Segments)-1]

	departAt, err := time.Parse(timestampLayout, first.Departure.At)
	if err != nil {
		return common.Offer{}, malformed("departure: %v", err)
	}

	arriveAt, err := time.Parse(timestampLayout, last.Arrival.At)
	if err != nil {
		return common.Offer{}, malformed("arrival: %v", err)
	}

	duration := arriveAt.Sub(departAt)
	if outbound.Duration != "" {
		if duration, err = parseDuration(outbound.Duration); err != nil {
			return common.Offer{}, malformed("duration: %v", err)
		}
	}

	layovers, err := layoversOf(outbound.Segments)
	if err != nil {
		return common.Offer{}, malformed("layovers: %v", err)
	}

	stops := len(outbound.Segments) - 1
	for _, seg := range outbound.Segments {
		stops += seg.NumberOfStops
	}

	if stops == 0 {
		layovers = nil
	}

	airline := first.CarrierCode
	if len(fo.ValidatingAirlineCodes) > 0 {
		airline = fo.ValidatingAirlineCodes[0]
	}

	var class common.TravelClass
	if len(fo.TravelerPricings) > 0 && len(fo.TravelerPricings[0].FareDetailsBySegment) > 0 {
		if tc, err := common.ParseTravelClass(fo.TravelerPricings[0].FareDetailsBySegment[0].Cabin); err == nil {
			class = tc
		}
	}

	total := fo.Price.GrandTotal
	if total.IsZero() {
		total = fo.Price.Total
	}

	price, _ := total.Float64()
	breakdown := breakdownOf(fo.Price, total)

	return common.Offer{
		Id:              fo.Id,
		Provider:        Name,
		Origin:          first.Departure.IataCode,
		Destination:     last.Arrival.IataCode,
		DepartTime:      xtime.NewLocalTime(departAt),
		ArriveTime:      xtime.NewLocalTime(arriveAt),
		ArriveDayOffset: xtime.NewLocalDate(arriveAt).DaysSince(xtime.NewLocalDate(departAt)),
		Duration:        duration,
		Price:           price,
		TravelClass:     class,
		PriceBreakdown:  &breakdown,
		Airline:         airline,
		AirlineName:     dict.Carriers[airline],
		FlightNumber:    first.CarrierCode + first.Number,
		Aircraft:        first.Aircraft.Code,
		Stops:           stops,
		Layovers:        layovers,
		RawOffer:        raw,
	}, nil
}

func breakdownOf(p Price, total decimal.Decimal) common.PriceBreakdown {
	fees := decimal.Zero
	for _, f := range p.Fees {
		fees = fees.Add(f.Amount)
	}

	return common.PriceBreakdown{
		BaseFare: p.Base,
		Taxes:    decimal.Max(total.Sub(p.Base).Sub(fees), decimal.Zero),
		Fees:     fees,
	}
}

func layoversOf(segments []Segment) ([]common.Layover, error) {
	var layovers []common.Layover
	for i := 0; i+1 < len(segments); i++ {
		arrive, err := time.Parse(timestampLayout, segments[i].Arrival.At)
		if err != nil {
			return nil, err
		}

		depart, err := time.Parse(timestampLayout, segments[i+1].Departure.At)
		if err != nil {
			return nil, err
		}

		layovers = append(layovers, common.Layover{
			Airport:  segments[i].Arrival.IataCode,
			Duration: max(depart.Sub(arrive), 0),
		})
	}

	return layovers, nil
}

// parseDuration parses the ISO-8601 durations Amadeus uses, e.g. PT6H10M or P1DT2H.
func parseDuration(v string) (time.Duration, error) {
	m := isoDurationRgx.FindStringSubmatch(v)
	if m == nil || v == "P" || v == "PT" {
		return 0, errors.New("invalid duration " + strconv.Quote(v))
	}

	units := [...]time.Duration{24 * time.Hour, time.Hour, time.Minute, time.Second}

	var d time.Duration
	for i, unit := range units {
		if m[i+1] == "" {
			continue
		}

		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return 0, err
		}

		d += time.Duration(n) * unit
	}

	return d, nil
}
