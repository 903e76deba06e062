package db

import (
	"context"
	"database/sql"
	"fmt"
	"github.com/explore-flights/farefinder/common"
	"github.com/explore-flights/farefinder/common/xtime"
	"github.com/shopspring/decimal"
	"strconv"
	"strings"
	"time"
)

type Fare struct {
	Origin       string
	Destination  string
	Airline      string
	AirlineName  string
	FlightNumber string
	Aircraft     string
	Depart       xtime.LocalTime
	Duration     time.Duration
	Via          []common.Layover
	Cabin        common.TravelClass
	BaseFare     decimal.Decimal
	Taxes        decimal.Decimal
	Fees         decimal.Decimal
	ValidFrom    xtime.LocalDate
	ValidUntil   xtime.LocalDate
}

func (f Fare) Total() decimal.Decimal {
	return f.BaseFare.Add(f.Taxes).Add(f.Fees)
}

type faresDatabase interface {
	Conn(ctx context.Context) (*sql.Conn, error)
}

type FareRepo struct {
	db faresDatabase
}

func NewFareRepo(db faresDatabase) *FareRepo {
	return &FareRepo{db: db}
}

// Fares returns the published fares for a route valid on date, cheapest first.
func (fr *FareRepo) Fares(ctx context.Context, origin, destination string, date xtime.LocalDate) ([]Fare, error) {
	conn, err := fr.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := conn.QueryContext(
		ctx,
		`
SELECT
	origin,
	destination,
	airline,
	COALESCE(airline_name, ''),
	flight_number,
	COALESCE(aircraft, ''),
	depart_minute,
	duration_minutes,
	COALESCE(via, ''),
	COALESCE(cabin, ''),
	CAST(base_fare AS VARCHAR),
	CAST(taxes AS VARCHAR),
	CAST(fees AS VARCHAR),
	CAST(valid_from AS VARCHAR),
	CAST(valid_until AS VARCHAR)
FROM fares
WHERE origin = ?
AND destination = ?
AND CAST(? AS DATE) BETWEEN valid_from AND valid_until
ORDER BY (base_fare + taxes + fees) ASC, depart_minute ASC, flight_number ASC
`,
		origin,
		destination,
		date.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fares []Fare
	for rows.Next() {
		var f Fare
		var departMinute, durationMinutes int
		var via, cabin, validFrom, validUntil string

		if err = rows.Scan(
			&f.Origin,
			&f.Destination,
			&f.Airline,
			&f.AirlineName,
			&f.FlightNumber,
			&f.Aircraft,
			&departMinute,
			&durationMinutes,
			&via,
			&cabin,
			&f.BaseFare,
			&f.Taxes,
			&f.Fees,
			&validFrom,
			&validUntil,
		); err != nil {
			return nil, err
		}

		f.Depart = xtime.LocalTime(time.Duration(departMinute) * time.Minute)
		f.Duration = time.Duration(durationMinutes) * time.Minute

		if f.Via, err = parseVia(via); err != nil {
			return nil, fmt.Errorf("fare %s: %w", f.FlightNumber, err)
		}

		if cabin != "" {
			if f.Cabin, err = common.ParseTravelClass(cabin); err != nil {
				return nil, fmt.Errorf("fare %s: %w", f.FlightNumber, err)
			}
		}

		if f.ValidFrom, err = xtime.ParseLocalDate(validFrom); err != nil {
			return nil, err
		}

		if f.ValidUntil, err = xtime.ParseLocalDate(validUntil); err != nil {
			return nil, err
		}

		fares = append(fares, f)
	}

	return fares, rows.Err()
}

func (fr *FareRepo) Insert(ctx context.Context, fares ...Fare) error {
	conn, err := fr.db.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, f := range fares {
		h, m := f.Depart.Clock()
		if _, err = tx.ExecContext(
			ctx,
			`INSERT INTO fares VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CAST(? AS DECIMAL(10, 2)), CAST(? AS DECIMAL(10, 2)), CAST(? AS DECIMAL(10, 2)), CAST(? AS DATE), CAST(? AS DATE))`,
			f.Origin,
			f.Destination,
			f.Airline,
			f.AirlineName,
			f.FlightNumber,
			f.Aircraft,
			h*60+m,
			int(f.Duration.Minutes()),
			formatVia(f.Via),
			string(f.Cabin),
			f.BaseFare.StringFixed(2),
			f.Taxes.StringFixed(2),
			f.Fees.StringFixed(2),
			f.ValidFrom.String(),
			f.ValidUntil.String(),
		); err != nil {
			return fmt.Errorf("failed to insert fare %s: %w", f.FlightNumber, err)
		}
	}

	return tx.Commit()
}

// via is stored as "ORD:90,DEN:45" (airport:layover minutes).
func parseVia(v string) ([]common.Layover, error) {
	if v == "" {
		return nil, nil
	}

	parts := strings.Split(v, ",")
	layovers := make([]common.Layover, 0, len(parts))
	for _, part := range parts {
		airport, minutes, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return nil, fmt.Errorf("invalid via entry %q", part)
		}

		n, err := strconv.Atoi(minutes)
		if err != nil {
			return nil, fmt.Errorf("invalid via entry %q: %w", part, err)
		}

		layovers = append(layovers, common.Layover{
			Airport:  airport,
			Duration: time.Duration(n) * time.Minute,
		})
	}

	return layovers, nil
}

func formatVia(layovers []common.Layover) string {
	parts := make([]string, 0, len(layovers))
	for _, l := range layovers {
		parts = append(parts, l.Airport+":"+strconv.Itoa(int(l.Duration.Minutes())))
	}

	return strings.Join(parts, ",")
}
