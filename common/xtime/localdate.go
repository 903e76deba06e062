package xtime

import (
	"cmp"
	"encoding/json"
	"time"
)

var ldZero LocalDate

type LocalDate struct {
	Year  int
	Month time.Month
	Day   int
}

func NewLocalDate(t time.Time) LocalDate {
	year, month, day := t.Date()
	return LocalDate{year, month, day}
}

func Today(loc *time.Location) LocalDate {
	return NewLocalDate(time.Now().In(cmp.Or(loc, time.UTC)))
}

func ParseLocalDate(v string) (LocalDate, error) {
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return ldZero, err
	}

	return NewLocalDate(t), nil
}

func MustParseLocalDate(v string) LocalDate {
	ld, err := ParseLocalDate(v)
	if err != nil {
		panic(err)
	}

	return ld
}

func (ld LocalDate) String() string {
	if ld.IsZero() {
		return ""
	}

	return ld.Time(nil).Format(time.DateOnly)
}

func (ld LocalDate) Time(loc *time.Location) time.Time {
	return time.Date(ld.Year, ld.Month, ld.Day, 0, 0, 0, 0, cmp.Or(loc, time.UTC))
}

func (ld LocalDate) AddDays(n int) LocalDate {
	return NewLocalDate(ld.Time(nil).AddDate(0, 0, n))
}

// DaysSince returns the number of calendar days from other to ld.
func (ld LocalDate) DaysSince(other LocalDate) int {
	return int(ld.Time(nil).Sub(other.Time(nil)).Hours() / 24)
}

func (ld LocalDate) Compare(other LocalDate) int {
	return ld.Time(nil).Compare(other.Time(nil))
}

func (ld LocalDate) Before(other LocalDate) bool {
	return ld.Compare(other) < 0
}

func (ld LocalDate) IsZero() bool {
	return ld == ldZero
}

func (ld *LocalDate) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	if v == "" {
		*ld = ldZero
		return nil
	}

	var err error
	*ld, err = ParseLocalDate(v)

	return err
}

func (ld LocalDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(ld.String())
}
