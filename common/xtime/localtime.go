package xtime

import (
	"cmp"
	"fmt"
	"time"
)

// LocalTime is a wall-clock time of day, stored as the offset from midnight.
type LocalTime time.Duration

func NewLocalTime(t time.Time) LocalTime {
	hour, minute, _ := t.Clock()
	return Clock(hour, minute)
}

func Clock(hour, minute int) LocalTime {
	d := time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute
	return LocalTime(d % (24 * time.Hour))
}

func ParseLocalTime(v string) (LocalTime, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, v); err == nil {
			return NewLocalTime(t), nil
		}
	}

	return LocalTime(0), fmt.Errorf("invalid local time %q", v)
}

func MustParseLocalTime(v string) LocalTime {
	t, err := ParseLocalTime(v)
	if err != nil {
		panic(err)
	}

	return t
}

func (lt LocalTime) Clock() (int, int) {
	d := time.Duration(lt).Truncate(time.Minute)
	return int(d / time.Hour), int((d % time.Hour) / time.Minute)
}

// Add returns the wall-clock time after d and the number of midnights crossed.
func (lt LocalTime) Add(d time.Duration) (LocalTime, int) {
	total := time.Duration(lt) + d
	days := int(total / (24 * time.Hour))
	return LocalTime(total % (24 * time.Hour)), days
}

func (lt LocalTime) Time(d LocalDate, loc *time.Location) time.Time {
	hour, minute := lt.Clock()
	return time.Date(d.Year, d.Month, d.Day, hour, minute, 0, 0, cmp.Or(loc, time.UTC))
}

func (lt LocalTime) String() string {
	hour, minute := lt.Clock()
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

func (lt *LocalTime) UnmarshalText(text []byte) error {
	var err error
	*lt, err = ParseLocalTime(string(text))

	return err
}

func (lt LocalTime) MarshalText() ([]byte, error) {
	return []byte(lt.String()), nil
}
