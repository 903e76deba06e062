package web

import (
	"fmt"
	"github.com/explore-flights/farefinder/common"
	"github.com/explore-flights/farefinder/common/xtime"
	"github.com/labstack/echo/v4"
	"net/http"
	"strconv"
	"strings"
	"time"
)

func baseUrl(c echo.Context) string {
	scheme, host := contextSchemeAndHost(c)
	return scheme + "://" + host
}

func contextSchemeAndHost(c echo.Context) (string, string) {
	req := c.Request()
	if forwarded := req.Header.Get("Forwarded"); forwarded != "" {
		var host string
		var proto string

		for _, value := range strings.Split(forwarded, ";") {
			value = strings.TrimSpace(value)
			if value, ok := strings.CutPrefix(value, "host="); ok {
				host = value
			} else if value, ok := strings.CutPrefix(value, "proto="); ok {
				proto = value
			}
		}

		if host != "" && proto != "" {
			return proto, host
		}
	}

	if host := req.Header.Get("X-Forwarded-Host"); host != "" {
		if proto := req.Header.Get(echo.HeaderXForwardedProto); proto != "" {
			return proto, host
		}
	}

	return c.Scheme(), req.Host
}

func addExpirationHeaders(c echo.Context, now time.Time, expiration time.Duration) {
	now = now.UTC()
	expiresAt := now.Add(expiration)

	res := c.Response()
	res.Header().Set("Date", now.Format(http.TimeFormat))
	res.Header().Set("Expires", expiresAt.Format(http.TimeFormat))
	res.Header().Set(echo.HeaderCacheControl, fmt.Sprintf("public, max-age=%d, must-revalidate", int(expiration.Seconds())))
}

func noCache(c echo.Context) {
	res := c.Response()
	res.Header().Del("Expires")
	res.Header().Set(echo.HeaderCacheControl, "private, no-cache, no-store, max-age=0, must-revalidate")
}

// parseSearchParams reads the search query parameters. Only syntax is checked here,
// the aggregator validates the values.
func parseSearchParams(c echo.Context) (common.SearchParams, error) {
	params := common.SearchParams{
		Origin:      c.QueryParam("origin"),
		Destination: c.QueryParam("destination"),
		TripType:    common.TripType(c.QueryParam("tripType")),
		CabinClass:  common.TravelClass(c.QueryParam("cabinClass")),
		Passengers:  1,
	}

	var err error
	if params.DepartureDate, err = parseDateParam(c, "departureDate", "date"); err != nil {
		return params, err
	}

	if params.ReturnDate, err = parseDateParam(c, "returnDate"); err != nil {
		return params, err
	}

	if raw := c.QueryParam("passengers"); raw != "" {
		if params.Passengers, err = strconv.Atoi(raw); err != nil {
			return params, &common.InvalidSearchParamsError{Field: "passengers", Reason: "must be a number"}
		}
	}

	return params, nil
}

func parseDateParam(c echo.Context, names ...string) (xtime.LocalDate, error) {
	for _, name := range names {
		raw := c.QueryParam(name)
		if raw == "" {
			continue
		}

		ld, err := xtime.ParseLocalDate(raw)
		if err != nil {
			return ld, &common.InvalidSearchParamsError{Field: name, Reason: "must be a date in the format YYYY-MM-DD"}
		}

		return ld, nil
	}

	return xtime.LocalDate{}, nil
}

type HTTPErrorOption func(e *HTTPError)

type HTTPError struct {
	code        int
	message     string
	cause       error
	unmaskCause bool
}

func (e *HTTPError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%d %s: %s", e.code, e.message, e.cause)
	}

	return fmt.Sprintf("%d %s", e.code, e.message)
}

func (e *HTTPError) Unwrap() error {
	return e.cause
}

// Public returns the echo error sent to the client. The cause is only exposed when unmasked.
func (e *HTTPError) Public() *echo.HTTPError {
	message := e.message
	if e.unmaskCause && e.cause != nil {
		message = e.cause.Error()
	} else if message == "" {
		message = http.StatusText(e.code)
	}

	return echo.NewHTTPError(e.code, message)
}

func WithMessage(message string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.message = message
	}
}

func WithCause(cause error) HTTPErrorOption {
	return func(e *HTTPError) {
		e.cause = cause
	}
}

func WithUnmaskedCause() HTTPErrorOption {
	return func(e *HTTPError) {
		e.unmaskCause = true
	}
}

func NewHTTPError(code int, opts ...HTTPErrorOption) *HTTPError {
	err := new(HTTPError)
	err.code = code

	for _, opt := range opts {
		opt(err)
	}

	return err
}
