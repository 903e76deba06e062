package web

import (
	"fmt"
	"github.com/explore-flights/farefinder/business/aggregator"
	"github.com/explore-flights/farefinder/common"
	"github.com/gorilla/feeds"
	"github.com/labstack/echo/v4"
	"io"
	"net/url"
	"strings"
	"time"
)

const feedMaxItems = 10

func (h *SearchHandler) SearchRSSFeed(c echo.Context) error {
	return h.searchFeed(c, "application/rss+xml", (*feeds.Feed).WriteRss)
}

func (h *SearchHandler) SearchAtomFeed(c echo.Context) error {
	return h.searchFeed(c, "application/atom+xml", (*feeds.Feed).WriteAtom)
}

func (h *SearchHandler) searchFeed(c echo.Context, contentType string, writer func(*feeds.Feed, io.Writer) error) error {
	r, err := h.search(c)
	if err != nil {
		return err
	}

	feed := buildSearchFeed(baseUrl(c), r)

	c.Response().Header().Add(echo.HeaderContentType, contentType)
	addExpirationHeaders(c, time.Now(), searchMaxAge)

	return writer(feed, c.Response())
}

func buildSearchFeed(base string, r aggregator.Result) *feeds.Feed {
	p := r.Params

	q := make(url.Values)
	q.Set("origin", p.Origin)
	q.Set("destination", p.Destination)
	q.Set("departureDate", p.DepartureDate.String())
	if p.IsRoundTrip() {
		q.Set("returnDate", p.ReturnDate.String())
	}

	feedId := base + "/api/search?" + q.Encode()
	link := &feeds.Link{Href: feedId}
	feed := &feeds.Feed{
		Id:          feedId,
		Title:       fmt.Sprintf("Cheapest flights from %s to %s on %s", p.Origin, p.Destination, p.DepartureDate.String()),
		Link:        link,
		Description: strings.Join(r.Sources, ", "),
		Created:     r.CreatedAt,
		Updated:     r.CreatedAt,
	}

	for i, o := range r.Flights {
		if i >= feedMaxItems {
			break
		}

		feed.Items = append(feed.Items, &feeds.Item{
			Id:      feedId + "#" + url.QueryEscape(o.Id),
			Title:   fmt.Sprintf("%s %s to %s for $%.2f", o.Airline, o.Origin, o.Destination, o.Price),
			Link:    link,
			Created: r.CreatedAt,
			Updated: r.CreatedAt,
			Content: feedContent(o),
		})
	}

	return feed
}

func feedContent(o common.Offer) string {
	stops := "Nonstop"
	if o.Stops > 0 {
		airports := make([]string, 0, len(o.Layovers))
		for _, l := range o.Layovers {
			airports = append(airports, l.Airport)
		}

		stops = fmt.Sprintf("%d stop(s) %s", o.Stops, strings.Join(airports, ", "))
	}

	content := fmt.Sprintf(
		`
Flight %s (%s)
Departure: %s
Arrival: %s (+%d)
Duration: %s
Stops: %s
Class: %s
Price: $%.2f
Source: %s
`,
		o.FlightNumber,
		o.Airline,
		o.DepartTime.String(),
		o.ArriveTime.String(),
		o.ArriveDayOffset,
		o.Duration.String(),
		stops,
		o.TravelClass,
		o.Price,
		o.Provider,
	)

	return strings.TrimSpace(content)
}
