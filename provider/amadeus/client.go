package amadeus

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"github.com/explore-flights/farefinder/common/oauth2"
	"github.com/explore-flights/farefinder/provider"
	jsoniter "github.com/json-iterator/go"
	"golang.org/x/time/rate"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

const (
	ProductionBaseUrl = "https://api.amadeus.com"
	TestBaseUrl       = "https://test.api.amadeus.com"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type responseStatusErr struct {
	StatusCode int
	Status     string
}

func (e responseStatusErr) Error() string {
	return e.Status
}

type credentials struct {
	token string
	exp   time.Time
}

type Client struct {
	httpClient   *http.Client
	oauth2Client *oauth2.Client
	limiter      *rate.Limiter
	mtx          *sync.Mutex
	cred         *atomic.Pointer[credentials]
	baseUrl      string
	leeway       time.Duration
	maxRetries   int
}

type ClientOption func(c *Client)

func WithHttpClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithRateLimiter(limiter *rate.Limiter) ClientOption {
	return func(c *Client) {
		c.limiter = limiter
	}
}

func WithBaseUrl(baseUrl string) ClientOption {
	return func(c *Client) {
		c.baseUrl = baseUrl
	}
}

func WithLeeway(leeway time.Duration) ClientOption {
	return func(c *Client) {
		c.leeway = leeway
	}
}

func WithMaxRetries(n int) ClientOption {
	return func(c *Client) {
		c.maxRetries = n
	}
}

func NewClient(clientId, clientSecret string, opts ...ClientOption) *Client {
	c := &Client{
		mtx:  new(sync.Mutex),
		cred: new(atomic.Pointer[credentials]),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.httpClient = cmp.Or(c.httpClient, http.DefaultClient)
	c.baseUrl = cmp.Or(c.baseUrl, TestBaseUrl)
	c.leeway = cmp.Or(c.leeway, time.Second*15)
	c.maxRetries = cmp.Or(c.maxRetries, 3)
	c.oauth2Client = oauth2.NewClient(
		c.baseUrl+"/v1/security/oauth2/token",
		clientId,
		clientSecret,
		oauth2.WithHttpClient(c.httpClient),
		oauth2.WithRateLimiter(c.limiter),
	)

	return c
}

func (c *Client) token(ctx context.Context) (string, error) {
	cred := c.cred.Load()
	if cred != nil && cred.exp.After(time.Now()) {
		return cred.token, nil
	}

	c.mtx.Lock()
	defer c.mtx.Unlock()

	cred = c.cred.Load()
	if cred != nil && cred.exp.After(time.Now()) {
		return cred.token, nil
	}

	res, err := c.oauth2Client.ClientCredentials(ctx)
	if err != nil {
		return "", err
	}

	cred = &credentials{
		token: res.AccessToken,
		exp:   time.Now().Add(time.Duration(res.ExpiresIn) * time.Second).Add(-c.leeway),
	}
	c.cred.Store(cred)

	return cred.token, nil
}

func (c *Client) FlightOffers(ctx context.Context, query FlightOffersQuery) (FlightOffersResponse, error) {
	q := make(url.Values)
	q.Set("originLocationCode", query.Origin)
	q.Set("destinationLocationCode", query.Destination)
	q.Set("departureDate", query.DepartureDate)
	q.Set("adults", strconv.Itoa(max(query.Adults, 1)))

	if query.ReturnDate != "" {
		q.Set("returnDate", query.ReturnDate)
	}

	if query.TravelClass != "" {
		q.Set("travelClass", query.TravelClass)
	}

	if query.Currency != "" {
		q.Set("currencyCode", query.Currency)
	}

	if query.Max > 0 {
		q.Set("max", strconv.Itoa(query.Max))
	}

	errs := make([]error, 0, c.maxRetries)
	for {
		res, err := c.doFlightOffers(ctx, q)
		if err == nil {
			return res, nil
		}

		var statusErr responseStatusErr
		if !errors.As(err, &statusErr) {
			return FlightOffersResponse{}, err
		}

		switch {
		case statusErr.StatusCode == http.StatusTooManyRequests:
			return FlightOffersResponse{}, fmt.Errorf("%w: %w", provider.ErrThrottled, err)

		case statusErr.StatusCode == http.StatusUnauthorized:
			c.cred.Store(nil)
			fallthrough

		case isRetryableStatus(statusErr.StatusCode):
			errs = append(errs, err)
			if len(errs) >= c.maxRetries {
				return FlightOffersResponse{}, fmt.Errorf("%w: %w", provider.ErrTemporary, errors.Join(errs...))
			}

		default:
			return FlightOffersResponse{}, err
		}
	}
}

func (c *Client) doFlightOffers(ctx context.Context, q url.Values) (FlightOffersResponse, error) {
	token, err := c.token(ctx)
	if err != nil {
		return FlightOffersResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseUrl+"/v2/shopping/flight-offers", nil)
	if err != nil {
		return FlightOffersResponse{}, err
	}

	req.URL.RawQuery = q.Encode()
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	if c.limiter != nil {
		if err = c.limiter.Wait(ctx); err != nil {
			return FlightOffersResponse{}, err
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return FlightOffersResponse{}, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return FlightOffersResponse{}, responseStatusErr{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}

	var res FlightOffersResponse
	if err = json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return FlightOffersResponse{}, fmt.Errorf("%w: failed to parse response: %w", provider.ErrMalformedOffer, err)
	}

	return res, nil
}

func isRetryableStatus(status int) bool {
	return status == http.StatusGatewayTimeout || status == http.StatusBadGateway
}
