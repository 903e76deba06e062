package oauth2

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"golang.org/x/time/rate"
	"net/http"
	"net/url"
	"strings"
)

const (
	grantType         = "grant_type"
	clientCredentials = "client_credentials"
	clientIdParam     = "client_id"
	clientSecretParam = "client_secret"
)

type TokenResponse struct {
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	AccessToken string `json:"access_token"`
}

type Client struct {
	httpClient    *http.Client
	limiter       *rate.Limiter
	tokenEndpoint string
	clientId      string
	clientSecret  string
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

func NewClient(tokenEndpoint, clientId, clientSecret string, opts ...ClientOption) *Client {
	c := &Client{
		tokenEndpoint: tokenEndpoint,
		clientId:      clientId,
		clientSecret:  clientSecret,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.httpClient = cmp.Or(c.httpClient, http.DefaultClient)

	return c
}

func (c *Client) ClientCredentials(ctx context.Context) (TokenResponse, error) {
	form := make(url.Values)
	form.Set(grantType, clientCredentials)
	form.Set(clientIdParam, c.clientId)
	form.Set(clientSecretParam, c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return TokenResponse{}, err
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if c.limiter != nil {
		if err = c.limiter.Wait(ctx); err != nil {
			return TokenResponse{}, err
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return TokenResponse{}, err
	}

	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return TokenResponse{}, fmt.Errorf("token endpoint: %s", resp.Status)
	}

	var tr TokenResponse
	if err = json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return TokenResponse{}, fmt.Errorf("token endpoint: failed to parse response: %w", err)
	}

	return tr, nil
}
