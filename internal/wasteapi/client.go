package wasteapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"wastechart/internal/core"
)

// Config holds the remote API location and the fixed login credentials.
type Config struct {
	BaseURL  string
	Username string
	Password string
	Timeout  time.Duration
}

// Client talks to the waste records API. It never caches tokens: every
// FetchMonth performs a fresh login first.
type Client struct {
	rest  *resty.Client
	creds Credentials
}

// New creates a client with its own resty instance
func New(cfg Config) *Client {
	rest := resty.New().SetBaseURL(strings.TrimRight(cfg.BaseURL, "/"))
	if cfg.Timeout > 0 {
		rest.SetTimeout(cfg.Timeout)
	}
	return NewWithClient(rest, cfg.Username, cfg.Password)
}

// NewWithClient wraps an existing resty client; the base URL must already be set.
func NewWithClient(rest *resty.Client, username, password string) *Client {
	return &Client{
		rest:  rest,
		creds: Credentials{Username: username, Password: password},
	}
}

// Token logs in with the configured credentials and returns the bearer token.
func (c *Client) Token(ctx context.Context) (string, error) {
	slog.DebugContext(ctx, "Requesting token", "endpoint", LoginEndpoint, "username", c.creds.Username)

	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(c.creds).
		ForceContentType(jsonContentType).
		SetResult(&loginResponse{}).
		Post(LoginEndpoint)
	if err != nil {
		return "", &core.AuthError{Err: errors.Wrap(err, "login request")}
	}

	if !resp.IsSuccess() {
		return "", &core.AuthError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	payload := resp.Result().(*loginResponse)
	if !payload.Success {
		return "", &core.AuthError{Reason: payload.Message}
	}

	var token string
	if err := json.Unmarshal(payload.Data, &token); err != nil {
		return "", &core.AuthError{Err: errors.Wrap(err, "decode token")}
	}
	if token == "" {
		return "", &core.AuthError{Err: errors.New("empty token returned")}
	}

	return token, nil
}

// FetchMonth returns the waste records for one month. An empty result is an
// error, not an empty slice.
func (c *Client) FetchMonth(ctx context.Context, month, year int) ([]core.WasteRecord, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.rest.R().
		SetContext(ctx).
		SetAuthToken(token).
		ForceContentType(jsonContentType).
		SetResult(&recordsResponse{}).
		SetPathParams(map[string]string{
			"month": strconv.Itoa(month),
			"year":  strconv.Itoa(year),
		}).
		Get(RecordsEndpoint)
	if err != nil {
		return nil, &core.FetchError{Err: errors.Wrapf(err, "get records %d/%d", month, year)}
	}

	if !resp.IsSuccess() {
		return nil, &core.FetchError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	payload := resp.Result().(*recordsResponse)
	if len(payload.Data) == 0 {
		return nil, &core.FetchError{Reason: core.NoDataMessage}
	}

	slog.DebugContext(ctx, "Fetched waste records", "month", month, "year", year, "records", len(payload.Data))

	return payload.Data, nil
}
