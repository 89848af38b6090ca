package priceapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	jsoniter "github.com/json-iterator/go"

	"fw_trader/internal/domain"
	"fw_trader/pkg/errcodes"
	"fw_trader/pkg/httpx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const (
	defaultTimeout     = 10 * time.Second
	defaultLogFieldLen = 2048
)

// Client talks to the community price service. One client serves both the
// item catalog and the player-market endpoints, they live on the same host.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
			Transport: httpx.NewLoggingRoundTripper(
				http.DefaultTransport,
				httpx.WithLogFieldMaxLen(defaultLogFieldLen),
			),
		},
	}
}

// WithHTTPClient замена клиента в тестах.
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	c.httpClient = httpClient
	return c
}

// getJSON issues a GET and decodes the body into dest. A 404 reports
// http.StatusNotFound without error so callers can treat absence as a fact.
func (c *Client) getJSON(ctx context.Context, endpoint string, query url.Values, dest any) (int, error) {
	u := c.baseURL + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return 0, domain.WrapError(err, errcodes.InternalServerError, "failed to build request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, domain.WrapError(err, errcodes.TransientIO, "price service unreachable")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return http.StatusNotFound, nil
	case resp.StatusCode >= http.StatusInternalServerError:
		return resp.StatusCode, domain.NewError(errcodes.TransientIO,
			fmt.Sprintf("price service answered %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return resp.StatusCode, domain.NewError(errcodes.InternalServerError,
			fmt.Sprintf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, domain.WrapError(err, errcodes.TransientIO, "failed to read body")
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return resp.StatusCode, domain.WrapError(err, errcodes.InternalServerError, "failed to decode body")
	}

	return resp.StatusCode, nil
}
