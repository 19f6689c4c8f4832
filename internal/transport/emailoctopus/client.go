// Package emailoctopus adapts the EmailOctopus HTTP API to the transport and
// recipient contracts: the subscriber list is the dispatch audience and each
// alert is sent per recipient so outcomes stay individually classifiable.
package emailoctopus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"nba-alert-service/internal/recipients"
)

const (
	defaultBaseURL     = "https://emailoctopus.com/api/1.6"
	defaultHTTPTimeout = 30 * time.Second
	defaultPageSize    = 100

	transportName = "emailoctopus"

	statusSubscribed = "SUBSCRIBED"
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config controls how the client reaches the EmailOctopus API.
type Config struct {
	BaseURL    string
	APIKey     string
	ListID     string
	FromName   string
	FromEmail  string
	HTTPClient *http.Client
}

// Client talks to the EmailOctopus API. It implements recipients.Source for
// the subscriber list and transport.Notifier for alert delivery.
type Client struct {
	baseURL    string
	apiKey     string
	listID     string
	fromName   string
	fromEmail  string
	httpClient httpDoer
	pageSize   int
}

// NewClient constructs an EmailOctopus client with the provided configuration.
func NewClient(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	var doer httpDoer = cfg.HTTPClient
	if cfg.HTTPClient == nil {
		doer = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{
		baseURL:    base,
		apiKey:     cfg.APIKey,
		listID:     cfg.ListID,
		fromName:   cfg.FromName,
		fromEmail:  cfg.FromEmail,
		httpClient: doer,
		pageSize:   defaultPageSize,
	}
}

// Name identifies the transport in logs and metrics.
func (c *Client) Name() string { return transportName }

type contactsResponse struct {
	Data []contactResponse `json:"data"`
}

type contactResponse struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
	Status       string `json:"status"`
}

// FetchAll returns every subscribed contact on the configured list. Any
// upstream failure is reported as recipients.ErrUnavailable so sessions defer
// instead of treating a broken list as empty.
func (c *Client) FetchAll(ctx context.Context) ([]recipients.Recipient, error) {
	all := make([]recipients.Recipient, 0)

	for page := 1; ; page++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet,
			fmt.Sprintf("%s/lists/%s/contacts", c.baseURL, c.listID), nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", recipients.ErrUnavailable, err)
		}
		q := req.URL.Query()
		q.Set("api_key", c.apiKey)
		q.Set("limit", strconv.Itoa(c.pageSize))
		q.Set("page", strconv.Itoa(page))
		req.URL.RawQuery = q.Encode()

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", recipients.ErrUnavailable, err)
		}
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			resp.Body.Close()
			return nil, fmt.Errorf("%w: list contacts status %d: %s",
				recipients.ErrUnavailable, resp.StatusCode, string(body))
		}

		var payload contactsResponse
		err = json.NewDecoder(resp.Body).Decode(&payload)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: decode contacts: %v", recipients.ErrUnavailable, err)
		}

		for _, contact := range payload.Data {
			if contact.Status != statusSubscribed {
				continue
			}
			all = append(all, recipients.Recipient{ID: contact.ID, Email: contact.EmailAddress})
		}

		if len(payload.Data) < c.pageSize {
			return all, nil
		}
	}
}
