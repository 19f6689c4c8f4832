package emailoctopus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"nba-alert-service/internal/recipients"
	"nba-alert-service/internal/transport"
)

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func newTestClient(rt roundTripperFunc) *Client {
	return NewClient(Config{
		BaseURL:    "http://example.com",
		APIKey:     "key",
		ListID:     "list-1",
		FromName:   "NBA 50-Point Alert",
		FromEmail:  "alerts@example.com",
		HTTPClient: &http.Client{Transport: rt},
	})
}

func TestFetchAllPaginatesAndKeepsSubscribedOnly(t *testing.T) {
	var pages []string
	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/lists/list-1/contacts" {
			t.Fatalf("unexpected path %s", req.URL.Path)
		}
		page := req.URL.Query().Get("page")
		pages = append(pages, page)

		if page == "1" {
			// A full page forces a second fetch.
			var entries []string
			for i := 0; i < 99; i++ {
				entries = append(entries, fmt.Sprintf(`{"id":"c%d","email_address":"s%d@example.com","status":"SUBSCRIBED"}`, i, i))
			}
			entries = append(entries, `{"id":"u1","email_address":"gone@example.com","status":"UNSUBSCRIBED"}`)
			return jsonResponse(http.StatusOK, `{"data":[`+strings.Join(entries, ",")+`]}`), nil
		}
		return jsonResponse(http.StatusOK, `{"data":[{"id":"c100","email_address":"last@example.com","status":"SUBSCRIBED"}]}`), nil
	})

	client := newTestClient(rt)
	got, err := client.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages fetched, got %v", pages)
	}
	if len(got) != 100 {
		t.Fatalf("expected 100 subscribed recipients, got %d", len(got))
	}
	if got[99].Email != "last@example.com" {
		t.Fatalf("unexpected final recipient %+v", got[99])
	}
}

func TestFetchAllMapsFailuresToUnavailable(t *testing.T) {
	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusInternalServerError, `{}`), nil
	})
	client := newTestClient(rt)

	_, err := client.FetchAll(context.Background())
	if !errors.Is(err, recipients.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestFetchAllNetworkErrorIsUnavailable(t *testing.T) {
	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})
	client := newTestClient(rt)

	_, err := client.FetchAll(context.Background())
	if !errors.Is(err, recipients.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func sendTestMessage(t *testing.T, rt roundTripperFunc) error {
	t.Helper()
	client := newTestClient(rt)
	return client.Send(context.Background(),
		recipients.Recipient{ID: "c1", Email: "fan@example.com"},
		transport.Message{Key: "2024-01-10_A. Player_50", Subject: "alert", TextBody: "text", HTMLBody: "<b>html</b>"})
}

func TestSendSuccess(t *testing.T) {
	var captured string
	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/emails" {
			t.Fatalf("unexpected path %s", req.URL.Path)
		}
		body, _ := io.ReadAll(req.Body)
		captured = string(body)
		return jsonResponse(http.StatusOK, `{"id":"msg-1"}`), nil
	})

	if err := sendTestMessage(t, rt); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if !strings.Contains(captured, `"to":"fan@example.com"`) {
		t.Fatalf("expected recipient in payload, got %s", captured)
	}
	if !strings.Contains(captured, `"tag":"2024-01-10_A. Player_50"`) {
		t.Fatalf("expected alert key tag in payload, got %s", captured)
	}
}

func TestSendClassifiesOutcomes(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		header map[string]string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "already_delivered_code",
			status: http.StatusConflict,
			body:   `{"error":{"code":"EMAIL_ALREADY_SENT","message":"duplicate tag"}}`,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, transport.ErrAlreadyDelivered) {
					t.Fatalf("expected ErrAlreadyDelivered, got %v", err)
				}
			},
		},
		{
			name:   "rate_limited",
			status: http.StatusTooManyRequests,
			body:   `{"error":{"code":"TOO_MANY_REQUESTS","message":"slow down"}}`,
			header: map[string]string{"Retry-After": "7"},
			check: func(t *testing.T, err error) {
				rlErr, ok := transport.AsRateLimitError(err)
				if !ok {
					t.Fatalf("expected rate limit error, got %v", err)
				}
				if rlErr.RetryAfter != 7*time.Second {
					t.Fatalf("expected retry-after 7s, got %s", rlErr.RetryAfter)
				}
			},
		},
		{
			name:   "server_error_is_transient",
			status: http.StatusBadGateway,
			body:   `{"error":{"code":"UPSTREAM","message":"bad gateway"}}`,
			check: func(t *testing.T, err error) {
				if !transport.IsTransient(err) {
					t.Fatalf("expected transient error, got %v", err)
				}
			},
		},
		{
			name:   "validation_error_is_terminal",
			status: http.StatusBadRequest,
			body:   `{"error":{"code":"INVALID_PARAMETERS","message":"missing to"}}`,
			check: func(t *testing.T, err error) {
				if err == nil || transport.IsTransient(err) || errors.Is(err, transport.ErrAlreadyDelivered) {
					t.Fatalf("expected terminal error, got %v", err)
				}
				if !strings.Contains(err.Error(), "INVALID_PARAMETERS") {
					t.Fatalf("expected code in message, got %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
				resp := jsonResponse(tt.status, tt.body)
				for k, v := range tt.header {
					resp.Header.Set(k, v)
				}
				return resp, nil
			})
			tt.check(t, sendTestMessage(t, rt))
		})
	}
}

func TestSendNetworkErrorIsTransient(t *testing.T) {
	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("dial tcp: i/o timeout")
	})
	if err := sendTestMessage(t, rt); !transport.IsTransient(err) {
		t.Fatalf("expected transient error, got %v", err)
	}
}
