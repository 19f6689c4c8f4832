package emailoctopus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"nba-alert-service/internal/recipients"
	"nba-alert-service/internal/transport"
)

type sendRequest struct {
	APIKey  string      `json:"api_key"`
	To      string      `json:"to"`
	From    fromAddress `json:"from"`
	Subject string      `json:"subject"`
	Content sendContent `json:"content"`
	Tag     string      `json:"tag,omitempty"`
}

type fromAddress struct {
	Name         string `json:"name"`
	EmailAddress string `json:"email_address"`
}

type sendContent struct {
	HTML      string `json:"html"`
	PlainText string `json:"plain_text"`
}

type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Send delivers one alert message to one recipient. The alert key travels as
// the email tag so the upstream can dedupe replays; a replay surfaces as an
// ALREADY_* error code which maps to transport.ErrAlreadyDelivered.
func (c *Client) Send(ctx context.Context, rcpt recipients.Recipient, msg transport.Message) error {
	body, err := json.Marshal(sendRequest{
		APIKey:  c.apiKey,
		To:      rcpt.Email,
		From:    fromAddress{Name: c.fromName, EmailAddress: c.fromEmail},
		Subject: msg.Subject,
		Content: sendContent{HTML: msg.HTMLBody, PlainText: msg.TextBody},
		Tag:     msg.Key,
	})
	if err != nil {
		return fmt.Errorf("encode send request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Dial and timeout failures are worth another attempt.
		return &transport.TransientError{Transport: transportName, Err: err}
	}
	defer resp.Body.Close()

	return c.classify(resp)
}

// classify maps the wire response onto the closed outcome set the dispatch
// driver understands.
func (c *Client) classify(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var payload apiError
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	code := payload.Error.Code
	message := payload.Error.Message

	switch {
	case strings.Contains(code, "ALREADY"):
		return transport.ErrAlreadyDelivered
	case resp.StatusCode == http.StatusTooManyRequests:
		return &transport.RateLimitError{
			Transport:  transportName,
			StatusCode: resp.StatusCode,
			RetryAfter: retryAfter(resp.Header.Get("Retry-After")),
			Message:    message,
		}
	case resp.StatusCode >= 500:
		return &transport.TransientError{
			Transport: transportName,
			Err:       fmt.Errorf("status %d: %s", resp.StatusCode, message),
		}
	default:
		if code == "" {
			code = "UNKNOWN"
		}
		return fmt.Errorf("emailoctopus: send rejected (%s, status %d): %s", code, resp.StatusCode, message)
	}
}

func retryAfter(header string) time.Duration {
	if secs, err := strconv.Atoi(header); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}
