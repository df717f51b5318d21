// Package fast2sms sends SMS through the Fast2SMS bulk HTTP API.
package fast2sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ro-service/api/internal/channel"
)

type Config struct {
	APIKey   string
	SenderID string
	Route    string
	URL      string
}

// Client implements channel.SMSTransport.
type Client struct {
	http *http.Client
	cfg  Config
}

// New returns channel.ErrNotConfigured when no API key is set. httpClient
// may be nil; per-call deadlines come from the context.
func New(cfg Config, httpClient *http.Client) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("fast2sms: %w", channel.ErrNotConfigured)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{http: httpClient, cfg: cfg}, nil
}

func (c *Client) Name() string { return "fast2sms" }

type sendRequest struct {
	Route    string `json:"route"`
	SenderID string `json:"sender_id"`
	Message  string `json:"message"`
	Language string `json:"language"`
	Flash    int    `json:"flash"`
	Numbers  string `json:"numbers"`
}

type sendResponse struct {
	Return    bool            `json:"return"`
	RequestID string          `json:"request_id"`
	Message   json.RawMessage `json:"message"`
}

// SendSMS posts one message to a 10-digit number and returns the request id.
func (c *Client) SendSMS(ctx context.Context, number, message string) (string, error) {
	body, err := json.Marshal(sendRequest{
		Route:    c.cfg.Route,
		SenderID: c.cfg.SenderID,
		Message:  message,
		Language: "english",
		Flash:    0,
		Numbers:  number,
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("authorization", c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fast2sms request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var out sendResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		if resp.StatusCode >= 500 {
			return "", fmt.Errorf("fast2sms: status %d", resp.StatusCode)
		}
		return "", fmt.Errorf("%w: status %d: %s", channel.ErrRejected, resp.StatusCode, bytes.TrimSpace(raw))
	}
	if !out.Return {
		return "", fmt.Errorf("%w: %s", channel.ErrRejected, responseMessage(out.Message))
	}
	return out.RequestID, nil
}

// responseMessage flattens the "message" field, which Fast2SMS sends either
// as a string or as a list of strings.
func responseMessage(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return list[0]
	}
	if len(raw) == 0 {
		return "SMS sending failed"
	}
	return string(raw)
}
