package telephony

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Caller places outbound calls at the telephony provider.
//
// Rules:
// - No provider SDK calls outside telephony adapters.
// - Keep request/response surfaces provider-agnostic for callers.
type Caller interface {
	// PlaceCall dials to from from; the provider fetches callbackURL for the
	// call's first instructions. Returns the provider call identifier.
	PlaceCall(ctx context.Context, to, from, callbackURL string) (string, error)
}

const defaultTwilioBaseURL = "https://api.twilio.com"

// TwilioCaller drives the Twilio Calls REST resource directly.
type TwilioCaller struct {
	accountSID string
	authToken  string
	baseURL    string
	http       *http.Client
}

type TwilioOption func(*TwilioCaller)

// WithBaseURL overrides the API endpoint (tests).
func WithBaseURL(u string) TwilioOption {
	return func(c *TwilioCaller) { c.baseURL = u }
}

func NewTwilioCaller(accountSID, authToken string, opts ...TwilioOption) *TwilioCaller {
	c := &TwilioCaller{
		accountSID: accountSID,
		authToken:  authToken,
		baseURL:    defaultTwilioBaseURL,
		http:       &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *TwilioCaller) PlaceCall(ctx context.Context, to, from, callbackURL string) (string, error) {
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", from)
	form.Set("Url", callbackURL)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Calls.json", c.baseURL, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("telephony: build call request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("telephony: place call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("telephony: provider rejected call (status %d): %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out struct {
		Sid string `json:"sid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("telephony: decode call response: %w", err)
	}
	if out.Sid == "" {
		return "", fmt.Errorf("telephony: provider returned no call sid")
	}
	return out.Sid, nil
}
