// Package verify adapts third-party human-verification services behind a
// single boolean check. The core never sees verification detail.
package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTurnstileURL is the Cloudflare Turnstile siteverify endpoint.
const DefaultTurnstileURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

// Verifier checks whether a challenge token proves a human.
type Verifier interface {
	Verify(ctx context.Context, token string) (bool, error)
}

// Turnstile verifies tokens against Cloudflare Turnstile.
type Turnstile struct {
	secret   string
	endpoint string
	client   *http.Client
}

// NewTurnstile builds a verifier for the given site secret. An empty
// endpoint selects the production siteverify URL.
func NewTurnstile(secret, endpoint string) *Turnstile {
	if endpoint == "" {
		endpoint = DefaultTurnstileURL
	}
	return &Turnstile{
		secret:   secret,
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type siteverifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

func (t *Turnstile) Verify(ctx context.Context, token string) (bool, error) {
	form := url.Values{
		"secret":   {t.secret},
		"response": {token},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("build siteverify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("siteverify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("siteverify status %d", resp.StatusCode)
	}

	var body siteverifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("decode siteverify response: %w", err)
	}
	return body.Success, nil
}

// Static answers every token the same way. Used when the captcha is
// disabled (local development) and in tests.
type Static bool

func (s Static) Verify(context.Context, string) (bool, error) {
	return bool(s), nil
}
