package stripe

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jorellortega/covionpartners-sub003/internal/apperr"
	"github.com/jorellortega/covionpartners-sub003/pkg/config"
)

// Client is a minimal Stripe REST client covering the one capability
// the withdrawal engine needs: transferring funds to a partner's
// connected account.
type Client struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Stripe client from configuration.
func NewClient(cfg *config.StripeConfig) *Client {
	return &Client{
		secretKey:  cfg.SecretKey,
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// IsConfigured returns true if the client has credentials.
func (c *Client) IsConfigured() bool {
	return c.secretKey != ""
}

// transferData is the subset of the Stripe transfer object we read.
type transferData struct {
	ID string `json:"id"`
}

// stripeError is Stripe's error envelope.
type stripeError struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Transfer sends amount (major currency units) to the destination
// connected account and returns the provider's transfer id.
//
// Failures are classified for the caller: an explicit refusal from
// Stripe (insufficient funds, bad destination) comes back as
// KindTransferDeclined, anything network-shaped or 5xx as
// KindUpstreamUnavailable.
func (c *Client) Transfer(ctx context.Context, destinationAccountID string, amount decimal.Decimal) (string, error) {
	if destinationAccountID == "" {
		return "", apperr.New(apperr.KindValidation, "transfer destination account is empty")
	}

	// Stripe takes amounts in the currency's minor unit.
	cents := amount.Mul(decimal.NewFromInt(100)).Round(0)

	form := url.Values{}
	form.Set("amount", cents.String())
	form.Set("currency", "usd")
	form.Set("destination", destinationAccountID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transfers", strings.NewReader(form.Encode()))
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, "building transfer request", err)
	}
	req.SetBasicAuth(c.secretKey, "")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperr.Wrap(apperr.KindUpstreamUnavailable, "calling transfer provider", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperr.Wrap(apperr.KindUpstreamUnavailable, "reading transfer response", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var transfer transferData
		if err := json.Unmarshal(body, &transfer); err != nil {
			return "", apperr.Wrap(apperr.KindUpstreamUnavailable, "parsing transfer response", err)
		}
		if transfer.ID == "" {
			return "", apperr.New(apperr.KindUpstreamUnavailable, "transfer response missing id")
		}
		return transfer.ID, nil

	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		var se stripeError
		if err := json.Unmarshal(body, &se); err == nil && se.Error.Message != "" {
			return "", apperr.Newf(apperr.KindTransferDeclined, "transfer declined: %s (%s)", se.Error.Message, se.Error.Code)
		}
		return "", apperr.Newf(apperr.KindTransferDeclined, "transfer declined: %s", resp.Status)

	default:
		return "", apperr.Newf(apperr.KindUpstreamUnavailable, "transfer provider error: %s", resp.Status)
	}
}

// WithTimeout returns a copy of the client with a different HTTP
// timeout, for callers that need a tighter bound than the default.
func (c *Client) WithTimeout(d time.Duration) *Client {
	clone := *c
	clone.httpClient = &http.Client{Timeout: d}
	return &clone
}
