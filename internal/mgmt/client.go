// Package mgmt is a thin client for the upstream identity provider's
// management API. Credentials live there, not here, so password changes are
// brokered as one-time tickets.
package mgmt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	dErrors "veriportal/pkg/domain-errors"
	"veriportal/pkg/platform/sentinel"
)

const requestTimeout = 5 * time.Second

// Client calls the management API with a bearer token. A zero BaseURL means
// the integration is not configured.
type Client struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
}

func NewClient(baseURL, apiToken string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiToken:   apiToken,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// Configured reports whether the upstream integration is set up.
func (c *Client) Configured() bool {
	return c.baseURL != ""
}

type ticketRequest struct {
	UserID string `json:"user_id"`
}

type ticketResponse struct {
	Ticket string `json:"ticket"`
}

// CreatePasswordChangeTicket asks the upstream provider for a one-time
// password-change URL for the given principal.
func (c *Client) CreatePasswordChangeTicket(ctx context.Context, principal string) (string, error) {
	if !c.Configured() {
		return "", dErrors.New(dErrors.CodeUnavailable, "password change is not available")
	}

	body, err := json.Marshal(ticketRequest{UserID: principal})
	if err != nil {
		return "", fmt.Errorf("marshal ticket request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v2/tickets/password-change", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build ticket request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", unavailable(fmt.Errorf("management api: %w: %v", sentinel.ErrUnavailable, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", unavailable(fmt.Errorf("management api status %d: %w", resp.StatusCode, sentinel.ErrUnavailable))
	}

	var ticket ticketResponse
	if err := json.NewDecoder(resp.Body).Decode(&ticket); err != nil {
		return "", unavailable(fmt.Errorf("decode ticket response: %w: %v", sentinel.ErrUnavailable, err))
	}
	if ticket.Ticket == "" {
		return "", unavailable(fmt.Errorf("management api returned empty ticket: %w", sentinel.ErrUnavailable))
	}
	return ticket.Ticket, nil
}

// unavailable attaches the recoverable code so handlers render 503 with a
// client-safe message; the upstream detail stays in the wrapped cause.
func unavailable(cause error) error {
	return dErrors.Wrap(cause, dErrors.CodeUnavailable, "password change is not available, retry")
}
