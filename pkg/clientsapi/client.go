/**
 * @description
 * This package provides the HTTP client the transactions-service uses to read
 * account data from the clients-service. Transfer intake only ever reads
 * through this client; it never writes balances.
 */
package clientsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrUserNotFound is returned when the clients-service reports no active
// account for the requested id. Callers must be able to tell this apart from
// an unreachable service.
var ErrUserNotFound = errors.New("user not found")

// Account is the view of a client account the transactions-service consumes.
type Account struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Balance  decimal.Decimal `json:"balance"`
	IsActive bool            `json:"isActive"`
}

// Reader is the read-only account lookup used by transfer intake.
type Reader interface {
	GetUserByID(ctx context.Context, userID string) (*Account, error)
}

// Client is an HTTP client for the clients-service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new clients-service client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// GetUserByID fetches an account by id. A 404 maps to ErrUserNotFound; any
// other non-2xx status is a communication failure.
func (c *Client) GetUserByID(ctx context.Context, userID string) (*Account, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("clients service base url is empty")
	}

	url := fmt.Sprintf("%s/api/users/%s", c.baseURL, userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request to clients service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("user %s: %w", userID, ErrUserNotFound)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("clients service returned error status %d", resp.StatusCode)
	}

	var account Account
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &account, nil
}
