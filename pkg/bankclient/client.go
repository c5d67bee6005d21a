/**
 * @description
 * This package provides a client for the external bank API used for balance
 * lookups by raw account number. The API authenticates with a service-owned
 * bearer key configured at construction.
 *
 * Failure modes are kept distinct: a 404 from the API maps to
 * ErrAccountNotFound, everything else (network, auth, 5xx) surfaces as an
 * ordinary error so callers can tell "no such account" from "upstream broke".
 */
package bankclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrAccountNotFound indicates the bank API has no account with that number.
var ErrAccountNotFound = errors.New("account not found")

// Client is a client for the bank balance API.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient creates a new bank API client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// balanceResponse is the expected response from the bank's account endpoint.
type balanceResponse struct {
	Balance int64 `json:"balance"`
}

// GetAccountBalance fetches the balance for a specific account number.
func (c *Client) GetAccountBalance(ctx context.Context, accountNumber string) (int64, error) {
	reqURL := c.BaseURL + "/accounts/" + accountNumber

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create balance request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to execute balance request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return 0, ErrAccountNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("bank api returned status %d", resp.StatusCode)
	}

	var body balanceResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("failed to decode balance response: %w", err)
	}
	return body.Balance, nil
}
