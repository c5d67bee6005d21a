/**
 * @description
 * This package provides a client for the external customer directory, the
 * service of record for customer identity. It encapsulates the logic for
 * making authenticated HTTP requests to the directory's endpoints, handling
 * request body construction, and parsing responses.
 *
 * The directory authenticates with the caller's own bearer credential, so
 * every method takes the token to forward rather than holding one.
 */
package customerclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a client for the customer directory API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a new customer directory client.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreateCustomerRequest is the payload for the directory's creation endpoint.
type CreateCustomerRequest struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

// CreatedCustomer is the directory's representation of a newly created customer.
type CreatedCustomer struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// CustomerExistsByEmail reports whether the directory already holds a customer
// with the given email. The lookup returns a collection; non-emptiness
// indicates a match.
func (c *Client) CustomerExistsByEmail(ctx context.Context, bearerToken, email string) (bool, error) {
	return c.customerExists(ctx, bearerToken, url.Values{"email": {email}})
}

// CustomerExistsByPhoneNumber reports whether the directory already holds a
// customer with the given phone number.
func (c *Client) CustomerExistsByPhoneNumber(ctx context.Context, bearerToken, phoneNumber string) (bool, error) {
	return c.customerExists(ctx, bearerToken, url.Values{"phoneNumber": {phoneNumber}})
}

func (c *Client) customerExists(ctx context.Context, bearerToken string, params url.Values) (bool, error) {
	reqURL := c.BaseURL + "/customer?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create lookup request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	setBearer(req, bearerToken)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to execute lookup request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, fmt.Errorf("customer directory lookup returned status %d", resp.StatusCode)
	}

	var matches []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&matches); err != nil {
		return false, fmt.Errorf("failed to decode lookup response: %w", err)
	}
	return len(matches) > 0, nil
}

// CreateCustomer forwards the validated signup fields to the directory's
// creation endpoint and returns the newly assigned customer.
func (c *Client) CreateCustomer(ctx context.Context, bearerToken string, payload CreateCustomerRequest) (*CreatedCustomer, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal create request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/customer", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create customer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	setBearer(req, bearerToken)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute customer request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read customer response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("customer directory create returned status %d", resp.StatusCode)
	}

	var created CreatedCustomer
	if err := json.Unmarshal(bodyBytes, &created); err != nil {
		return nil, fmt.Errorf("failed to decode customer response: %w", err)
	}
	if created.ID == "" {
		return nil, fmt.Errorf("customer directory returned no customer id")
	}
	return &created, nil
}

func setBearer(req *http.Request, token string) {
	token = strings.TrimSpace(token)
	if token == "" {
		return
	}
	if !strings.HasPrefix(token, "Bearer ") {
		token = "Bearer " + token
	}
	req.Header.Set("Authorization", token)
}
