// Package courier implements the client for the external courier
// tracking API: a token exchange endpoint and a per-shipment tracking
// lookup consumed with bearer authentication.
package courier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"bookbazaar/internal/apperrors"
)

// TrackingClient is the surface the shipment reconciler depends on.
type TrackingClient interface {
	// Authenticate exchanges the configured credentials for a bearer
	// token. The token has its own server-side validity window; callers
	// fetch one per reconciliation run and reuse it across lookups.
	Authenticate(ctx context.Context) (string, error)
	// ShipmentStatus returns the courier's numeric shipment status code
	// for the given shipment reference.
	ShipmentStatus(ctx context.Context, token string, shipmentID string) (int, error)
}

// Config holds courier API connection details.
type Config struct {
	BaseURL  string
	Email    string
	Password string
}

// Client is the HTTP implementation of TrackingClient.
type Client struct {
	baseURL  string
	email    string
	password string
	http     *http.Client
}

// NewClient creates a new courier API client.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		email:    cfg.Email,
		password: cfg.Password,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Authenticate exchanges credentials for a bearer token.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	body, err := json.Marshal(loginRequest{Email: c.email, Password: c.password})
	if err != nil {
		return "", fmt.Errorf("failed to marshal login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("courier login failed: %w", apperrors.Remote(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("courier login returned status %d: %w", resp.StatusCode, apperrors.ErrRemote)
	}

	var out loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode courier login response: %w", apperrors.Remote(err))
	}
	if out.Token == "" {
		return "", fmt.Errorf("courier login response carried no token: %w", apperrors.ErrRemote)
	}
	return out.Token, nil
}

type trackingResponse struct {
	TrackingData struct {
		ShipmentStatusID *int `json:"shipment_status_id"`
	} `json:"tracking_data"`
}

// ShipmentStatus looks up the courier status code for a shipment.
func (c *Client) ShipmentStatus(ctx context.Context, token string, shipmentID string) (int, error) {
	url := fmt.Sprintf("%s/courier/track/shipment/%s", c.baseURL, shipmentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build tracking request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("courier tracking lookup for %s failed: %w", shipmentID, apperrors.Remote(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, resp.Body)
		return 0, fmt.Errorf("courier tracking for %s returned status %d: %w", shipmentID, resp.StatusCode, apperrors.ErrRemote)
	}

	var out trackingResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("failed to decode courier tracking response for %s: %w", shipmentID, apperrors.Remote(err))
	}
	if out.TrackingData.ShipmentStatusID == nil {
		return 0, fmt.Errorf("courier tracking response for %s carried no shipment_status_id: %w", shipmentID, apperrors.ErrRemote)
	}
	return *out.TrackingData.ShipmentStatusID, nil
}
