package courier_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookbazaar/internal/apperrors"
	"bookbazaar/internal/courier"

	"github.com/stretchr/testify/assert"
)

func TestAuthenticate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)

		var creds map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "seller@bookbazaar.in", creds["email"])
		assert.Equal(t, "secret", creds["password"])

		json.NewEncoder(w).Encode(map[string]string{"token": "tok-123"})
	}))
	defer server.Close()

	client := courier.NewClient(courier.Config{
		BaseURL:  server.URL,
		Email:    "seller@bookbazaar.in",
		Password: "secret",
	})

	token, err := client.Authenticate(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "tok-123", token)
}

func TestAuthenticateRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := courier.NewClient(courier.Config{BaseURL: server.URL})
	_, err := client.Authenticate(context.Background())
	assert.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrRemote)
}

func TestShipmentStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/courier/track/shipment/AWB-42", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))

		w.Write([]byte(`{"tracking_data":{"shipment_status_id":6}}`))
	}))
	defer server.Close()

	client := courier.NewClient(courier.Config{BaseURL: server.URL})
	code, err := client.ShipmentStatus(context.Background(), "tok-123", "AWB-42")
	assert.NoError(t, err)
	assert.Equal(t, 6, code)
}

func TestShipmentStatusMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tracking_data":{}}`))
	}))
	defer server.Close()

	client := courier.NewClient(courier.Config{BaseURL: server.URL})
	_, err := client.ShipmentStatus(context.Background(), "tok-123", "AWB-42")
	assert.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrRemote)
}

func TestShipmentStatusServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := courier.NewClient(courier.Config{BaseURL: server.URL})
	_, err := client.ShipmentStatus(context.Background(), "tok-123", "AWB-42")
	assert.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrRemote)
}
