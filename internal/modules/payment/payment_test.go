package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEsewaVerifyComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "EPAYTEST", r.URL.Query().Get("product_code"))
		assert.Equal(t, "450.00", r.URL.Query().Get("total_amount"))
		assert.Equal(t, "TX-1", r.URL.Query().Get("transaction_uuid"))
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status": "COMPLETE",
			"ref_id": "0001TX",
		})
	}))
	defer srv.Close()

	v := NewEsewaVerifier(srv.URL, "EPAYTEST")
	res, err := v.Verify(context.Background(), "TX-1", 450)
	require.NoError(t, err)
	assert.True(t, res.Verified)
	assert.Equal(t, "0001TX", res.TransactionID)
}

func TestEsewaVerifyPendingNotVerified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "PENDING"})
	}))
	defer srv.Close()

	v := NewEsewaVerifier(srv.URL, "EPAYTEST")
	res, err := v.Verify(context.Background(), "TX-1", 450)
	require.NoError(t, err)
	assert.False(t, res.Verified)
	assert.Equal(t, "PENDING", res.Status)
}

func TestEsewaVerifyGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	v := NewEsewaVerifier(srv.URL, "EPAYTEST")
	_, err := v.Verify(context.Background(), "TX-1", 450)
	assert.Error(t, err)
}

func TestKhaltiVerifyCompleted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Key test-secret", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "pidx-1", body["pidx"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":         "Completed",
			"total_amount":   45000, // paisa
			"transaction_id": "khalti-tx",
		})
	}))
	defer srv.Close()

	v := NewKhaltiVerifier(srv.URL, "test-secret")
	res, err := v.Verify(context.Background(), "pidx-1", 450)
	require.NoError(t, err)
	assert.True(t, res.Verified)
	assert.Equal(t, "khalti-tx", res.TransactionID)
}

func TestKhaltiVerifyAmountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":       "Completed",
			"total_amount": 10000,
		})
	}))
	defer srv.Close()

	v := NewKhaltiVerifier(srv.URL, "test-secret")
	res, err := v.Verify(context.Background(), "pidx-1", 450)
	require.NoError(t, err)
	assert.False(t, res.Verified)
}

func TestKhaltiVerifyRefunded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":       "Refunded",
			"total_amount": 45000,
		})
	}))
	defer srv.Close()

	v := NewKhaltiVerifier(srv.URL, "test-secret")
	res, err := v.Verify(context.Background(), "pidx-1", 450)
	require.NoError(t, err)
	assert.False(t, res.Verified)
	assert.Equal(t, "Refunded", res.Status)
}
