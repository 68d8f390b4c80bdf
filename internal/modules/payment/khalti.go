package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const khaltiStatusCompleted = "Completed"

// KhaltiVerifier checks a payment against the Khalti epayment lookup endpoint.
type KhaltiVerifier struct {
	lookupURL string
	secretKey string
	client    *http.Client
}

func NewKhaltiVerifier(lookupURL, secretKey string) *KhaltiVerifier {
	return &KhaltiVerifier{
		lookupURL: lookupURL,
		secretKey: secretKey,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

type khaltiLookupResponse struct {
	Status        string `json:"status"`
	TotalAmount   int64  `json:"total_amount"` // paisa
	TransactionID string `json:"transaction_id"`
}

func (v *KhaltiVerifier) Verify(ctx context.Context, ref string, amount float64) (*Result, error) {
	payload, err := json.Marshal(map[string]string{"pidx": ref})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.lookupURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Key "+v.secretKey)

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("khalti lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("khalti lookup returned %d", resp.StatusCode)
	}

	var body khaltiLookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("khalti lookup decode failed: %w", err)
	}

	// Khalti reports amounts in paisa.
	verified := body.Status == khaltiStatusCompleted && body.TotalAmount == int64(amount*100)

	return &Result{
		Verified:      verified,
		TransactionID: body.TransactionID,
		Status:        body.Status,
	}, nil
}
