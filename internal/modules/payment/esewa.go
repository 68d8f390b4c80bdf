package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const esewaStatusComplete = "COMPLETE"

// EsewaVerifier checks a transaction against the eSewa status endpoint.
type EsewaVerifier struct {
	statusURL   string
	productCode string
	client      *http.Client
}

func NewEsewaVerifier(statusURL, productCode string) *EsewaVerifier {
	return &EsewaVerifier{
		statusURL:   statusURL,
		productCode: productCode,
		client:      &http.Client{Timeout: 15 * time.Second},
	}
}

type esewaStatusResponse struct {
	Status string `json:"status"`
	RefID  string `json:"ref_id"`
}

func (v *EsewaVerifier) Verify(ctx context.Context, ref string, amount float64) (*Result, error) {
	q := url.Values{}
	q.Set("product_code", v.productCode)
	q.Set("total_amount", fmt.Sprintf("%.2f", amount))
	q.Set("transaction_uuid", ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.statusURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("esewa status check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("esewa status check returned %d", resp.StatusCode)
	}

	var body esewaStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("esewa status decode failed: %w", err)
	}

	return &Result{
		Verified:      body.Status == esewaStatusComplete,
		TransactionID: body.RefID,
		Status:        body.Status,
	}, nil
}
