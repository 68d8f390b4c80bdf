package payment

import "context"

// Result is the boolean-equivalent gateway signal the booking workflow acts
// on. The reservation core itself never talks to a gateway.
type Result struct {
	Verified      bool
	TransactionID string
	Status        string
}

// Verifier checks a payment's terminal state with its gateway. ref is the
// gateway-side reference (transaction uuid for eSewa, pidx for Khalti).
type Verifier interface {
	Verify(ctx context.Context, ref string, amount float64) (*Result, error)
}
