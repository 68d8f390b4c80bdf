package booking

import "time"

type LockSlotsRequest struct {
	ServiceID int64   `json:"service_id" binding:"required"`
	SlotIDs   []int64 `json:"slot_ids" binding:"required,min=1"`
}

type LockSlotsResponse struct {
	ServiceID int64     `json:"service_id"`
	SlotIDs   []int64   `json:"slot_ids"`
	ExpiresAt time.Time `json:"expires_at"`
}

type CreateBookingRequest struct {
	RoomID      int64   `json:"room_id" binding:"required"`
	ViewingDate string  `json:"viewing_date" binding:"required"` // 2006-01-02
	BookingType string  `json:"booking_type"`
	Method      string  `json:"payment_method" binding:"required,oneof=esewa khalti cash"`
	ServiceID   *int64  `json:"service_id"`
	SlotIDs     []int64 `json:"slot_ids"`
}

type CreateBookingResponse struct {
	BookingID        int64      `json:"booking_id"`
	BookingReference string     `json:"booking_reference"`
	TransactionRef   string     `json:"transaction_ref"`
	TotalPrice       float64    `json:"total_price"`
	Status           string     `json:"status"`
	LockExpiresAt    *time.Time `json:"lock_expires_at,omitempty"`
}

type VerifyPaymentRequest struct {
	BookingReference string `json:"booking_reference" binding:"required"`
	TransactionRef   string `json:"transaction_ref" binding:"required"`
}

type VerifyPaymentResponse struct {
	BookingID        int64  `json:"booking_id"`
	BookingReference string `json:"booking_reference"`
	Status           string `json:"status"`
	PaymentStatus    string `json:"payment_status"`
	PaymentID        string `json:"payment_id,omitempty"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"required"`
}
