package domain

import "time"

type BookingStatus string

const (
	BookingPending    BookingStatus = "Pending"
	BookingConfirmed  BookingStatus = "Confirmed"
	BookingCancelled  BookingStatus = "Cancelled"
	BookingCheckedIn  BookingStatus = "CheckedIn"
	BookingCheckedOut BookingStatus = "CheckedOut"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending"
	PaymentCompleted PaymentStatus = "Completed"
	PaymentFailed    PaymentStatus = "Failed"
	PaymentCancelled PaymentStatus = "Cancelled"
	PaymentRefunded  PaymentStatus = "Refunded"
)

type PaymentMethod string

const (
	PayEsewa  PaymentMethod = "esewa"
	PayKhalti PaymentMethod = "khalti"
	PayCash   PaymentMethod = "cash"
)

type BookingType string

const (
	BookingViewing BookingType = "viewing"
	BookingRental  BookingType = "rental"
)

// Booking references slots by id only; slot lifecycle belongs to the
// reservation core. Never deleted, terminal states only.
type Booking struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	UserID      int64     `json:"user_id" gorm:"index" validate:"required"`
	RoomID      int64     `json:"room_id" gorm:"index" validate:"required"`
	ViewingDate time.Time `json:"viewing_date" validate:"required"`
	TotalPrice  float64   `json:"total_price" validate:"required,gte=0"`

	ServiceID *int64 `json:"service_id,omitempty" gorm:"index"`
	SlotIDs   string `json:"slot_ids,omitempty"` // comma-separated slot ids for service bookings

	PaymentStatus PaymentStatus `json:"payment_status" gorm:"default:Pending;index"`
	PaymentMethod PaymentMethod `json:"payment_method" validate:"required"`
	PaymentID     string        `json:"payment_id,omitempty"`

	BookingReference string        `json:"booking_reference" gorm:"uniqueIndex"`
	BookingType      BookingType   `json:"booking_type" gorm:"default:rental"`
	Status           BookingStatus `json:"status" gorm:"default:Pending;index"`

	CancellationReason string     `json:"cancellation_reason,omitempty" gorm:"type:text"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Room *Room `json:"room,omitempty" gorm:"foreignKey:RoomID"`
}

func (Booking) TableName() string { return "bookings" }
