package domain

import "time"

type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotLocked    SlotStatus = "locked"
	SlotBooked    SlotStatus = "booked"
)

// Service is a provider-owned bookable offering. Its slots are the only
// shared mutable resource in the reservation core; they are never mutated
// outside a single conditional update.
type Service struct {
	ID          int64   `json:"id" gorm:"primaryKey"`
	ProviderID  int64   `json:"provider_id" gorm:"index" validate:"required"`
	Name        string  `json:"name" validate:"required,max=100"`
	Description string  `json:"description,omitempty" gorm:"type:text"`
	BasePrice   float64 `json:"base_price" validate:"required,gte=0"`
	// Denormalized so the sweeper can skip services with nothing locked.
	HasLockedSlots bool      `json:"has_locked_slots" gorm:"default:false;index"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Slots    []Slot `json:"slots,omitempty" gorm:"foreignKey:ServiceID"`
	Provider *User  `json:"provider,omitempty" gorm:"foreignKey:ProviderID"`
}

func (Service) TableName() string { return "services" }

// Slot is the atomic reservable unit. HolderID and LockExpiresAt are set iff
// Status is locked; a locked slot past its expiry counts as available for
// every conditional check, whether or not the sweeper has run.
type Slot struct {
	ID            int64      `json:"id" gorm:"primaryKey"`
	ServiceID     int64      `json:"service_id" gorm:"index"`
	StartTime     time.Time  `json:"start_time"`
	EndTime       time.Time  `json:"end_time"`
	Price         float64    `json:"price"`
	Status        SlotStatus `json:"status" gorm:"default:available;index"`
	HolderID      *int64     `json:"holder_id,omitempty" gorm:"index"`
	LockExpiresAt *time.Time `json:"lock_expires_at,omitempty"`
}

func (Slot) TableName() string { return "service_slots" }
