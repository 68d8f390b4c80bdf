package domain

import "time"

type HistoryAction string

const (
	ActionViewed HistoryAction = "viewed"
	ActionBooked HistoryAction = "booked"
)

// History records user-room interactions for the recommendation surface.
type History struct {
	ID        int64         `json:"id" gorm:"primaryKey"`
	UserID    int64         `json:"user_id" gorm:"index"`
	RoomID    int64         `json:"room_id" gorm:"index"`
	BookingID *int64        `json:"booking_id,omitempty"`
	Action    HistoryAction `json:"action"`
	CreatedAt time.Time     `json:"created_at"`
}

func (History) TableName() string { return "histories" }
