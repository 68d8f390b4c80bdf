package domain

import "time"

type NotificationType string

const (
	NotifBooking NotificationType = "booking"
	NotifPayment NotificationType = "payment"
	NotifSystem  NotificationType = "system"
)

type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityNormal NotificationPriority = "normal"
	PriorityHigh   NotificationPriority = "high"
)

type Notification struct {
	ID        int64                `json:"id" gorm:"primaryKey"`
	UserID    int64                `json:"user_id" gorm:"index:idx_user_unread"`
	Type      NotificationType     `json:"type"`
	Priority  NotificationPriority `json:"priority" gorm:"default:normal"`
	Title     string               `json:"title"`
	Message   string               `json:"message" gorm:"type:text"`
	BookingID *int64               `json:"booking_id,omitempty"`
	RoomID    *int64               `json:"room_id,omitempty"`
	IsRead    bool                 `json:"is_read" gorm:"default:false;index:idx_user_unread"`
	CreatedAt time.Time            `json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
