package catalog

import "time"

type CreateRoomRequest struct {
	Title          string     `json:"title" binding:"required,max=100"`
	Description    string     `json:"description" binding:"required"`
	Price          float64    `json:"price" binding:"required,gte=0"`
	City           string     `json:"city" binding:"required"`
	Address        string     `json:"address" binding:"required"`
	Latitude       *float64   `json:"latitude"`
	Longitude      *float64   `json:"longitude"`
	RoomType       string     `json:"room_type" binding:"required,oneof=single shared hostel 1bhk 2bhk 3bhk"`
	Amenities      []string   `json:"amenities"`
	AvailableFrom  time.Time  `json:"available_from" binding:"required"`
	AvailableUntil *time.Time `json:"available_until"`
	PosterImageURL string     `json:"poster_image_url"`
}

type UpdateRoomRequest struct {
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	Price          *float64   `json:"price"`
	City           *string    `json:"city"`
	Address        *string    `json:"address"`
	Amenities      []string   `json:"amenities"`
	AvailableFrom  *time.Time `json:"available_from"`
	AvailableUntil *time.Time `json:"available_until"`
	PosterImageURL *string    `json:"poster_image_url"`
}

type ModerateRoomRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
}

type CreateServiceRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Description string  `json:"description"`
	BasePrice   float64 `json:"base_price" binding:"gte=0"`
}

// GenerateSlotsRequest describes a window of equal-length slots to append to
// a service, e.g. 2026-09-01 to 2026-09-07, 09:00-18:00, 60-minute slots.
type GenerateSlotsRequest struct {
	StartDate    string  `json:"start_date" binding:"required"` // 2006-01-02
	EndDate      string  `json:"end_date" binding:"required"`
	OpenHour     int     `json:"open_hour" binding:"gte=0,lte=23"`
	CloseHour    int     `json:"close_hour" binding:"required,gte=1,lte=24"`
	SlotMinutes  int     `json:"slot_minutes" binding:"required,gte=15,lte=480"`
	PricePerSlot float64 `json:"price_per_slot" binding:"gte=0"`
}
