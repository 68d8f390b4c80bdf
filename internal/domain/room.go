package domain

import "time"

type RoomStatus string

const (
	RoomPending  RoomStatus = "pending"
	RoomApproved RoomStatus = "approved"
	RoomRejected RoomStatus = "rejected"
)

type RoomType string

const (
	RoomSingle RoomType = "single"
	RoomShared RoomType = "shared"
	RoomHostel RoomType = "hostel"
	Room1BHK   RoomType = "1bhk"
	Room2BHK   RoomType = "2bhk"
	Room3BHK   RoomType = "3bhk"
)

type Room struct {
	ID             int64      `json:"id" gorm:"primaryKey"`
	LandlordID     int64      `json:"landlord_id" gorm:"index" validate:"required"`
	Title          string     `json:"title" validate:"required,max=100"`
	Description    string     `json:"description" gorm:"type:text" validate:"required"`
	Price          float64    `json:"price" validate:"required,gte=0"`
	City           string     `json:"city" gorm:"index" validate:"required"`
	Address        string     `json:"address" validate:"required"`
	Latitude       *float64   `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude      *float64   `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	RoomType       RoomType   `json:"room_type" validate:"required"`
	Amenities      string     `json:"amenities" gorm:"type:text"` // comma-separated
	AvailableFrom  time.Time  `json:"available_from" validate:"required"`
	AvailableUntil *time.Time `json:"available_until,omitempty"`
	PosterImageURL string     `json:"poster_image_url"`
	BookingCount   int64      `json:"booking_count" gorm:"default:0"`
	RatingAverage  float64    `json:"rating_average" gorm:"default:0"`
	RatingCount    int64      `json:"rating_count" gorm:"default:0"`
	TotalRevenue   float64    `json:"total_revenue" gorm:"default:0"`
	Featured       bool       `json:"featured" gorm:"default:false"`
	Status         RoomStatus `json:"status" gorm:"default:pending;index"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	Landlord *User `json:"landlord,omitempty" gorm:"foreignKey:LandlordID"`
}

func (Room) TableName() string { return "rooms" }
