package domain

import "time"

type Role string

const (
	RoleTenant   Role = "tenant"
	RoleLandlord Role = "landlord"
	RoleAdmin    Role = "admin"
)

type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	FirstName    string    `json:"first_name" validate:"required,max=30"`
	LastName     string    `json:"last_name" validate:"required,max=30"`
	Email        string    `json:"email" gorm:"uniqueIndex" validate:"required,email"`
	Phone        string    `json:"phone,omitempty" validate:"omitempty,max=20"`
	PasswordHash string    `json:"-" gorm:"column:password_hash"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	Role         Role      `json:"role" gorm:"default:tenant"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }
