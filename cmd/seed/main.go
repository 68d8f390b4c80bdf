package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"roomsewa/internal/database"
	"roomsewa/internal/domain"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "roomsewa.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running migrations...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("Migration failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM histories")
	db.Exec("DELETE FROM notifications")
	db.Exec("DELETE FROM reviews")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM service_slots")
	db.Exec("DELETE FROM services")
	db.Exec("DELETE FROM rooms")
	db.Exec("DELETE FROM users")

	log.Println("Creating users...")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		FirstName:    "Admin",
		LastName:     "User",
		Email:        "admin@roomsewa.com",
		PasswordHash: string(adminHash),
		Role:         domain.RoleAdmin,
	}
	db.Create(&admin)
	log.Println("Admin created: admin@roomsewa.com / admin123")

	landlordHash, _ := bcrypt.GenerateFromPassword([]byte("landlord123"), bcrypt.DefaultCost)
	landlord := domain.User{
		FirstName:    "Sita",
		LastName:     "Shrestha",
		Email:        "sita@roomsewa.com",
		Phone:        "+977 9841000001",
		PasswordHash: string(landlordHash),
		Role:         domain.RoleLandlord,
	}
	db.Create(&landlord)

	tenantHash, _ := bcrypt.GenerateFromPassword([]byte("tenant123"), bcrypt.DefaultCost)
	tenant := domain.User{
		FirstName:    "Ram",
		LastName:     "Karki",
		Email:        "ram@roomsewa.com",
		Phone:        "+977 9841000002",
		PasswordHash: string(tenantHash),
		Role:         domain.RoleTenant,
	}
	db.Create(&tenant)

	log.Println("Creating rooms...")

	cities := []string{"Kathmandu", "Pokhara", "Lalitpur"}
	types := []domain.RoomType{domain.RoomSingle, domain.Room1BHK, domain.Room2BHK}
	for i := 0; i < 3; i++ {
		room := domain.Room{
			LandlordID:    landlord.ID,
			Title:         fmt.Sprintf("Sunny %s room in %s", types[i], cities[i]),
			Description:   "Well lit room close to the main road, water and electricity included.",
			Price:         8000 + float64(i)*4000,
			City:          cities[i],
			Address:       fmt.Sprintf("Ward %d, %s", i+3, cities[i]),
			RoomType:      types[i],
			Amenities:     "wifi,parking,water",
			AvailableFrom: time.Now().UTC().Truncate(24 * time.Hour),
			Status:        domain.RoomApproved,
		}
		db.Create(&room)
	}

	log.Println("Creating viewing service with slots...")

	svc := domain.Service{
		ProviderID:  landlord.ID,
		Name:        "Room viewing appointments",
		Description: "Guided viewing of listed rooms",
		BasePrice:   200,
	}
	db.Create(&svc)

	day := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 1)
	for hour := 9; hour < 17; hour++ {
		slot := domain.Slot{
			ServiceID: svc.ID,
			StartTime: day.Add(time.Duration(hour) * time.Hour),
			EndTime:   day.Add(time.Duration(hour+1) * time.Hour),
			Price:     200,
			Status:    domain.SlotAvailable,
		}
		db.Create(&slot)
	}

	log.Println("Seed complete")
}
