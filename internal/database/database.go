package database

import (
	"log"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite" // registers the cgo-free "sqlite" driver

	"roomsewa/internal/domain"
)

func Connect(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Println("Connecting to PostgreSQL...")
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	log.Println("Using SQLite for local development:", dsn)

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		&gorm.Config{},
	)
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&domain.User{},
		&domain.Room{},
		&domain.Service{},
		&domain.Slot{},
		&domain.Booking{},
		&domain.Review{},
		&domain.Notification{},
		&domain.History{},
	)
	if err != nil {
		return err
	}

	// Backstop for the room+date double-booking check: the pre-insert read in
	// the booking service can race a concurrent insert, the partial unique
	// index cannot. Works on both postgres and sqlite.
	return db.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS idx_no_double_booking
ON bookings (room_id, viewing_date)
WHERE status NOT IN ('Cancelled') AND payment_status NOT IN ('Failed')`).Error
}
