package db

import (
	"fmt"
	"log"
	"os"

	"toolshare/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	err = Migrate(DB)
	if err != nil {
		log.Fatal("Failed to migrate models: ", err)
	}
	log.Println("Database connected")
	return DB
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Item{},
		&models.BasketRequest{},
		&models.BookingRequest{},
		&models.Notification{},
	); err != nil {
		return err
	}

	// Conflict checks only ever scan occupying rows; a partial index keeps
	// that scan cheap no matter how much terminal history accumulates.
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_occupying_window
	  ON %s (item_id, requested_start, requested_end)
	  WHERE status IN ('Approved','CheckedOut','Overdue');
	`, models.BookingTable, models.BookingTable)).Error; err != nil {
		return err
	}

	// The sweeper filters on exactly this pair.
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_checkedout_end
	  ON %s (requested_end)
	  WHERE status = 'CheckedOut';
	`, models.BookingTable, models.BookingTable)).Error; err != nil {
		return err
	}

	return nil
}
