package db

import (
	"github.com/sirupsen/logrus"

	"gorm.io/driver/mysql" // MySQL driver for GORM
	"gorm.io/gorm"         // GORM ORM library

	"github.com/nprashanth1712/astroai-payment/internal/journal"
)

// Open connects to the webhook journal database. Error translation is on so
// duplicate event IDs surface as gorm.ErrDuplicatedKey.
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
}

// Migrate creates or updates the webhook journal schema
func Migrate(dsn string) {
	gdb, err := Open(dsn)
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err) // Fatal if connection fails
	}
	// AutoMigrate creates the table, indexes and the unique event ID constraint
	if err := gdb.AutoMigrate(&journal.Event{}); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}
	logrus.Info("Migration completed.")
}
