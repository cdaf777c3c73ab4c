package database

import (
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"tienda-gateway/models"
)

// Connect opens the cart persistence database. DATABASE_URL selects
// postgres (the production setup); otherwise a local sqlite file is used,
// which is enough for a single-instance gateway.
func Connect() (*gorm.DB, error) {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	path := os.Getenv("CART_DB_PATH")
	if path == "" {
		path = "carts.db"
	}
	return gorm.Open(sqlite.Open(path), &gorm.Config{})
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.CartRow{})
}
