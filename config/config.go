package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

func LoadEnv() error {
	// Try to load .env if it exists (for local development). On a managed
	// platform the environment variables are set directly, so a missing
	// file is not an error.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ValidateEnv checks that critical environment variables are set.
// Returns an error if any critical variable is missing.
func ValidateEnv() error {
	var missing []string

	// Critical variables - the gateway cannot function without these
	if os.Getenv("SESSION_SECRET") == "" {
		missing = append(missing, "SESSION_SECRET")
	}
	if os.Getenv("CATALOG_BASE_URL") == "" {
		missing = append(missing, "CATALOG_BASE_URL")
	}

	if len(missing) > 0 {
		return fmt.Errorf("critical environment variables not set: %v", missing)
	}

	// Non-critical variables - log warnings but don't fail
	if os.Getenv("FRONTEND_URL") == "" {
		log.Println("WARNING: FRONTEND_URL not set - CORS may not work correctly")
	}
	switch os.Getenv("CART_STORE") {
	case "", "memory":
		log.Println("WARNING: CART_STORE is 'memory' - carts will not survive a restart")
	case "db":
		if os.Getenv("DATABASE_URL") == "" && os.Getenv("CART_DB_PATH") == "" {
			log.Println("WARNING: CART_STORE=db but neither DATABASE_URL nor CART_DB_PATH is set - falling back to carts.db")
		}
	case "redis":
		if os.Getenv("REDIS_ADDR") == "" {
			log.Println("WARNING: CART_STORE=redis but REDIS_ADDR not set - defaulting to localhost:6379")
		}
	case "file":
		if os.Getenv("CART_DIR") == "" {
			log.Println("WARNING: CART_STORE=file but CART_DIR not set - defaulting to ./carts")
		}
	}

	return nil
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
