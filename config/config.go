package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

func LoadEnv() error {
	// Try to load .env file if it exists (for local development).
	// On production, environment variables are set directly.
	if err := godotenv.Load(); err != nil {
		// .env file not found is not an error - environment variables are
		// already available in os.Getenv()
		return nil
	}
	return nil
}

// ValidateEnv checks that critical environment variables are set.
// Returns an error if any critical variable is missing.
func ValidateEnv() error {
	var missing []string

	// Critical variables - application cannot function without these
	if os.Getenv("JWT_SECRET") == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if os.Getenv("DATABASE_URL") == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return fmt.Errorf("critical environment variables not set: %v", missing)
	}

	// Non-critical variables - log warnings but don't fail
	if os.Getenv("ELASTICSEARCH_URL") == "" {
		log.Println("WARNING: ELASTICSEARCH_URL not set - index search will be disabled")
	}
	if os.Getenv("REDIS_ADDR") == "" {
		log.Println("WARNING: REDIS_ADDR not set - weekly favorites will be disabled")
	}
	if os.Getenv("FRONTEND_URL") == "" {
		log.Println("WARNING: FRONTEND_URL not set - CORS may not work correctly")
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

// SearchRateLimit reads SEARCH_RATE_LIMIT (requests) and
// SEARCH_RATE_WINDOW_SECONDS; defaults to 60 requests per minute.
func SearchRateLimit() (int, time.Duration) {
	limit := 60
	if raw := os.Getenv("SEARCH_RATE_LIMIT"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			log.Printf("WARNING: malformed SEARCH_RATE_LIMIT %q, using 60", raw)
		} else {
			limit = v
		}
	}
	window := time.Minute
	if raw := os.Getenv("SEARCH_RATE_WINDOW_SECONDS"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			log.Printf("WARNING: malformed SEARCH_RATE_WINDOW_SECONDS %q, using 60", raw)
		} else {
			window = time.Duration(v) * time.Second
		}
	}
	return limit, window
}

// PlatformGMTOffsetMinutes reads PLATFORM_GMT_OFFSET (minutes east of UTC)
// used for weekday rollover; defaults to UTC+7.
func PlatformGMTOffsetMinutes() int {
	raw := os.Getenv("PLATFORM_GMT_OFFSET")
	if raw == "" {
		return 7 * 60
	}
	offset, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("WARNING: malformed PLATFORM_GMT_OFFSET %q, using UTC+7", raw)
		return 7 * 60
	}
	return offset
}
