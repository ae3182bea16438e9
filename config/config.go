package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the application.
type Config struct {
	DatabaseURL  string
	JWTSecretKey string
	ServerPort   int

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string

	Rules Rules
}

// Rules carries the competition parameters that the standings and
// eligibility engines consume. They are passed explicitly to services
// instead of being read from ambient settings, so the core packages
// stay testable with arbitrary values.
type Rules struct {
	PointsWin  int
	PointsDraw int
	PointsLoss int

	// Goals credited to the present side when a match is decided by
	// walkover (opponent absence).
	WalkoverGoals int

	// Yellow cards accumulated before a one-match suspension.
	YellowCardLimit int
	// Matches a player sits out after a red card.
	RedCardSuspensionMatches int
	// Team absences before exclusion from the tournament.
	AbsenceLimit int
}

// DefaultRules matches the category defaults of the competition
// regulations: 3/1/0 points, 3-0 walkovers, suspension after three
// yellows, two matches for a red, exclusion after three absences.
func DefaultRules() Rules {
	return Rules{
		PointsWin:                3,
		PointsDraw:               1,
		PointsLoss:               0,
		WalkoverGoals:            3,
		YellowCardLimit:          3,
		RedCardSuspensionMatches: 2,
		AbsenceLimit:             3,
	}
}

// Load reads configuration from environment variables.
// A .env file is loaded first if present (local development).
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	rules := DefaultRules()
	if err := overrideRuleFromEnv("RULE_YELLOW_CARD_LIMIT", &rules.YellowCardLimit); err != nil {
		return nil, err
	}
	if err := overrideRuleFromEnv("RULE_RED_SUSPENSION_MATCHES", &rules.RedCardSuspensionMatches); err != nil {
		return nil, err
	}
	if err := overrideRuleFromEnv("RULE_ABSENCE_LIMIT", &rules.AbsenceLimit); err != nil {
		return nil, err
	}
	if err := overrideRuleFromEnv("RULE_WALKOVER_GOALS", &rules.WalkoverGoals); err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabaseURL:       dbURL,
		JWTSecretKey:      jwtKey,
		ServerPort:        port,
		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
		Rules:             rules,
	}

	return cfg, nil
}

func overrideRuleFromEnv(name string, dst *int) error {
	raw := os.Getenv(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid %s environment variable: %w", name, err)
	}
	if v < 0 {
		return fmt.Errorf("%s must not be negative, got %d", name, v)
	}
	*dst = v
	return nil
}
