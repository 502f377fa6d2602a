package infra

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	// Database
	DatabaseURL string `env:"DATABASE_URL"`
	PGHost      string `env:"PGHOST" envDefault:"localhost"`
	PGPort      int    `env:"PGPORT" envDefault:"5439"`
	PGUser      string `env:"PGUSER" envDefault:"geoguard"`
	PGPassword  string `env:"PGPASSWORD" envDefault:"geoguard"`
	PGDatabase  string `env:"PGDATABASE" envDefault:"geoguard"`

	// JWT
	JWTSecret             string `env:"JWT_SECRET" envDefault:"change-me-in-production"`
	JWTCommanderExpiry    string `env:"JWT_COMMANDER_EXPIRY" envDefault:"12h"`
	JWTSubCommanderExpiry string `env:"JWT_SUBCOMMANDER_EXPIRY" envDefault:"24h"`

	// Root commander bootstrap credentials. These mirror the dashboard's
	// built-in commander login and never live in the users table.
	RootCommanderUsername string `env:"ROOT_COMMANDER_USERNAME" envDefault:"Nicat"`
	RootCommanderPassword string `env:"ROOT_COMMANDER_PASSWORD" envDefault:"Nicat2025"`

	// Server
	APIPort int `env:"API_PORT" envDefault:"3200"`

	// Kafka
	KafkaBrokers string `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`
	KafkaEnabled bool   `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaTopic   string `env:"KAFKA_TOPIC" envDefault:"geoguard.events"`

	// CORS
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`

	// Dev
	AllowInsecureDefaults bool `env:"ALLOW_INSECURE_DEFAULTS" envDefault:"false"`

	// Decoy generation
	GeminiAPIKey  string  `env:"GEMINI_API_KEY"`
	GeminiModel   string  `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	DecoyRadiusKm float64 `env:"DECOY_RADIUS_KM" envDefault:"15"`

	// Map
	DefaultMapID string `env:"DEFAULT_MAP_ID" envDefault:"map-main"`
}

// LoadConfig parses environment variables into a Config struct.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks for insecure configuration that must not run in production.
// Set ALLOW_INSECURE_DEFAULTS=true to bypass (local dev only).
func (c *Config) Validate() error {
	if c.AllowInsecureDefaults {
		return nil
	}
	if c.JWTSecret == "change-me-in-production" {
		return fmt.Errorf("JWT_SECRET is set to the insecure default; set a strong secret or set ALLOW_INSECURE_DEFAULTS=true for local dev")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET is too short (%d chars); minimum 32 characters required", len(c.JWTSecret))
	}
	if c.RootCommanderPassword == "Nicat2025" {
		return fmt.Errorf("ROOT_COMMANDER_PASSWORD is set to the well-known default; set a strong password or set ALLOW_INSECURE_DEFAULTS=true for local dev")
	}
	return nil
}

// DSN returns the PostgreSQL connection string, preferring DATABASE_URL if set.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.PGUser, c.PGPassword, c.PGHost, c.PGPort, c.PGDatabase)
}
