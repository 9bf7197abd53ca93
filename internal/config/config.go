package config

import "os"

type Config struct {
	App      AppConfig
	Auth     AuthConfig
	SMTP     SMTPConfig
	Postgres PostgresConfig
}

type AppConfig struct {
	Port string
	// BaseURL is the externally reachable address used when building
	// activation links in outgoing mail.
	BaseURL string
}

type AuthConfig struct {
	JWTSecret    string
	JWTAccessTTL string
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type PostgresConfig struct {
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string
}

func Load() Config {
	return Config{
		App: AppConfig{
			Port:    getenv("PORT", "8080"),
			BaseURL: getenv("APP_BASE_URL", "http://localhost:8080"),
		},
		Auth: AuthConfig{
			JWTSecret:    os.Getenv("JWT_SECRET"),
			JWTAccessTTL: getenv("JWT_ACCESS_TTL", "24h"),
		},
		SMTP: SMTPConfig{
			Host:     getenv("SMTP_HOST", "localhost"),
			Port:     getenv("SMTP_PORT", "587"),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
		},
		Postgres: PostgresConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Host:        getenv("PGHOST", "localhost"),
			Port:        getenv("PGPORT", "5432"),
			User:        os.Getenv("PGUSER"),
			Password:    os.Getenv("PGPASSWORD"),
			Database:    os.Getenv("PGDATABASE"),
			SSLMode:     getenv("PGSSLMODE", "disable"),
		},
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
