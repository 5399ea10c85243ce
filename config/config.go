package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	Port        string `envconfig:"PORT" default:":8080"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// PublicBaseURL is embedded into table QR codes so a scanned code opens
	// the table resource on the public host, not an internal address.
	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:8080"`

	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"720h"`

	NotifyBaseURL string        `envconfig:"NOTIFY_BASE_URL"`
	NotifyAPIKey  string        `envconfig:"NOTIFY_API_KEY"`
	NotifyTimeout time.Duration `envconfig:"NOTIFY_TIMEOUT" default:"5s"`
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}
	return &cfg, nil
}
