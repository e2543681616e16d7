package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port           string        `envconfig:"PORT" default:"8080"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
	KafkaBrokers   string        `envconfig:"KAFKA_BROKERS" default:""`
	MenuServiceURL string        `envconfig:"MENU_SERVICE_URL" default:""`
	DraftTTL       time.Duration `envconfig:"DRAFT_TTL" default:"30m"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
