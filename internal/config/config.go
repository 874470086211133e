package config

import (
	"time"

	"github.com/caarlos0/env/v9"
)

type Config struct {
	Port              string        `env:"PORT" envDefault:"8080"`
	GeminiAPIKey      string        `env:"GEMINI_API_KEY,required"`
	GeminiModel       string        `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash-image"`
	MaxUploadBytes    int64         `env:"MAX_UPLOAD_BYTES" envDefault:"4194304"`
	CORSAllowedSuffix string        `env:"CORS_ALLOWED_SUFFIX" envDefault:"vercel.app"`
	SessionIdle       time.Duration `env:"SESSION_IDLE" envDefault:"1h"`
	BuildSHA          string        `env:"BUILD_SHA"`
	BuildTime         string        `env:"BUILD_TIME"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SweepInterval is how often idle sessions are expired; never below one second.
func (c *Config) SweepInterval() time.Duration {
	return max(c.SessionIdle/4, time.Second)
}
