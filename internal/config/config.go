package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the admission tooling.
type Config struct {
	AppName    string
	AppEnv     string
	APIBaseURL string
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("PCT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "PCT Admission")
	v.SetDefault("app.env", "development")
	v.SetDefault("api.base_url", "http://localhost:5000/api")

	cfg := Config{
		AppName:    v.GetString("app.name"),
		AppEnv:     v.GetString("app.env"),
		APIBaseURL: strings.TrimRight(v.GetString("api.base_url"), "/"),
	}

	if cfg.APIBaseURL == "" {
		return Config{}, fmt.Errorf("api base url must be provided")
	}

	return cfg, nil
}
