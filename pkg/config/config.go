package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// FlexibleStringSlice is a []string that also accepts JSON numbers,
// so allow_from can contain both "123" and 123.
type FlexibleStringSlice []string

func (f *FlexibleStringSlice) UnmarshalJSON(data []byte) error {
	// Try []string first
	var ss []string
	if err := json.Unmarshal(data, &ss); err == nil {
		*f = ss
		return nil
	}

	// Try []interface{} to handle mixed types
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	result := make([]string, 0, len(raw))
	for _, v := range raw {
		switch val := v.(type) {
		case string:
			result = append(result, val)
		case float64:
			result = append(result, fmt.Sprintf("%.0f", val))
		default:
			result = append(result, fmt.Sprintf("%v", val))
		}
	}
	*f = result
	return nil
}

type Config struct {
	Relay      RelayConfig      `json:"relay"`
	Channels   ChannelsConfig   `json:"channels"`
	Cloudinary CloudinaryConfig `json:"cloudinary"`
	Catalog    CatalogConfig    `json:"catalog"`
}

// RelayConfig describes the outbound realtime stream connection.
type RelayConfig struct {
	Endpoint          string `env:"STREAMRELAY_RELAY_ENDPOINT"           json:"endpoint"`
	ReconnectAttempts int    `env:"STREAMRELAY_RELAY_RECONNECT_ATTEMPTS" json:"reconnect_attempts"`
	DialTimeoutSecs   int    `env:"STREAMRELAY_RELAY_DIAL_TIMEOUT_SECS"  json:"dial_timeout_secs"`
}

type ChannelsConfig struct {
	Telegram TelegramConfig `json:"telegram"`
	Discord  DiscordConfig  `json:"discord"`
}

type TelegramConfig struct {
	Enabled   bool                `env:"STREAMRELAY_CHANNELS_TELEGRAM_ENABLED"    json:"enabled"`
	Token     string              `env:"STREAMRELAY_CHANNELS_TELEGRAM_TOKEN"      json:"token"`
	AllowFrom FlexibleStringSlice `env:"STREAMRELAY_CHANNELS_TELEGRAM_ALLOW_FROM" json:"allow_from"`
}

type DiscordConfig struct {
	Enabled   bool                `env:"STREAMRELAY_CHANNELS_DISCORD_ENABLED"    json:"enabled"`
	Token     string              `env:"STREAMRELAY_CHANNELS_DISCORD_TOKEN"      json:"token"`
	AllowFrom FlexibleStringSlice `env:"STREAMRELAY_CHANNELS_DISCORD_ALLOW_FROM" json:"allow_from"`
}

// CloudinaryConfig holds media-hosting collaborator credentials.
// When CloudName is empty media archival is disabled and media messages
// are relayed with sentinel URL fields.
type CloudinaryConfig struct {
	CloudName string `env:"STREAMRELAY_CLOUDINARY_CLOUD_NAME" json:"cloud_name"`
	APIKey    string `env:"STREAMRELAY_CLOUDINARY_API_KEY"    json:"api_key"`
	APISecret string `env:"STREAMRELAY_CLOUDINARY_API_SECRET" json:"api_secret"`
	Folder    string `env:"STREAMRELAY_CLOUDINARY_FOLDER"     json:"folder"`
}

type CatalogConfig struct {
	Path string `env:"STREAMRELAY_CATALOG_PATH" json:"path"`
}

func DefaultConfig() *Config {
	return &Config{
		Relay: RelayConfig{
			Endpoint:          "ws://localhost:4000/stream",
			ReconnectAttempts: 5,
			DialTimeoutSecs:   10,
		},
		Channels: ChannelsConfig{
			Telegram: TelegramConfig{Enabled: true},
		},
		Cloudinary: CloudinaryConfig{
			Folder: "super-stream",
		},
	}
}

func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Env vars still apply on top of defaults.
			if err := env.Parse(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func SaveConfig(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}
