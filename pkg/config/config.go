// Package config loads the settings of the executables from defaults, an
// optional env file and the process environment, in increasing precedence.
package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
)

const Prefix = "MONOPOLY_"

type Config struct {
	TCPPort           int           `mapstructure:"MONOPOLY_TCP_PORT"`
	WSPort            int           `mapstructure:"MONOPOLY_WS_PORT"`
	APIPort           int           `mapstructure:"MONOPOLY_API_PORT"`
	AllowOrigins      []string      `mapstructure:"MONOPOLY_ALLOW_ORIGINS"`
	LogLevel          string        `mapstructure:"MONOPOLY_LOG_LEVEL"`
	DatabaseURL       string        `mapstructure:"MONOPOLY_DATABASE_URL"`
	MigrationsDir     string        `mapstructure:"MONOPOLY_MIGRATIONS_DIR"`
	Players           int           `mapstructure:"MONOPOLY_PLAYERS"`
	Bots              int           `mapstructure:"MONOPOLY_BOTS"`
	Seed              uint64        `mapstructure:"MONOPOLY_SEED"`
	ResyncTimeout     time.Duration `mapstructure:"MONOPOLY_RESYNC_TIMEOUT"`
	ResyncRetries     int           `mapstructure:"MONOPOLY_RESYNC_RETRIES"`
	OutboundQueueSize int           `mapstructure:"MONOPOLY_OUTBOUND_QUEUE_SIZE"`
}

func defaults() map[string]string {
	return map[string]string{
		"MONOPOLY_TCP_PORT":            "8888",
		"MONOPOLY_WS_PORT":             "8890",
		"MONOPOLY_API_PORT":            "8080",
		"MONOPOLY_ALLOW_ORIGINS":       "*",
		"MONOPOLY_LOG_LEVEL":           "info",
		"MONOPOLY_DATABASE_URL":        "sqlite://monopoly.db",
		"MONOPOLY_MIGRATIONS_DIR":      "./migrations",
		"MONOPOLY_PLAYERS":             "2",
		"MONOPOLY_BOTS":                "0",
		"MONOPOLY_SEED":                "0",
		"MONOPOLY_RESYNC_TIMEOUT":      "5s",
		"MONOPOLY_RESYNC_RETRIES":      "3",
		"MONOPOLY_OUTBOUND_QUEUE_SIZE": "256",
	}
}

// Load reads envFile when it exists and overlays the process environment.
// An empty envFile skips the file.
func Load(envFile string) (*Config, error) {
	values := defaults()

	if envFile != "" {
		fileValues, err := godotenv.Read(envFile)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read env file %s: %v", envFile, err)
		}
		for k, v := range fileValues {
			if strings.HasPrefix(k, Prefix) {
				values[k] = v
			}
		}
	}

	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok && strings.HasPrefix(k, Prefix) {
			values[k] = v
		}
	}

	cfg := &Config{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			stringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		ErrorUnused:      false,
		Result:           cfg,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create config decoder: %v", err)
	}
	if err := decoder.Decode(values); err != nil {
		return nil, fmt.Errorf("failed to decode config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// stringToSliceHookFunc splits on sep and trims the parts, dropping empty ones.
func stringToSliceHookFunc(sep string) mapstructure.DecodeHookFunc {
	return func(from reflect.Kind, to reflect.Kind, data interface{}) (interface{}, error) {
		if from != reflect.String || to != reflect.Slice {
			return data, nil
		}
		var parts []string
		for _, part := range strings.Split(data.(string), sep) {
			if part = strings.TrimSpace(part); part != "" {
				parts = append(parts, part)
			}
		}
		return parts, nil
	}
}

func (c *Config) Validate() error {
	if c.Players < 1 {
		return fmt.Errorf("MONOPOLY_PLAYERS must be at least 1, got %d", c.Players)
	}
	if c.Bots < 0 || c.Bots > c.Players {
		return fmt.Errorf("MONOPOLY_BOTS must be between 0 and %d, got %d", c.Players, c.Bots)
	}
	for name, port := range map[string]int{
		"MONOPOLY_TCP_PORT": c.TCPPort,
		"MONOPOLY_WS_PORT":  c.WSPort,
		"MONOPOLY_API_PORT": c.APIPort,
	} {
		if port < 0 || port > 65535 {
			return fmt.Errorf("%s is out of range: %d", name, port)
		}
	}
	if c.ResyncTimeout <= 0 {
		return fmt.Errorf("MONOPOLY_RESYNC_TIMEOUT must be positive, got %s", c.ResyncTimeout)
	}
	if c.ResyncRetries < 1 {
		return fmt.Errorf("MONOPOLY_RESYNC_RETRIES must be at least 1, got %d", c.ResyncRetries)
	}
	return nil
}
