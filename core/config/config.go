package config

import (
	"reflect"
	"strings"

	"qr-registry/core/database"
	"qr-registry/core/logger"
	"qr-registry/core/server"
	"qr-registry/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the media blob store (S3, MinIO).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the record document store.
	Database database.Config `mapstructure:"database"`
	// Scan holds configuration for scan sessions.
	Scan ScanConfig `mapstructure:"scan"`
}

// ScanConfig holds configuration for scan sessions and the listing view.
type ScanConfig struct {
	// SpoolDir is where uploaded media is kept until a draft is committed.
	// Empty means the OS temp directory.
	SpoolDir string `mapstructure:"spool_dir" default:""`
	// RecentLimit is the number of records shown in the recent panel.
	RecentLimit int `mapstructure:"recent_limit" default:"10"`
	// OperationTimeoutSeconds bounds each lookup/commit. Zero disables it.
	OperationTimeoutSeconds int `mapstructure:"operation_timeout_seconds" default:"0"`
	// SessionTTLMinutes closes HTTP scan sessions left idle this long. Zero keeps them forever.
	SessionTTLMinutes int `mapstructure:"session_ttl_minutes" default:"30"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
