package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"pns-snapshot/core/database"
	"pns-snapshot/core/graph"
	"pns-snapshot/core/harvest"
	"pns-snapshot/core/logger"
	"pns-snapshot/core/server"
	"pns-snapshot/core/snapshot"
	"pns-snapshot/core/storage"
	"pns-snapshot/feature/accounts"
	"pns-snapshot/feature/newaccounts"
	"pns-snapshot/feature/pnsinfo"
	"pns-snapshot/feature/registrations"
	"pns-snapshot/feature/subdomains"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Graph holds configuration for the subgraph transport.
	Graph graph.Config `mapstructure:"graph"`
	// Harvest holds settings shared by every harvest run.
	Harvest harvest.Config `mapstructure:"harvest"`
	// Snapshot selects where artifacts are written.
	Snapshot snapshot.Config `mapstructure:"snapshot"`
	// Accounts holds the accounts family settings.
	Accounts accounts.Config `mapstructure:"accounts"`
	// NewAccounts holds the new-accounts family settings.
	NewAccounts newaccounts.Config `mapstructure:"newaccounts"`
	// Registrations holds the registrations scan settings.
	Registrations registrations.Config `mapstructure:"registrations"`
	// PnsInfo holds the token list and event scan settings.
	PnsInfo pnsinfo.Config `mapstructure:"pnsinfo"`
	// Subdomains holds the subdomain dump settings.
	Subdomains subdomains.Config `mapstructure:"subdomains"`
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the run ledger database.
	Database database.Config `mapstructure:"database"`
}

// LoadConfig loads configuration from an optional config.yaml, the .env file
// and environment variables, in increasing order of precedence.
func LoadConfig(path string) (*Config, error) {
	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(filepath.Join(path, ".env"))

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	yamlPath := filepath.Join(path, "config.yaml")
	if _, err := os.Stat(yamlPath); err == nil {
		v.SetConfigFile(yamlPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", yamlPath, err)
		}
	}

	// Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects settings that would only fail later, mid-harvest.
func (c *Config) Validate() error {
	var errs []error
	if !c.Snapshot.IsValidBackend() {
		errs = append(errs, fmt.Errorf("snapshot.backend: unsupported backend %q", c.Snapshot.Backend))
	}
	if err := c.Accounts.Family().Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.NewAccounts.Family().Validate(); err != nil {
		errs = append(errs, err)
	}
	for key, size := range map[string]int{
		"registrations.page_size": c.Registrations.PageSize,
		"pnsinfo.token_page_size": c.PnsInfo.TokenPageSize,
		"pnsinfo.event_page_size": c.PnsInfo.EventPageSize,
		"subdomains.page_size":    c.Subdomains.PageSize,
	} {
		if size <= 0 {
			errs = append(errs, fmt.Errorf("%s: %w", key, harvest.ErrInvalidPageSize))
		}
	}
	return errors.Join(errs...)
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
