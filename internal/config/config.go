package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Dashboard configures the aadash terminal dashboard. Every field can be set
// from the environment; command-line flags override it.
type Dashboard struct {
	URL       string        `mapstructure:"aadash_url"`
	Insecure  bool          `mapstructure:"aadash_insecure"`
	Timeout   time.Duration `mapstructure:"aadash_timeout"`
	Token     string        `mapstructure:"aadash_token"`
	LogFile   string        `mapstructure:"aadash_log_file"`
	Watch     bool          `mapstructure:"aadash_watch"`
	TimeFrame int           `mapstructure:"aadash_time_frame"`
}

// Server configures the aa-api analytics server.
type Server struct {
	ServerAddress    string        `mapstructure:"server_address"`
	DatabaseURL      string        `mapstructure:"database_url"` // empty selects the seeded in-memory store
	SeedClusters     int           `mapstructure:"seed_clusters"`
	SeedDays         int           `mapstructure:"seed_days"`
	SimulateInterval time.Duration `mapstructure:"simulate_interval"` // 0 disables the job simulator
}

// LoadDashboard reads the dashboard configuration from the environment.
func LoadDashboard() (*Dashboard, error) {
	v := viper.New()
	v.SetDefault("aadash_url", "http://localhost:8080")
	v.SetDefault("aadash_insecure", false)
	v.SetDefault("aadash_timeout", 15*time.Second)
	v.SetDefault("aadash_token", "")
	v.SetDefault("aadash_log_file", "")
	v.SetDefault("aadash_watch", true)
	v.SetDefault("aadash_time_frame", 0)
	v.AutomaticEnv()

	var cfg Dashboard
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("load dashboard config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Dashboard) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.TimeFrame < 0 {
		return fmt.Errorf("time frame must not be negative, got %d", c.TimeFrame)
	}
	return nil
}

// LoadServer reads the API server configuration from the environment.
func LoadServer() (*Server, error) {
	v := viper.New()
	v.SetDefault("server_address", ":8080")
	v.SetDefault("database_url", "")
	v.SetDefault("seed_clusters", 3)
	v.SetDefault("seed_days", 62)
	v.SetDefault("simulate_interval", 0)
	v.AutomaticEnv()

	var cfg Server
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("load server config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Server) Validate() error {
	if c.ServerAddress == "" {
		return fmt.Errorf("server address is required")
	}
	if c.SeedClusters < 0 || c.SeedDays < 0 {
		return fmt.Errorf("seed sizes must not be negative")
	}
	if c.SimulateInterval < 0 {
		return fmt.Errorf("simulate interval must not be negative, got %v", c.SimulateInterval)
	}
	return nil
}
