package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every setting of the application.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Session  SessionConfig  `yaml:"session"`
	Courier  CourierConfig  `yaml:"courier"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Port          int `yaml:"port"`
	MaxConcurrent int `yaml:"max_concurrent"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // pgx | sqlite
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
	MaxConns int    `yaml:"max_conns"`
	// Path is the SQLite DSN, used only with the sqlite driver.
	Path string `yaml:"path"`
}

type RabbitMQConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	VHost    string `yaml:"vhost"`
	UseTLS   bool   `yaml:"tls"`
}

// Enabled reports whether a broker is configured at all.
func (r RabbitMQConfig) Enabled() bool { return r.Host != "" }

type SessionConfig struct {
	TTL           time.Duration `yaml:"ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

type CourierConfig struct {
	WorkerName   string        `yaml:"worker_name"`
	Prefetch     int           `yaml:"prefetch"`
	TransitDelay time.Duration `yaml:"transit_delay"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// Default returns a config with every optional field filled in.
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Port: 8000, MaxConcurrent: 50},
		Database: DatabaseConfig{Driver: DriverPostgres, Port: 5432, SSLMode: "disable", MaxConns: 10},
		RabbitMQ: RabbitMQConfig{Port: 5672, VHost: "/"},
		Session:  SessionConfig{TTL: 30 * time.Minute, SweepInterval: time.Minute},
		Courier:  CourierConfig{Prefetch: 1, TransitDelay: 20 * time.Second},
		Log:      LogConfig{Level: "info"},
	}
}

// Load reads the YAML file at path on top of the defaults, applies
// environment overrides and validates the database section.
func Load(path string) (*Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't open the configuration file: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("RABBITMQ_PASSWORD"); v != "" {
		c.RabbitMQ.Password = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT must be a valid integer: %w", err)
		}
		c.Server.Port = port
	}
	return nil
}

// Validate rejects configurations the services cannot run with.
func (c *Config) Validate() error {
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.User == "" || c.Database.Database == "" {
			return errors.New("invalid config: database host, user and database are required")
		}
	case DriverSQLite:
		if c.Database.Path == "" {
			return errors.New("invalid config: database path is required for sqlite")
		}
	default:
		return fmt.Errorf("invalid config: unknown database driver %q", c.Database.Driver)
	}
	if c.RabbitMQ.Enabled() && c.RabbitMQ.User == "" {
		return errors.New("invalid config: rabbitmq user is required when host is set")
	}
	if c.Session.TTL <= 0 {
		return errors.New("invalid config: session ttl must be positive")
	}
	if c.Session.SweepInterval <= 0 {
		c.Session.SweepInterval = c.Session.TTL
	}
	return nil
}

// FindConfig returns the first config file that exists in the usual places.
func FindConfig() (string, error) {
	candidates := []string{"config.yaml", "config.yml", "deploy/config.example.yaml"}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fs.ErrNotExist
}
