package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for the server configuration.
const (
	DefaultHTTPPort    = 8080
	DefaultLatestTTL   = 60 * time.Second
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "json"
	DefaultSimInterval = 5 * time.Second
	DefaultAnomalyRate = 0.03
)

// Config is the full parsed configuration file.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Simulator SimulatorConfig `yaml:"simulator"`
}

// ServerConfig holds all medsense-server settings.
type ServerConfig struct {
	// HTTPPort is the port the REST API and WebSocket hub listen on (default 8080).
	HTTPPort int `yaml:"http_port"`

	// Database configures the Postgres connection for the vital/alert stores.
	Database DatabaseConfig `yaml:"database"`

	// Redis configures the latest-reading cache. An empty addr disables it.
	Redis RedisConfig `yaml:"redis"`

	// Log controls level ("debug"|"info"|"warn"|"error") and format
	// ("json"|"console").
	Log LogConfig `yaml:"log"`
}

// DatabaseConfig holds the Postgres connection settings.
type DatabaseConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	User string `yaml:"user"`

	// PasswordEnv is the name of the environment variable holding the
	// database password. The password itself never lives in the file.
	PasswordEnv string `yaml:"password_env"`

	Name    string `yaml:"name"`
	SSLMode string `yaml:"sslmode"`

	MaxConns int `yaml:"max_conns"`
	MaxIdle  int `yaml:"max_idle"`
}

// DSN builds the lib/pq connection string, resolving the password from the
// environment.
func (d DatabaseConfig) DSN() string {
	dsn := fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Name, d.SSLMode)
	if d.PasswordEnv != "" {
		if pw := os.Getenv(d.PasswordEnv); pw != "" {
			dsn += " password=" + pw
		}
	}
	return dsn
}

// RedisConfig holds the latest-reading cache settings.
type RedisConfig struct {
	// Addr is the host:port of the Redis server. Empty disables the cache.
	Addr string `yaml:"addr"`

	// PasswordEnv names the environment variable holding the Redis password.
	PasswordEnv string `yaml:"password_env"`

	DB int `yaml:"db"`

	// TTL bounds how long a cached reading is served after the sensor goes
	// quiet (default 60s).
	TTL time.Duration `yaml:"ttl"`
}

// Password resolves the Redis password from the environment.
func (r RedisConfig) Password() string {
	if r.PasswordEnv == "" {
		return ""
	}
	return os.Getenv(r.PasswordEnv)
}

// LogConfig controls logger construction.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SimulatorConfig holds all medsense-simulator settings.
type SimulatorConfig struct {
	// Endpoint is the ingest URL samples are posted to.
	Endpoint string `yaml:"endpoint"`

	// Patients is the set of patient ids the simulator emits for.
	Patients []string `yaml:"patients"`

	// Interval is the emission period per round (default 5s).
	Interval time.Duration `yaml:"interval"`

	// AnomalyRate is the probability [0,1] that a sample carries an
	// out-of-range heart rate to exercise alerting (default 0.03).
	AnomalyRate float64 `yaml:"anomaly_rate"`

	Log LogConfig `yaml:"log"`
}

// Load reads and parses the config file at path. Missing fields are filled
// with defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort: DefaultHTTPPort,
			Database: DatabaseConfig{
				Host:    "localhost",
				Port:    5432,
				User:    "postgres",
				Name:    "medsense",
				SSLMode: "disable",
			},
			Redis: RedisConfig{
				TTL: DefaultLatestTTL,
			},
			Log: LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
		},
		Simulator: SimulatorConfig{
			Endpoint:    "http://localhost:8080/api/v1/vitals",
			Patients:    []string{"patient_001", "patient_002", "patient_003"},
			Interval:    DefaultSimInterval,
			AnomalyRate: DefaultAnomalyRate,
			Log:         LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
		},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", cfg.Server.HTTPPort)
	}
	if cfg.Server.Database.Port <= 0 || cfg.Server.Database.Port > 65535 {
		return fmt.Errorf("server.database.port %d is out of range [1, 65535]", cfg.Server.Database.Port)
	}
	if cfg.Server.Redis.TTL < 0 {
		return fmt.Errorf("server.redis.ttl must not be negative")
	}
	if err := validateLog(cfg.Server.Log, "server.log"); err != nil {
		return err
	}
	if cfg.Simulator.Interval <= 0 {
		return fmt.Errorf("simulator.interval must be positive")
	}
	if cfg.Simulator.AnomalyRate < 0 || cfg.Simulator.AnomalyRate > 1 {
		return fmt.Errorf("simulator.anomaly_rate %v is out of range [0, 1]", cfg.Simulator.AnomalyRate)
	}
	if len(cfg.Simulator.Patients) == 0 {
		return fmt.Errorf("simulator.patients must not be empty")
	}
	return validateLog(cfg.Simulator.Log, "simulator.log")
}

func validateLog(l LogConfig, prefix string) error {
	switch l.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%s.level %q unknown: want debug|info|warn|error", prefix, l.Level)
	}
	switch l.Format {
	case "json", "console":
	default:
		return fmt.Errorf("%s.format %q unknown: want json|console", prefix, l.Format)
	}
	return nil
}
