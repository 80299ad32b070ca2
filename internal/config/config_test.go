package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoad_Defaults(t *testing.T) {
	// Minimal file — everything falls back to defaults.
	p := writeConfig(t, `server: {}
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.HTTPPort != DefaultHTTPPort {
		t.Errorf("http_port: got %d, want %d", cfg.Server.HTTPPort, DefaultHTTPPort)
	}
	if cfg.Server.Database.Host != "localhost" || cfg.Server.Database.Port != 5432 {
		t.Errorf("database defaults: got %s:%d", cfg.Server.Database.Host, cfg.Server.Database.Port)
	}
	if cfg.Server.Redis.Addr != "" {
		t.Errorf("redis.addr: got %q, want empty (disabled)", cfg.Server.Redis.Addr)
	}
	if cfg.Server.Redis.TTL != DefaultLatestTTL {
		t.Errorf("redis.ttl: got %v, want %v", cfg.Server.Redis.TTL, DefaultLatestTTL)
	}
	if cfg.Simulator.Interval != DefaultSimInterval {
		t.Errorf("simulator.interval: got %v, want %v", cfg.Simulator.Interval, DefaultSimInterval)
	}
	if len(cfg.Simulator.Patients) != 3 {
		t.Errorf("simulator.patients: got %d, want 3", len(cfg.Simulator.Patients))
	}
}

func TestLoad_FullServer(t *testing.T) {
	p := writeConfig(t, `server:
  http_port: 9090
  database:
    host: db.internal
    port: 5433
    user: medsense
    password_env: MEDSENSE_DB_PASSWORD
    name: medsense_prod
    sslmode: require
    max_conns: 20
  redis:
    addr: redis.internal:6379
    ttl: 90s
  log:
    level: debug
    format: console
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.HTTPPort != 9090 {
		t.Errorf("http_port: got %d, want 9090", cfg.Server.HTTPPort)
	}
	if cfg.Server.Database.Host != "db.internal" {
		t.Errorf("database.host: got %q", cfg.Server.Database.Host)
	}
	if cfg.Server.Database.SSLMode != "require" {
		t.Errorf("database.sslmode: got %q", cfg.Server.Database.SSLMode)
	}
	if cfg.Server.Redis.TTL != 90*time.Second {
		t.Errorf("redis.ttl: got %v, want 90s", cfg.Server.Redis.TTL)
	}
	if cfg.Server.Log.Level != "debug" || cfg.Server.Log.Format != "console" {
		t.Errorf("log: got %s/%s", cfg.Server.Log.Level, cfg.Server.Log.Format)
	}
}

func TestLoad_Simulator(t *testing.T) {
	p := writeConfig(t, `simulator:
  endpoint: http://api:8080/api/v1/vitals
  patients: [ward_a_01, ward_a_02]
  interval: 2s
  anomaly_rate: 0.1
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Simulator.Endpoint != "http://api:8080/api/v1/vitals" {
		t.Errorf("endpoint: got %q", cfg.Simulator.Endpoint)
	}
	if len(cfg.Simulator.Patients) != 2 || cfg.Simulator.Patients[0] != "ward_a_01" {
		t.Errorf("patients: got %v", cfg.Simulator.Patients)
	}
	if cfg.Simulator.Interval != 2*time.Second {
		t.Errorf("interval: got %v, want 2s", cfg.Simulator.Interval)
	}
	if cfg.Simulator.AnomalyRate != 0.1 {
		t.Errorf("anomaly_rate: got %v, want 0.1", cfg.Simulator.AnomalyRate)
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	p := writeConfig(t, `server:
  http_port: 99999
`)
	if _, err := Load(p); err == nil {
		t.Fatal("Load: expected error for out-of-range port")
	}
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	p := writeConfig(t, `server:
  log:
    level: loud
`)
	if _, err := Load(p); err == nil {
		t.Fatal("Load: expected error for unknown log level")
	}
}

func TestLoad_NegativeInterval(t *testing.T) {
	p := writeConfig(t, `simulator:
  interval: -5s
`)
	if _, err := Load(p); err == nil {
		t.Fatal("Load: expected error for negative interval")
	}
}

func TestLoad_AnomalyRateOutOfRange(t *testing.T) {
	p := writeConfig(t, `simulator:
  anomaly_rate: 1.5
`)
	if _, err := Load(p); err == nil {
		t.Fatal("Load: expected error for anomaly_rate > 1")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load: expected error for missing file")
	}
}

func TestLoad_BadYAML(t *testing.T) {
	p := writeConfig(t, "server: [not: a: map")
	if _, err := Load(p); err == nil {
		t.Fatal("Load: expected error for malformed yaml")
	}
}

func TestDSN(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "s3cret")
	d := DatabaseConfig{
		Host: "db", Port: 5432, User: "medsense",
		PasswordEnv: "TEST_DB_PASSWORD",
		Name:        "medsense", SSLMode: "disable",
	}
	want := "host=db port=5432 user=medsense dbname=medsense sslmode=disable password=s3cret"
	if got := d.DSN(); got != want {
		t.Errorf("DSN: got %q, want %q", got, want)
	}
}

func TestDSN_NoPasswordEnv(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Name: "n", SSLMode: "disable"}
	want := "host=db port=5432 user=u dbname=n sslmode=disable"
	if got := d.DSN(); got != want {
		t.Errorf("DSN: got %q, want %q", got, want)
	}
}
