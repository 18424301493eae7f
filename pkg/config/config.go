package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const ConfigFileName = "todoapi.yaml"

// OfflineEndpoint is the DynamoDB Local address selected by IS_OFFLINE.
const OfflineEndpoint = "http://localhost:8000"

type AppConfig struct {
	Environment string `yaml:"environment"`
	Port        string `yaml:"port"`

	RateLimitEnabled bool                       `yaml:"rateLimitEnabled"`
	RateLimitConfigs map[string]RateLimitConfig `yaml:"rateLimits"`

	EnforceHTTPS bool `yaml:"enforceHttps"`

	Store     StoreConfig     `yaml:"store"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	LogLevel  string          `yaml:"logLevel"`
}

type RateLimitConfig struct {
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

// StoreConfig selects and addresses the item store. It is passed explicitly to
// the store constructors; nothing reads the environment at request time.
type StoreConfig struct {
	// Driver is "dynamodb" or "badger".
	Driver    string `yaml:"driver"`
	TableName string `yaml:"tableName"`
	Region    string `yaml:"region"`
	// Endpoint overrides the DynamoDB endpoint, e.g. DynamoDB Local.
	Endpoint string `yaml:"endpoint"`
	// Bootstrap creates the table at startup when it is missing.
	Bootstrap bool `yaml:"bootstrap"`
	// BadgerPath is the badger data directory; empty means in-memory.
	BadgerPath string `yaml:"badgerPath"`
}

type TelemetryConfig struct {
	Enabled        bool   `yaml:"enabled"`
	ServiceName    string `yaml:"serviceName"`
	ServiceVersion string `yaml:"serviceVersion"`
	MetricsPort    string `yaml:"metricsPort"`
	OTLPEndpoint   string `yaml:"otlpEndpoint"`
}

func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		Environment:      "development",
		Port:             "8080",
		RateLimitEnabled: true,
		RateLimitConfigs: map[string]RateLimitConfig{
			"POST /todos": {
				Requests: 20,
				Window:   time.Minute,
			},
			"GET /todos/:id": {
				Requests: 100,
				Window:   time.Minute,
			},
			"PUT /todos/:id": {
				Requests: 20,
				Window:   time.Minute,
			},
			"DELETE /todos/:id": {
				Requests: 10,
				Window:   time.Minute,
			},
			"default": {
				Requests: 60,
				Window:   time.Minute,
			},
		},
		EnforceHTTPS: false,
		Store: StoreConfig{
			Driver:    "dynamodb",
			TableName: "todo-list",
			Region:    "sa-east-1",
		},
		Telemetry: TelemetryConfig{
			Enabled:        true,
			ServiceName:    "todoapi",
			ServiceVersion: "1.0.0",
			MetricsPort:    "9091",
			OTLPEndpoint:   "localhost:4317",
		},
		LogLevel: "info",
	}
}

// Load builds the configuration from defaults, then the first todoapi.yaml
// found walking up from the working directory, then environment variables.
func Load() (*AppConfig, error) {
	cfg := GetDefaultConfig()

	if path := findConfigFile(); path != "" {
		if err := cfg.MergeFile(path); err != nil {
			return nil, err
		}
	}

	cfg.ApplyEnv(os.LookupEnv)

	return cfg, cfg.Validate()
}

func (cfg *AppConfig) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	return nil
}

// ApplyEnv overlays environment variables. lookup is os.LookupEnv outside tests.
func (cfg *AppConfig) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup("PORT"); ok && v != "" {
		cfg.Port = v
	}

	if v, ok := lookup("GIN_MODE"); ok && v == "release" {
		cfg.Environment = "production"
		cfg.EnforceHTTPS = true
	}

	if v, ok := lookup("ENFORCE_HTTPS"); ok {
		cfg.EnforceHTTPS = parseBool(v, cfg.EnforceHTTPS)
	}

	if v, ok := lookup("RATE_LIMIT_ENABLED"); ok {
		cfg.RateLimitEnabled = parseBool(v, cfg.RateLimitEnabled)
	}

	if v, ok := lookup("STORE_DRIVER"); ok && v != "" {
		cfg.Store.Driver = v
	}

	if v, ok := lookup("TODO_TABLE_NAME"); ok && v != "" {
		cfg.Store.TableName = v
	}

	if v, ok := lookup("AWS_REGION"); ok && v != "" {
		cfg.Store.Region = v
	}

	if v, ok := lookup("IS_OFFLINE"); ok && parseBool(v, false) {
		cfg.Store.Endpoint = OfflineEndpoint
	}

	if v, ok := lookup("DYNAMODB_ENDPOINT"); ok && v != "" {
		cfg.Store.Endpoint = v
	}

	if v, ok := lookup("STORE_BOOTSTRAP"); ok {
		cfg.Store.Bootstrap = parseBool(v, cfg.Store.Bootstrap)
	}

	if v, ok := lookup("BADGER_PATH"); ok {
		cfg.Store.BadgerPath = v
	}

	if v, ok := lookup("TELEMETRY_ENABLED"); ok {
		cfg.Telemetry.Enabled = parseBool(v, cfg.Telemetry.Enabled)
	}

	if v, ok := lookup("OTLP_ENDPOINT"); ok && v != "" {
		cfg.Telemetry.OTLPEndpoint = v
	}

	if v, ok := lookup("METRICS_PORT"); ok && v != "" {
		cfg.Telemetry.MetricsPort = v
	}

	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		cfg.LogLevel = v
	}
}

func (cfg *AppConfig) Validate() error {
	switch cfg.Store.Driver {
	case "dynamodb":
		if cfg.Store.TableName == "" {
			return fmt.Errorf("store.tableName is required for the dynamodb driver")
		}

		if cfg.Store.Region == "" {
			return fmt.Errorf("store.region is required for the dynamodb driver")
		}
	case "badger":
	default:
		return fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	return nil
}

func parseBool(v string, fallback bool) bool {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}

	return b
}

// findConfigFile searches for todoapi.yaml walking up from current directory.
func findConfigFile() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		path := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
