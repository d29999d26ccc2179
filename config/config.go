package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the analytics tooling. Values come
// from defaults, then an optional YAML file, then environment variables.
type Config struct {
	Engine   EngineConfig   `yaml:"engine"`
	RFM      RFMConfig      `yaml:"rfm"`
	Basket   BasketConfig   `yaml:"basket"`
	Database DatabaseConfig `yaml:"database"`
	API      APIConfig      `yaml:"api"`
	Output   OutputConfig   `yaml:"output"`

	// ReferenceTime pins the "as of" instant for recency metrics
	// ("2006-01-02" or RFC3339). Empty means the wall clock is read once
	// at the CLI/API boundary.
	ReferenceTime string `yaml:"reference_time"`
}

// EngineConfig holds computation settings.
type EngineConfig struct {
	Workers int `yaml:"workers"`
}

// RFMConfig holds RFM scoring settings.
type RFMConfig struct {
	ScoreBuckets int `yaml:"score_buckets"`
}

// BasketConfig holds market-basket resource and support settings.
type BasketConfig struct {
	MinSupport   int `yaml:"min_support"`
	MaxLineItems int `yaml:"max_line_items"`
}

// DatabaseConfig holds the SQL snapshot source.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // "sqlite3" or "postgres"
	DSN    string `yaml:"dsn"`
}

// APIConfig holds the report server settings.
type APIConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// OutputConfig holds report export settings.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Engine:   EngineConfig{Workers: 4},
		RFM:      RFMConfig{ScoreBuckets: 5},
		Basket:   BasketConfig{MinSupport: 3, MaxLineItems: 200},
		Database: DatabaseConfig{Driver: "sqlite3", DSN: "analytics.db"},
		API:      APIConfig{ListenAddr: ":8080"},
		Output:   OutputConfig{Dir: "reports"},
	}
}

// Load builds the configuration. A missing file falls back to defaults; a
// present but unparsable file is an error. .env is loaded when present.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.Driver = "postgres"
		cfg.Database.DSN = v
	}
	if v := os.Getenv("ANALYTICS_LISTEN_ADDR"); v != "" {
		cfg.API.ListenAddr = v
	}
	if v := os.Getenv("ANALYTICS_REFERENCE_TIME"); v != "" {
		cfg.ReferenceTime = v
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.Engine.Workers <= 0 {
		return fmt.Errorf("engine.workers must be positive, got %d", c.Engine.Workers)
	}
	if c.RFM.ScoreBuckets <= 0 {
		return fmt.Errorf("rfm.score_buckets must be positive, got %d", c.RFM.ScoreBuckets)
	}
	if c.Basket.MinSupport <= 0 {
		return fmt.Errorf("basket.min_support must be positive, got %d", c.Basket.MinSupport)
	}
	if c.Basket.MaxLineItems <= 0 {
		return fmt.Errorf("basket.max_line_items must be positive, got %d", c.Basket.MaxLineItems)
	}
	if _, _, err := c.parseReferenceTime(); err != nil {
		return err
	}
	return nil
}

// ParseReferenceTime returns the pinned reference time and whether one is
// configured.
func (c Config) ParseReferenceTime() (time.Time, bool, error) {
	return c.parseReferenceTime()
}

func (c Config) parseReferenceTime() (time.Time, bool, error) {
	if c.ReferenceTime == "" {
		return time.Time{}, false, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, c.ReferenceTime); err == nil {
			return t, true, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("reference_time %q is not RFC3339 or YYYY-MM-DD", c.ReferenceTime)
}
