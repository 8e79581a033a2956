package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Host            string        `yaml:"host"`
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Data struct {
		Source string `yaml:"source"` // clickhouse or csv
		CSV    struct {
			Dir string `yaml:"dir"`
		} `yaml:"csv"`
	} `yaml:"data"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Cache struct {
		ResultTTL time.Duration `yaml:"result_ttl"`
		ModelTTL  time.Duration `yaml:"model_ttl"`
		Redis     struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Forecast struct {
		History           int     `yaml:"history"`
		LookbackWindow    int     `yaml:"lookback_window"`
		MAShort           int     `yaml:"ma_short"`
		MALong            int     `yaml:"ma_long"`
		Estimators        int     `yaml:"estimators"`
		MaxDepth          int     `yaml:"max_depth"`
		MinLeaf           int     `yaml:"min_leaf"`
		ConfidenceLevel   float64 `yaml:"confidence_level"`
		MinTrainingRows   int     `yaml:"min_training_rows"`
		TestSplitFraction float64 `yaml:"test_split_fraction"`
		Seed              int64   `yaml:"seed"`
	} `yaml:"forecast"`
	Market struct {
		Window              int     `yaml:"window"`
		MinPoints           int     `yaml:"min_points"`
		VolatilityThreshold float64 `yaml:"volatility_threshold"`
		TrendThreshold      float64 `yaml:"trend_threshold"`
	} `yaml:"market"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.applyDefaults()

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("DATA_SOURCE"); v != "" {
		c.Data.Source = v
	}
	if v := os.Getenv("CSV_DIR"); v != "" {
		c.Data.CSV.Dir = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
		c.Cache.Redis.Enabled = true
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}
	if c.Cache.ResultTTL == 0 {
		c.Cache.ResultTTL = 5 * time.Minute
	}
	if c.Cache.ModelTTL == 0 {
		c.Cache.ModelTTL = 24 * time.Hour
	}
	if c.Forecast.History == 0 {
		c.Forecast.History = 365
	}
	if c.Forecast.LookbackWindow == 0 {
		c.Forecast.LookbackWindow = 30
	}
	if c.Forecast.MAShort == 0 {
		c.Forecast.MAShort = 7
	}
	if c.Forecast.MALong == 0 {
		c.Forecast.MALong = 30
	}
	if c.Forecast.Estimators == 0 {
		c.Forecast.Estimators = 100
	}
	if c.Forecast.MaxDepth == 0 {
		c.Forecast.MaxDepth = 12
	}
	if c.Forecast.MinLeaf == 0 {
		c.Forecast.MinLeaf = 2
	}
	if c.Forecast.ConfidenceLevel == 0 {
		c.Forecast.ConfidenceLevel = 0.95
	}
	if c.Forecast.MinTrainingRows == 0 {
		c.Forecast.MinTrainingRows = 50
	}
	if c.Forecast.TestSplitFraction == 0 {
		c.Forecast.TestSplitFraction = 0.2
	}
	if c.Forecast.Seed == 0 {
		c.Forecast.Seed = 42
	}
	if c.Market.Window == 0 {
		c.Market.Window = 30
	}
	if c.Market.MinPoints == 0 {
		c.Market.MinPoints = 7
	}
	if c.Market.VolatilityThreshold == 0 {
		c.Market.VolatilityThreshold = 0.03
	}
	if c.Market.TrendThreshold == 0 {
		c.Market.TrendThreshold = 0.002
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Data.Source == "" {
		return fmt.Errorf("data.source is required")
	}
	if c.Data.Source != "clickhouse" && c.Data.Source != "csv" {
		return fmt.Errorf("data.source must be 'clickhouse' or 'csv', got '%s'", c.Data.Source)
	}
	if c.Data.Source == "csv" && c.Data.CSV.Dir == "" {
		return fmt.Errorf("data.csv.dir is required for csv source")
	}
	if c.Forecast.TestSplitFraction <= 0 || c.Forecast.TestSplitFraction >= 1 {
		return fmt.Errorf("forecast.test_split_fraction must be in (0,1)")
	}
	if c.Forecast.ConfidenceLevel <= 0 || c.Forecast.ConfidenceLevel >= 1 {
		return fmt.Errorf("forecast.confidence_level must be in (0,1)")
	}
	return nil
}
