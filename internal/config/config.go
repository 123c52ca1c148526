package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"CryptoSentinel/internal/calculator"
	"CryptoSentinel/internal/strategy"
)

// DefaultPath is used when CONFIG_PATH is not set.
const DefaultPath = "configs/config.yaml"

// Config holds all application configuration. It is loaded once and not
// modified afterwards.
type Config struct {
	Log struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=trace debug info warn error"`
		Format string `yaml:"format" default:"console" validate:"oneof=console json"`
		Output string `yaml:"output" default:"stdout" validate:"required"`
	} `yaml:"log"`
	Trading struct {
		Symbols      []string `yaml:"symbols" validate:"min=1,dive,required,uppercase"`
		Interval     string   `yaml:"interval" default:"1h" validate:"oneof=1m 3m 5m 15m 30m 1h 2h 4h 6h 8h 12h 1d 3d 1w"`
		HistoryLimit int      `yaml:"history_limit" default:"500" validate:"gte=200,lte=1000"`
	} `yaml:"trading"`
	Indicators calculator.Params   `yaml:"indicators"`
	Risk       strategy.RiskParams `yaml:"risk"`
	DataSource struct {
		Provider string `yaml:"provider" default:"binance" validate:"oneof=binance mock"`
		BaseURL  string `yaml:"base_url" default:"https://api.binance.com/api/v3" validate:"omitempty,url"`
		Timeout  int    `yaml:"timeout_seconds" default:"15" validate:"gte=1"`
	} `yaml:"data_source"`
	Schedule struct {
		Cron        string `yaml:"cron" default:"0 0 */4 * * *" validate:"required"`
		RunOnStart  bool   `yaml:"run_on_start"`
		Parallelism int    `yaml:"parallelism" default:"2" validate:"gte=1"`
	} `yaml:"schedule"`
	Server struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Addr    string `yaml:"addr" default:":8080" validate:"required"`
	} `yaml:"server"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path" default:"data/crypto_sentinel.db"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

var validate = validator.New()

// Default returns the configuration with every default applied.
func Default() (*Config, error) {
	cfg := &Config{}
	cfg.Indicators = calculator.DefaultParams()
	cfg.Risk = strategy.DefaultRiskParams()
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if len(cfg.Trading.Symbols) == 0 {
		cfg.Trading.Symbols = []string{"BTCUSDT"}
	}
	return cfg, nil
}

// Load reads config from a YAML file over the defaults, then applies
// environment variable overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TRADING_SYMBOLS"); v != "" {
		var symbols []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				symbols = append(symbols, strings.ToUpper(s))
			}
		}
		cfg.Trading.Symbols = symbols
	}
	if v := os.Getenv("TRADING_INTERVAL"); v != "" {
		cfg.Trading.Interval = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("BINANCE_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_SCHEDULE"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("RUN_ON_START"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Schedule.RunOnStart = b
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// Validate checks field constraints and cross-field rules.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), ruleOf(fe)))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.DataSource.Provider == "binance" && c.DataSource.BaseURL == "" {
		return errors.New("invalid config: data_source.base_url is required for the binance provider")
	}
	return nil
}

func ruleOf(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}
