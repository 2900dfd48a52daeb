package config

import (
	"errors"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
	"hermannm.dev/enumnames"
	"hermannm.dev/wrap"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	HTTPPort        string        `env:"HTTP_PORT" envDefault:":8080"`
	AppMode         string        `env:"APP_MODE" envDefault:"dev"`
	FiberPrefork    bool          `env:"FIBER_PREFORK" envDefault:"false"`
	DataSource      DataSource    `env:"DATA_SOURCE" envDefault:"mock"`
	MockLatency     time.Duration `env:"MOCK_LATENCY" envDefault:"1s"`
	FetchTimeout    time.Duration `env:"FETCH_TIMEOUT" envDefault:"10s"`
	FilterDebounce  time.Duration `env:"FILTER_DEBOUNCE" envDefault:"300ms"`
	TopQueriesLimit int           `env:"TOP_QUERIES_LIMIT" envDefault:"20"`
	MaxRangeDays    int           `env:"MAX_RANGE_DAYS" envDefault:"366"`

	WorkerBufferSize int           `env:"WORKER_BUFFER_SIZE" envDefault:"10000"`
	WorkerBatchSize  int           `env:"WORKER_BATCH_SIZE" envDefault:"1000"`
	WorkerFlushEvery time.Duration `env:"WORKER_FLUSH_EVERY" envDefault:"1s"`
	FutureTolerance  time.Duration `env:"FUTURE_TOLERANCE" envDefault:"5m"`

	ClickHouse ClickHouseConfig `envPrefix:"CLICKHOUSE_"`
	Breaker    BreakerConfig    `envPrefix:"BREAKER_"`
}

type ClickHouseConfig struct {
	Addr     string `env:"ADDR"`
	Database string `env:"DATABASE" envDefault:"default"`
	Username string `env:"USERNAME" envDefault:"default"`
	Password string `env:"PASSWORD"`
	Debug    bool   `env:"DEBUG" envDefault:"false"`
}

// BreakerConfig tunes the circuit breaker around the ClickHouse source.
type BreakerConfig struct {
	FailureThreshold uint32        `env:"FAILURE_THRESHOLD" envDefault:"5"`
	Timeout          time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

type DataSource string

const (
	DataSourceMock       DataSource = "mock"
	DataSourceClickHouse DataSource = "clickhouse"
)

var dataSourceNames = enumnames.NewMap(map[DataSource]string{
	DataSourceMock:       "mock",
	DataSourceClickHouse: "clickhouse",
})

func (source DataSource) IsValid() bool {
	return dataSourceNames.GetNameOrFallback(source, "") != ""
}

// Load reads configuration from environment variables with sane defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, wrap.Error(err, "failed to parse environment")
	}

	cfg.AppMode = strings.ToLower(cfg.AppMode)
	cfg.DataSource = DataSource(strings.ToLower(string(cfg.DataSource)))

	if err := cfg.validate(); err != nil {
		return nil, wrap.Error(err, "invalid configuration")
	}
	return &cfg, nil
}

// IsProduction reports whether logs should be emitted as JSON.
func (cfg *Config) IsProduction() bool {
	return cfg.AppMode == "prod" || cfg.AppMode == "production"
}

func (cfg *Config) validate() error {
	var errs []error

	if !cfg.DataSource.IsValid() {
		errs = append(errs, errors.New("DATA_SOURCE must be one of: 'mock', 'clickhouse'"))
	}
	if cfg.DataSource == DataSourceClickHouse && cfg.ClickHouse.Addr == "" {
		errs = append(errs, errors.New("CLICKHOUSE_ADDR is required when DATA_SOURCE=clickhouse"))
	}
	if cfg.TopQueriesLimit <= 0 {
		errs = append(errs, errors.New("TOP_QUERIES_LIMIT must be positive"))
	}
	if cfg.MaxRangeDays <= 0 {
		errs = append(errs, errors.New("MAX_RANGE_DAYS must be positive"))
	}
	// Each preforked child would hold its own dashboard session.
	if cfg.FiberPrefork {
		errs = append(errs, errors.New("FIBER_PREFORK is not supported while the dashboard is served from process memory"))
	}
	if cfg.FilterDebounce < 0 {
		errs = append(errs, errors.New("FILTER_DEBOUNCE cannot be negative"))
	}
	if cfg.WorkerBatchSize <= 0 || cfg.WorkerBufferSize <= 0 {
		errs = append(errs, errors.New("WORKER_BATCH_SIZE and WORKER_BUFFER_SIZE must be positive"))
	}

	if len(errs) != 0 {
		return wrap.Errors("invalid environment variables", errs...)
	}
	return nil
}
