package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Upstream UpstreamConfig `koanf:"upstream"`
	Trend    TrendConfig    `koanf:"trend"`
	Log      LogConfig      `koanf:"log"`
	Database DatabaseConfig `koanf:"database"`
	Auth     AuthConfig     `koanf:"auth"`
}

type ServerConfig struct {
	Addr           string        `koanf:"addr"`
	ReadTimeout    time.Duration `koanf:"read_timeout"`
	WriteTimeout   time.Duration `koanf:"write_timeout"`
	IdleTimeout    time.Duration `koanf:"idle_timeout"`
	CORSOrigins    string        `koanf:"cors_origins"` // comma separated
	RateLimitRPS   float64       `koanf:"rate_limit_rps"`
	RateLimitBurst int           `koanf:"rate_limit_burst"`
	MaxBodyBytes   int64         `koanf:"max_body_bytes"`
	EnableHSTS     bool          `koanf:"enable_hsts"`
	TrustProxy     bool          `koanf:"trust_proxy"` // honour X-Forwarded-For
}

// UpstreamConfig points at the library loan statistics API (data4library.kr).
type UpstreamConfig struct {
	BaseURL        string        `koanf:"base_url"`
	AuthKey        string        `koanf:"auth_key"`
	UserAgent      string        `koanf:"user_agent"`
	RPS            int           `koanf:"rps"`
	Timeout        time.Duration `koanf:"timeout"`
	BreakerEnabled bool          `koanf:"breaker_enabled"`
}

// TrendConfig holds the aggregation policy. The defaults reproduce the
// production arithmetic and should only change together with the product.
type TrendConfig struct {
	Timezone             string        `koanf:"timezone"`
	NewReleaseYearOffset int           `koanf:"new_release_year_offset"`
	UnpublishedWeekdays  string        `koanf:"unpublished_weekdays"` // comma separated weekday names
	PeriodPageSize       int           `koanf:"period_page_size"`
	NewReleasePageSize   int           `koanf:"new_release_page_size"`
	RecommendMin         int           `koanf:"recommend_min"`
	FetchTimeout         time.Duration `koanf:"fetch_timeout"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type DatabaseConfig struct {
	DSN           string        `koanf:"dsn"`
	QueryTimeout  time.Duration `koanf:"query_timeout"`
	MigrationsDir string        `koanf:"migrations_dir"`
}

type AuthConfig struct {
	JWTSecret string `koanf:"jwt_secret"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           ":8080",
			ReadTimeout:    5 * time.Second,
			WriteTimeout:   30 * time.Second,
			IdleTimeout:    60 * time.Second,
			RateLimitRPS:   10,
			RateLimitBurst: 20,
			MaxBodyBytes:   1 << 20,
		},
		Upstream: UpstreamConfig{
			BaseURL:        "http://data4library.kr/api",
			UserAgent:      "booktrend/1.0",
			RPS:            5,
			Timeout:        20 * time.Second,
			BreakerEnabled: true,
		},
		Trend: TrendConfig{
			Timezone:             "Asia/Seoul",
			NewReleaseYearOffset: 2,
			UnpublishedWeekdays:  "monday,tuesday",
			PeriodPageSize:       300,
			NewReleasePageSize:   1200,
			RecommendMin:         10,
			FetchTimeout:         15 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Database: DatabaseConfig{
			QueryTimeout:  3 * time.Second,
			MigrationsDir: "db/migrations",
		},
	}
}

// envKeys maps environment variable names to koanf paths. Variables not
// listed here are ignored.
var envKeys = map[string]string{
	"APP_ADDR":                      "server.addr",
	"SERVER_READ_TIMEOUT":           "server.read_timeout",
	"SERVER_WRITE_TIMEOUT":          "server.write_timeout",
	"SERVER_IDLE_TIMEOUT":           "server.idle_timeout",
	"CORS_ALLOWED_ORIGINS":          "server.cors_origins",
	"RATE_LIMIT_RPS":                "server.rate_limit_rps",
	"RATE_LIMIT_BURST":              "server.rate_limit_burst",
	"MAX_BODY_BYTES":                "server.max_body_bytes",
	"ENABLE_HSTS":                   "server.enable_hsts",
	"TRUST_PROXY":                   "server.trust_proxy",
	"UPSTREAM_BASE_URL":             "upstream.base_url",
	"UPSTREAM_AUTH_KEY":             "upstream.auth_key",
	"UPSTREAM_USER_AGENT":           "upstream.user_agent",
	"UPSTREAM_RPS":                  "upstream.rps",
	"UPSTREAM_TIMEOUT":              "upstream.timeout",
	"UPSTREAM_BREAKER_ENABLED":      "upstream.breaker_enabled",
	"TREND_TIMEZONE":                "trend.timezone",
	"TREND_NEW_RELEASE_YEAR_OFFSET": "trend.new_release_year_offset",
	"TREND_UNPUBLISHED_WEEKDAYS":    "trend.unpublished_weekdays",
	"TREND_PERIOD_PAGE_SIZE":        "trend.period_page_size",
	"TREND_NEW_RELEASE_PAGE_SIZE":   "trend.new_release_page_size",
	"TREND_RECOMMEND_MIN":           "trend.recommend_min",
	"TREND_FETCH_TIMEOUT":           "trend.fetch_timeout",
	"LOG_LEVEL":                     "log.level",
	"LOG_FORMAT":                    "log.format",
	"DB_DSN":                        "database.dsn",
	"DB_QUERY_TIMEOUT":              "database.query_timeout",
	"MIGRATIONS_DIR":                "database.migrations_dir",
	"JWT_SECRET":                    "auth.jwt_secret",
}

func envTransformFunc(key string) string {
	return envKeys[key]
}

// Load reads .env files, then layers struct defaults under environment
// variables. Variables already present in the process environment win over
// the files.
func Load() (*Config, error) {
	loadEnvFiles()

	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func loadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

func (c *Config) Validate() error {
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("upstream base url is required")
	}
	if c.Upstream.RPS <= 0 {
		return fmt.Errorf("upstream rps must be positive, got %d", c.Upstream.RPS)
	}
	if c.Trend.PeriodPageSize <= 0 || c.Trend.NewReleasePageSize <= 0 {
		return fmt.Errorf("trend page sizes must be positive")
	}
	if c.Trend.NewReleaseYearOffset < 0 {
		return fmt.Errorf("new release year offset must not be negative")
	}
	if c.Trend.FetchTimeout <= 0 {
		return fmt.Errorf("trend fetch timeout must be positive")
	}
	if _, err := c.Trend.Location(); err != nil {
		return err
	}
	if _, err := c.Trend.Weekdays(); err != nil {
		return err
	}
	return nil
}

// Location resolves the calendar the trend windows are computed in.
func (t TrendConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid trend timezone %q: %w", t.Timezone, err)
	}
	return loc, nil
}

// Weekdays parses UnpublishedWeekdays.
func (t TrendConfig) Weekdays() ([]time.Weekday, error) {
	var days []time.Weekday
	for _, name := range SplitList(t.UnpublishedWeekdays) {
		day, ok := weekdayNames[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("invalid weekday %q", name)
		}
		days = append(days, day)
	}
	return days, nil
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// SplitList splits a comma separated setting, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
