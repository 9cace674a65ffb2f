package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	AnalysisAPI AnalysisAPIConfig
	Upload      UploadConfig
	Session     SessionConfig
	Report      ReportConfig
	Worker      WorkerConfig
}

type AppConfig struct {
	AppName       string
	Environment   string
	HTTPPort      string
	MigrationsDir string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

// Enabled reports whether a database host was configured. Analysis history
// falls back to the remote backend only when it is not.
func (d DatabaseConfig) Enabled() bool {
	return strings.TrimSpace(d.DBHost) != ""
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	TTL      time.Duration
}

type JWTConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}

type AnalysisAPIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type UploadConfig struct {
	MaxBytes     int64
	StepInterval time.Duration
}

type SessionConfig struct {
	TTL        time.Duration
	PendingTTL time.Duration
	CookieName string
	Secure     bool
}

type ReportConfig struct {
	Enabled bool
	Timeout time.Duration
}

type WorkerConfig struct {
	Workers   int
	Buffer    int
	RateLimit int
}

const (
	defaultAnalysisAPIURL = "http://localhost:8080"
	defaultUploadMaxBytes = 10 << 20
)

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variables")
)

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	var invalid []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}
	optDefault := func(key, def string) string {
		if v := opt(key); v != "" {
			return v
		}
		return def
	}
	dur := func(key string, def time.Duration) time.Duration {
		raw := opt(key)
		if raw == "" {
			return def
		}
		d, err := ParseDuration(raw)
		if err != nil || d < 0 {
			invalid = append(invalid, key)
			return def
		}
		return d
	}
	integer := func(key string, def int64) int64 {
		raw := opt(key)
		if raw == "" {
			return def
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 0 {
			invalid = append(invalid, key)
			return def
		}
		return v
	}
	boolean := func(key string, def bool) bool {
		raw := opt(key)
		if raw == "" {
			return def
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return v
	}

	cfg.App = AppConfig{
		AppName:       req("APP_NAME"),
		Environment:   req("APP_ENV"),
		HTTPPort:      req("HTTP_PORT"),
		MigrationsDir: optDefault("MIGRATIONS_DIR", "migrations"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     opt("DB_HOST"),
		DBPort:     optDefault("DB_PORT", "5432"),
		DBName:     opt("DB_NAME"),
		DBUser:     opt("DB_USER"),
		DBPassword: opt("DB_PASSWORD"),
		DBSSLMode:  optDefault("DB_SSL_MODE", "disable"),

		ConnectTimeout:        dur("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:          int32(integer("DB_POOL_MAX_CONNS", 10)),
		PoolMinConns:          int32(integer("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime:   dur("DB_POOL_MAX_CONN_LIFETIME", time.Hour),
		PoolMaxConnIdleTime:   dur("DB_POOL_MAX_CONN_IDLE_TIME", 30*time.Minute),
		PoolHealthCheckPeriod: dur("DB_POOL_HEALTH_CHECK_PERIOD", time.Minute),
	}

	cfg.Redis = RedisConfig{
		Host:     optDefault("REDIS_HOST", "localhost"),
		Port:     optDefault("REDIS_PORT", "6379"),
		Password: opt("REDIS_PASSWORD"),
		TTL:      dur("REDIS_TTL", 600*time.Second),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:     req("JWT_ACCESS_SECRET"),
		RefreshSecret:    req("JWT_REFRESH_SECRET"),
		AccessExpiresIn:  dur("JWT_ACCESS_EXPIRES_IN", 15*time.Minute),
		RefreshExpiresIn: dur("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour),
	}

	cfg.AnalysisAPI = AnalysisAPIConfig{
		BaseURL: optDefault("ANALYSIS_API_URL", defaultAnalysisAPIURL),
		Timeout: dur("ANALYSIS_API_TIMEOUT", 60*time.Second),
	}

	cfg.Upload = UploadConfig{
		MaxBytes:     integer("UPLOAD_MAX_BYTES", defaultUploadMaxBytes),
		StepInterval: dur("UPLOAD_STEP_INTERVAL", 1500*time.Millisecond),
	}

	cfg.Session = SessionConfig{
		TTL:        dur("SESSION_TTL", 7*24*time.Hour),
		PendingTTL: dur("PENDING_UPLOAD_TTL", 24*time.Hour),
		CookieName: optDefault("ANON_COOKIE_NAME", "anon_sid"),
		Secure:     boolean("COOKIE_SECURE", false),
	}

	cfg.Report = ReportConfig{
		Enabled: boolean("REPORT_ENABLED", true),
		Timeout: dur("REPORT_TIMEOUT", 30*time.Second),
	}

	cfg.Worker = WorkerConfig{
		Workers:   int(integer("WORKER_COUNT", 2)),
		Buffer:    int(integer("WORKER_BUFFER", 64)),
		RateLimit: int(integer("WORKER_RATE_LIMIT", 0)),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// ParseDuration accepts Go duration strings ("90s", "15m") or a bare number
// of seconds.
func ParseDuration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("empty duration")
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(raw)
}
