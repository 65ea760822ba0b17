package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port     int    `yaml:"port"`
	GinMode  string `yaml:"gin_mode"`
	LogLevel string `yaml:"log_level"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret        string `yaml:"secret"`
	Issuer        string `yaml:"issuer"`
	Audience      string `yaml:"audience"`
	AccessTTL     string `yaml:"access_ttl"`
	RefreshTTL    string `yaml:"refresh_ttl"`
	RotateRefresh bool   `yaml:"rotate_refresh"`
}

type SessionConfig struct {
	MaxConcurrent      int    `yaml:"max_concurrent"`
	Duration           string `yaml:"duration"`
	RememberMeDuration string `yaml:"remember_me_duration"`
}

type LockoutConfig struct {
	MaxAttempts int    `yaml:"max_attempts"`
	Window      string `yaml:"window"`
	Duration    string `yaml:"duration"`
}

type RateLimitConfig struct {
	LoginIPMax       int    `yaml:"login_ip_max"`
	LoginIPWindow    string `yaml:"login_ip_window"`
	LoginEmailMax    int    `yaml:"login_email_max"`
	LoginEmailWindow string `yaml:"login_email_window"`
	RegisterIPMax    int    `yaml:"register_ip_max"`
	RegisterIPWindow string `yaml:"register_ip_window"`
}

type SecurityConfig struct {
	BcryptCost   int   `yaml:"bcrypt_cost"`
	WelcomeBonus int64 `yaml:"welcome_bonus"`
}

type ConfigFile struct {
	App       AppConfig       `yaml:"app"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	JWT       JWTConfig       `yaml:"jwt"`
	Session   SessionConfig   `yaml:"session"`
	Lockout   LockoutConfig   `yaml:"lockout"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Security  SecurityConfig  `yaml:"security"`
}

// Config is the resolved runtime configuration. It is built once at startup,
// validated eagerly, and passed explicitly into constructors.
type Config struct {
	Port     string
	GinMode  string
	LogLevel string

	DSN           string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret     string
	JWTIssuer     string
	JWTAudience   string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	RotateRefresh bool

	MaxConcurrentSessions int
	SessionDuration       time.Duration
	RememberMeDuration    time.Duration

	MaxLoginAttempts int
	LockoutWindow    time.Duration
	LockoutDuration  time.Duration

	LoginIPMax       int
	LoginIPWindow    time.Duration
	LoginEmailMax    int
	LoginEmailWindow time.Duration
	RegisterIPMax    int
	RegisterIPWindow time.Duration

	BcryptCost   int
	WelcomeBonus int64
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Load reads the YAML config file (path from CONFIG_PATH, default
// config/config.yml), applies environment overrides for deployment secrets,
// fills defaults and validates. Missing JWT secret is a startup failure.
func Load() (*Config, error) {
	path := env("CONFIG_PATH", "config/config.yml")
	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	return resolve(configFile)
}

func resolve(cf *ConfigFile) (*Config, error) {
	secret := env("JWT_SECRET", cf.JWT.Secret)
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is required (set jwt.secret or JWT_SECRET)")
	}

	accessTTL, err := duration(cf.JWT.AccessTTL, 15*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid jwt access TTL: %w", err)
	}
	refreshTTL, err := duration(cf.JWT.RefreshTTL, 7*24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid jwt refresh TTL: %w", err)
	}
	sessionDur, err := duration(cf.Session.Duration, 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid session duration: %w", err)
	}
	rememberDur, err := duration(cf.Session.RememberMeDuration, 30*24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid remember-me duration: %w", err)
	}
	lockWindow, err := duration(cf.Lockout.Window, 15*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid lockout window: %w", err)
	}
	lockDur, err := duration(cf.Lockout.Duration, 30*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid lockout duration: %w", err)
	}
	loginIPWindow, err := duration(cf.RateLimit.LoginIPWindow, 15*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid login IP window: %w", err)
	}
	loginEmailWindow, err := duration(cf.RateLimit.LoginEmailWindow, 15*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid login email window: %w", err)
	}
	registerIPWindow, err := duration(cf.RateLimit.RegisterIPWindow, time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid register IP window: %w", err)
	}

	cfg := &Config{
		Port:     fmt.Sprintf("%d", intDefault(cf.App.Port, 8080)),
		GinMode:  strDefault(cf.App.GinMode, "release"),
		LogLevel: strDefault(cf.App.LogLevel, "info"),

		DSN:           env("DATABASE_DSN", cf.Database.DSN),
		RedisAddr:     env("REDIS_ADDR", strDefault(cf.Redis.Addr, "localhost:6379")),
		RedisPassword: env("REDIS_PASSWORD", cf.Redis.Password),
		RedisDB:       cf.Redis.DB,

		JWTSecret:     secret,
		JWTIssuer:     strDefault(cf.JWT.Issuer, "eriggalive"),
		JWTAudience:   strDefault(cf.JWT.Audience, "eriggalive-app"),
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
		RotateRefresh: cf.JWT.RotateRefresh,

		MaxConcurrentSessions: intDefault(cf.Session.MaxConcurrent, 3),
		SessionDuration:       sessionDur,
		RememberMeDuration:    rememberDur,

		MaxLoginAttempts: intDefault(cf.Lockout.MaxAttempts, 5),
		LockoutWindow:    lockWindow,
		LockoutDuration:  lockDur,

		LoginIPMax:       intDefault(cf.RateLimit.LoginIPMax, 10),
		LoginIPWindow:    loginIPWindow,
		LoginEmailMax:    intDefault(cf.RateLimit.LoginEmailMax, 5),
		LoginEmailWindow: loginEmailWindow,
		RegisterIPMax:    intDefault(cf.RateLimit.RegisterIPMax, 3),
		RegisterIPWindow: registerIPWindow,

		BcryptCost:   intDefault(cf.Security.BcryptCost, 12),
		WelcomeBonus: int64Default(cf.Security.WelcomeBonus, 500),
	}

	if cfg.DSN == "" {
		return nil, fmt.Errorf("database DSN is required (set database.dsn or DATABASE_DSN)")
	}
	if cfg.MaxConcurrentSessions < 1 {
		return nil, fmt.Errorf("session.max_concurrent must be at least 1")
	}
	if cfg.MaxLoginAttempts < 1 {
		return nil, fmt.Errorf("lockout.max_attempts must be at least 1")
	}

	return cfg, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}

func duration(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	return time.ParseDuration(s)
}

func strDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func intDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func int64Default(v, def int64) int64 {
	if v == 0 {
		return def
	}
	return v
}
