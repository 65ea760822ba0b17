package app

import (
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/stevensoneremeh/eriggalive-auth/domain"
	"github.com/stevensoneremeh/eriggalive-auth/internal/config"
	"github.com/stevensoneremeh/eriggalive-auth/internal/infrastructure/auth"
	"github.com/stevensoneremeh/eriggalive-auth/internal/infrastructure/database"
	"github.com/stevensoneremeh/eriggalive-auth/internal/infrastructure/ratelimit"
	"github.com/stevensoneremeh/eriggalive-auth/internal/infrastructure/repositories"
	"github.com/stevensoneremeh/eriggalive-auth/internal/services"
)

// Container holds all dependencies
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	DB          *gorm.DB
	RedisClient *redis.Client

	UserRepo    domain.UserRepository
	SessionRepo domain.SessionRepository
	AuditRepo   domain.AuditRepository

	PasswordSvc domain.PasswordService
	TokenSvc    domain.TokenService
	Audit       domain.AuditLogger
	RateLimiter domain.RateLimiter
	AuthSvc     domain.AuthService
}

// NewContainer creates and initializes all dependencies
func NewContainer(cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
		Logger: newLogger(cfg.LogLevel),
	}

	if err := container.initDatabase(); err != nil {
		return nil, err
	}
	if err := container.initRedis(); err != nil {
		return nil, err
	}

	container.initRepositories()
	container.initServices()

	return container, nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func (c *Container) initDatabase() error {
	db, err := database.Open(c.Config.DSN)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	c.DB = db
	return nil
}

func (c *Container) initRedis() error {
	c.RedisClient = database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB).Client
	return nil
}

func (c *Container) initRepositories() {
	c.UserRepo = repositories.NewUserRepository(c.DB)
	c.SessionRepo = repositories.NewSessionRepository(c.RedisClient)
	c.AuditRepo = repositories.NewAuditRepository(c.DB)
}

func (c *Container) initServices() {
	c.PasswordSvc = auth.NewPasswordService(c.Config.BcryptCost)
	c.TokenSvc = auth.NewJWTService(
		c.Config.JWTSecret,
		c.Config.JWTIssuer,
		c.Config.JWTAudience,
		c.Config.AccessTTL,
		c.Config.RefreshTTL,
	)
	c.Audit = services.NewAuditLogger(c.AuditRepo, c.Logger)
	c.RateLimiter = ratelimit.NewRedisLimiter(c.RedisClient)

	c.AuthSvc = services.NewAuthService(
		c.UserRepo,
		c.SessionRepo,
		c.AuditRepo,
		c.Audit,
		c.RateLimiter,
		c.PasswordSvc,
		c.TokenSvc,
		services.AuthConfig{
			AccessTTL:             c.Config.AccessTTL,
			RotateRefresh:         c.Config.RotateRefresh,
			MaxConcurrentSessions: c.Config.MaxConcurrentSessions,
			SessionDuration:       c.Config.SessionDuration,
			RememberMeDuration:    c.Config.RememberMeDuration,
			MaxLoginAttempts:      c.Config.MaxLoginAttempts,
			LockoutWindow:         c.Config.LockoutWindow,
			LockoutDuration:       c.Config.LockoutDuration,
			LoginIPMax:            c.Config.LoginIPMax,
			LoginIPWindow:         c.Config.LoginIPWindow,
			LoginEmailMax:         c.Config.LoginEmailMax,
			LoginEmailWindow:      c.Config.LoginEmailWindow,
			RegisterIPMax:         c.Config.RegisterIPMax,
			RegisterIPWindow:      c.Config.RegisterIPWindow,
			WelcomeBonus:          c.Config.WelcomeBonus,
		},
	)
}

// Close closes all connections
func (c *Container) Close() error {
	if c.RedisClient != nil {
		c.RedisClient.Close()
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return nil
}
