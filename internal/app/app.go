package app

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stevensoneremeh/eriggalive-auth/internal/config"
	httpx "github.com/stevensoneremeh/eriggalive-auth/internal/http"
	"github.com/stevensoneremeh/eriggalive-auth/internal/http/handlers"
	"github.com/stevensoneremeh/eriggalive-auth/internal/http/middleware"
)

// Run wires the service and blocks serving HTTP.
func Run(cfg *config.Config) error {
	gin.SetMode(cfg.GinMode)

	c, err := NewContainer(cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.RedisClient.Ping(context.Background()).Err(); err != nil {
		return err
	}

	authH := handlers.NewAuthHandlers(c.AuthSvc)
	jwtMW := middleware.NewAuthMW(c.TokenSvc, c.AuthSvc)

	r := httpx.BuildRouter(authH, jwtMW)

	addr := ":" + cfg.Port
	c.Logger.Info("listening", slog.String("addr", addr))
	return http.ListenAndServe(addr, r)
}
