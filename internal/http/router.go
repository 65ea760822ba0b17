package httpx

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stevensoneremeh/eriggalive-auth/internal/http/handlers"
	"github.com/stevensoneremeh/eriggalive-auth/internal/http/middleware"
)

func BuildRouter(ah *handlers.AuthHandlers, jwtmw *middleware.AuthMW) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Metrics())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := r.Group("/auth")
	auth.POST("/register", ah.Register)
	auth.POST("/login", ah.Login)
	auth.POST("/refresh", ah.Refresh)

	v := r.Group("/auth").Use(jwtmw.WithJWT())
	v.GET("/me", ah.Me)
	v.POST("/logout", ah.Logout)
	v.GET("/sessions", ah.Sessions)
	v.DELETE("/sessions/:token", ah.RevokeSession)

	return r
}
