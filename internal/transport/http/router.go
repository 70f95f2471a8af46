package httptransport

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/tinylink-dev/tinylink/internal/transport/http/handler"
	"github.com/tinylink-dev/tinylink/internal/transport/http/middleware"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(logger *slog.Logger, authHandler *handler.AuthHandler, urlHandler *handler.ShortURLHandler, tokens middleware.TokenVerifier) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	// Optional bearer extraction on every route; individual routes
	// decide whether identity is mandatory.
	r.Use(middleware.Auth(tokens))

	r.POST("/signup", authHandler.Signup)
	r.POST("/login", authHandler.Login)

	requireUser := middleware.RequireUser()
	r.POST("/shorten", requireUser, urlHandler.Shorten)
	r.GET("/codes", requireUser, urlHandler.List)
	r.DELETE("/:id", requireUser, urlHandler.Delete)

	// Public redirect; must come after /codes so the static route wins.
	r.GET("/:shortcode", urlHandler.Redirect)

	return r
}
