package router // package router defines how HTTP routes are registered

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/bazarnik/admin-gateway/internal/config"
	"github.com/bazarnik/admin-gateway/internal/handler"
	"github.com/bazarnik/admin-gateway/internal/locale"
	"github.com/bazarnik/admin-gateway/internal/logger"
	"github.com/bazarnik/admin-gateway/internal/middleware"
	"github.com/bazarnik/admin-gateway/internal/proxy"
	"github.com/bazarnik/admin-gateway/internal/session"
)

// Register wires the full URL space.  Middleware order is load-bearing: the
// locale resolver runs before routing (e.Pre) so every guard and handler sees
// a canonical, supported locale; guards run before their handlers; a redirect
// from either step short-circuits rendering.
func Register(
	e *echo.Echo,
	cfg config.Config,
	rlCfg config.RateLimitConfig,
	set *locale.Set,
	store session.Store,
	auth *handler.AuthHandler,
	storeAPI *proxy.StoreAPI,
	rdb *redis.Client,
	log *slog.Logger,
) {
	e.Pre(middleware.LocaleResolver(set))

	// Health lives outside the localized URL space.
	e.GET("/healthz", handler.Health)

	// Guest-only routes: an established session is bounced to the app.
	gate := middleware.GuestGate(cfg.SessionSecret, store, logger.WithComponent(log, "guest_gate"))
	e.GET("/:locale/login", auth.LoginPage, gate)
	e.POST("/:locale/login", auth.Login, gate, middleware.LoginRateLimit(rlCfg, rdb))

	// Logout works with or without a live session.
	e.POST("/:locale/logout", auth.Logout)

	// Protected routes: everything under /:locale/app requires a session.
	app := e.Group("/:locale/app", middleware.SessionGuard(cfg.SessionSecret, store))
	app.GET("", auth.Dashboard)
	app.Any("/api/*", storeAPI.Handle)
}
