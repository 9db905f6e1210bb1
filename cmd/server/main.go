package main // Entry point package

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/bazarnik/admin-gateway/internal/config"
	"github.com/bazarnik/admin-gateway/internal/handler"
	"github.com/bazarnik/admin-gateway/internal/identity"
	"github.com/bazarnik/admin-gateway/internal/locale"
	"github.com/bazarnik/admin-gateway/internal/logger"
	"github.com/bazarnik/admin-gateway/internal/proxy"
	"github.com/bazarnik/admin-gateway/internal/router"
	"github.com/bazarnik/admin-gateway/internal/session"
)

func main() {
	_ = godotenv.Load() // optional .env for local development
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.Env)

	set, err := locale.NewSet(cfg.Locales, cfg.DefaultLocale)
	if err != nil {
		log.Error("invalid locale configuration", "error", err)
		os.Exit(1)
	}

	// The session store is the one hard runtime dependency; the rate
	// limiter shares the client and degrades on its own when needed.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Error("redis unavailable, session store cannot start")
		os.Exit(1)
	}
	store := session.NewRedisStore(rdb, cfg.SessionTTL)

	idc := identity.NewClient(cfg.IdentityURL, cfg.IdentityAPIKey, cfg.IdentityTimeout, cfg.MinPasswordLen)
	auth := handler.NewAuthHandler(cfg, idc, store, logger.WithComponent(log, "auth"))

	storeAPI, err := proxy.New(cfg.StoreAPIURL, cfg.StoreAPIKey, logger.WithComponent(log, "proxy"))
	if err != nil {
		log.Error("invalid store API configuration", "error", err)
		os.Exit(1)
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, config.LoadRateLimitConfig(), set, store, auth, storeAPI, rdb, log)

	addr := ":" + cfg.Port
	log.Info("listening", "addr", addr, "env", cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
