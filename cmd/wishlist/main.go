package main

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"log/slog"

	"github.com/vbonduro/wishlist/internal/auth"
	"github.com/vbonduro/wishlist/internal/config"
	"github.com/vbonduro/wishlist/internal/db"
	"github.com/vbonduro/wishlist/internal/logging"
	"github.com/vbonduro/wishlist/internal/photostore/local"
	"github.com/vbonduro/wishlist/internal/service"
	"github.com/vbonduro/wishlist/internal/store"
	"github.com/vbonduro/wishlist/internal/web"
	"github.com/vbonduro/wishlist/internal/web/templates"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	database, err := db.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		logger.Error("failed to open database", "driver", cfg.DBDriver, "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	photoStg, err := local.NewLocalPhotoStore(cfg.PhotoPath)
	if err != nil {
		logger.Error("failed to initialize photo store", "error", err)
		return
	}

	placeService := service.NewPlaceService(store.NewPlaceStore(database), photoStg, logger)
	accountService, err := service.NewAccountService(store.NewUserStore(database), cfg.BcryptCost, logger)
	if err != nil {
		logger.Error("failed to initialize account service", "error", err)
		return
	}

	secret, err := sessionSecret(cfg, logger)
	if err != nil {
		logger.Error("failed to generate session secret", "error", err)
		return
	}
	sessions := auth.NewSessions(auth.NewTokenManager(secret, cfg.SessionTTL), cfg.SecureCookies)

	server := web.NewServer(placeService, accountService, sessions, templates.FS, cfg.MaxPhotoBytes, logger)
	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}

// sessionSecret returns the configured signing secret or, when none is set,
// a random one. Sessions signed with a random secret end at restart.
func sessionSecret(cfg *config.Config, logger *slog.Logger) (string, error) {
	if cfg.SessionSecret != "" {
		return cfg.SessionSecret, nil
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	logger.Warn("SESSION_SECRET is not set; using a random secret, sessions will not survive a restart")
	return hex.EncodeToString(buf), nil
}
