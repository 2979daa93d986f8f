package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/dartpulse/config"
	"github.com/guttosm/dartpulse/internal/api"
	"github.com/guttosm/dartpulse/internal/service"
	"github.com/guttosm/dartpulse/internal/storage"
)

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Connects to PostgreSQL and applies migrations (OpenStore).
//   - Wires repository -> lookup service -> handler -> router.
//   - Registers health and readiness probes.
//   - Provides a cleanup function that closes the DB pool.
func InitializeApp(cfg config.Config) (*gin.Engine, func(), error) {
	db, err := OpenStore(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	repo := storage.NewDisclosureRepository(db)
	svc := service.NewLookupService(repo)
	router := api.NewRouter(api.NewHandler(svc))
	api.NewHealthHandler(db.PingContext).Register(router)

	cleanup := func() {
		_ = db.Close()
	}

	return router, cleanup, nil
}
