package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/geoexplorer/core/internal/config"
	"github.com/geoexplorer/core/internal/database"
	"github.com/geoexplorer/core/internal/middleware"
	"github.com/geoexplorer/core/internal/modules/classifier"
	"github.com/geoexplorer/core/internal/modules/gateway"
	"github.com/geoexplorer/core/internal/modules/search"
	pkgcron "github.com/geoexplorer/core/internal/pkg/cron"
	jwtpkg "github.com/geoexplorer/core/internal/pkg/jwt"
	pkgredis "github.com/geoexplorer/core/internal/pkg/redis"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	db     *gorm.DB
	logger *zap.Logger
	cancel context.CancelFunc
	sched  *pkgcron.Scheduler
}

// New initializes the application: config → DB → Redis → routes → cron.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	if secret := strings.TrimSpace(cfg.JWTSecret); secret != "" {
		jwtpkg.SetSecret(secret)
	} else {
		logger.Warn("jwt_secret is empty, using built-in default secret")
	}

	db, err := database.Connect(cfg.DSN, cfg.IsDev())
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	rc, err := pkgredis.Connect(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(cors.New(corsConfig(cfg)))

	gatewaySvc := gateway.NewService(cfg.OpenAI, logger.Named("gateway"))
	classifierSvc := classifier.NewService(cfg.Classifier)
	searchSvc := search.NewService(db, gatewaySvc, classifierSvc, logger.Named("search"))

	ctx, cancel := context.WithCancel(context.Background())
	sched := pkgcron.New()
	registerCronJobs(sched, searchSvc, cfg, logger.Named("cron"))
	go sched.Start(ctx)

	app := &App{cfg: cfg, router: router, db: db, logger: logger, cancel: cancel, sched: sched}
	app.registerRoutes(rc, searchSvc)

	return app, nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown cleans up background goroutines.
func (a *App) Shutdown() { a.cancel() }
