package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/locvowork/excel_intelligence/internal/config"
	"github.com/locvowork/excel_intelligence/internal/handler"
	"github.com/locvowork/excel_intelligence/internal/logger"
	"github.com/locvowork/excel_intelligence/internal/service"
	"github.com/locvowork/excel_intelligence/internal/session"
)

// pruneInterval is how often idle sessions are looked for.
const pruneInterval = time.Minute

type App struct {
	Echo  *echo.Echo
	Store *session.Store
	// ViewConfigPath overrides VIEW_CONFIG_PATH when set.
	ViewConfigPath string

	stopPruning context.CancelFunc
}

func NewApp() *App {
	return &App{
		Echo: echo.New(),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	// Load environment configuration
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}
	env := config.DefaultEnvConfig

	// Initialize logging
	logger.InitLogging(env.LOG_FILE_PATH, env.LOG_LEVEL)
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	viewPath := env.VIEW_CONFIG_PATH
	if a.ViewConfigPath != "" {
		viewPath = a.ViewConfigPath
	}
	viewCfg, err := config.LoadViewConfig(viewPath)
	if err != nil {
		return fmt.Errorf("failed to load view config: %w", err)
	}

	// Initialize dependencies
	a.Store = session.NewStore(env.SESSION_TTL)
	viewerSvc := service.NewViewerService(a.Store, viewCfg, service.ViewerOptions{
		ScanWorkers: env.SCAN_WORKERS,
		MaxFiles:    env.MAX_UPLOAD_FILES,
	})
	viewerHandler := handler.NewViewerHandler(viewerSvc)

	pruneCtx, cancel := context.WithCancel(context.Background())
	a.stopPruning = cancel
	go a.Store.Run(pruneCtx, pruneInterval)

	// Register Middlewares
	a.RegisterMiddlewares(env.MAX_UPLOAD_SIZE)

	// Register Routes
	a.RegisterRoutes(viewerHandler)

	return nil
}

func (a *App) RegisterMiddlewares(bodyLimit string) {
	a.Echo.HideBanner = true
	a.Echo.Use(middleware.Logger())
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(middleware.CORS())
	a.Echo.Use(middleware.BodyLimit(bodyLimit))
}

func (a *App) RegisterRoutes(viewerHandler *handler.ViewerHandler) {
	a.Echo.GET("/", viewerHandler.IndexHandler)
	a.Echo.GET("/healthz", viewerHandler.HealthHandler)

	apiGroup := a.Echo.Group("/api", handler.SessionMiddleware(a.Store))
	apiGroup.POST("/workbooks", viewerHandler.UploadHandler)
	apiGroup.GET("/workbooks", viewerHandler.ListHandler)
	apiGroup.DELETE("/workbooks", viewerHandler.ClearHandler)
	apiGroup.POST("/view", viewerHandler.ViewHandler)
	apiGroup.GET("/insights", viewerHandler.InsightsHandler)

	exportGroup := apiGroup.Group("/export")
	exportGroup.POST("/pdf", viewerHandler.ExportPDFHandler)
	exportGroup.POST("/xlsx", viewerHandler.ExportXLSXHandler)
}

func (a *App) Run() error {
	if a.stopPruning != nil {
		defer a.stopPruning()
	}
	return a.Echo.Start(":" + config.DefaultEnvConfig.APP_PORT)
}

// Shutdown stops the server, letting in-flight requests finish until ctx
// expires.
func (a *App) Shutdown(ctx context.Context) error {
	if a.stopPruning != nil {
		a.stopPruning()
	}
	return a.Echo.Shutdown(ctx)
}
