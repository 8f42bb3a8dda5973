package app

import (
	"context"
	"digital_literacy_backend/internal/config"
	"digital_literacy_backend/internal/controller"
	"digital_literacy_backend/internal/repository"
	"digital_literacy_backend/internal/service"
	"digital_literacy_backend/internal/session"
	"digital_literacy_backend/pkg/configwatcher"
	"digital_literacy_backend/pkg/database"
	"digital_literacy_backend/pkg/logger"
	"digital_literacy_backend/pkg/monitoring"
	"digital_literacy_backend/pkg/security"
	"digital_literacy_backend/pkg/tracing"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type App struct {
	cfg    *config.Config
	engine *gin.Engine
	server *http.Server
}

func New(cfg *config.Config) (*App, error) {
	gin.SetMode(cfg.Server.Mode)

	logger.InitLogger(cfg)
	monitoring.Init()

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		return nil, err
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("redis unavailable, caching disabled", zap.Error(err))
		rdb = nil
	}

	storage, err := service.NewStorageProvider(&cfg.Storage)
	if err != nil {
		return nil, err
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)
	resultRepo := repository.NewResultRepository(db)
	moduleRepo := repository.NewModuleRepository(db)

	// Services
	authSvc := service.NewAuthService(userRepo, cfg)
	userSvc := service.NewUserService(userRepo)
	assessmentSvc := service.NewAssessmentService(assessmentRepo, resultRepo, rdb)
	aiSvc := service.NewAIAssessmentService(&cfg.AI, assessmentSvc)
	learningSvc := service.NewLearningService(moduleRepo, storage)
	dashboardSvc := service.NewDashboardService(userRepo, assessmentRepo, resultRepo, moduleRepo, rdb)
	sessions := session.NewManager(assessmentSvc.SubmitAnswers, logger.Log)

	// Controllers
	ctls := controllers{
		auth:       controller.NewAuthController(authSvc),
		user:       controller.NewUserController(userSvc),
		assessment: controller.NewAssessmentController(assessmentSvc, aiSvc),
		session:    controller.NewSessionController(sessions, assessmentSvc),
		learning:   controller.NewLearningController(learningSvc),
		dashboard:  controller.NewDashboardController(dashboardSvc),
		result:     controller.NewResultController(resultRepo),
		health:     controller.NewHealthController(db, rdb),
	}

	engine := buildRouter(cfg, ctls, userSvc)

	return &App{
		cfg:    cfg,
		engine: engine,
		server: &http.Server{
			Addr:    ":" + cfg.Server.Port,
			Handler: engine,
		},
	}, nil
}

// Run starts the server and blocks until SIGINT or SIGTERM, then shuts
// down gracefully.
func (a *App) Run() error {
	shutdownTracing, err := tracing.InitTracer(&a.cfg.Tracing, "digital-literacy-backend")
	if err != nil {
		logger.Log.Warn("tracing disabled", zap.Error(err))
		shutdownTracing = func(context.Context) error { return nil }
	}

	watcher, err := configwatcher.New("configs/config.yaml", logger.Log, func() {
		logger.Log.Info("configuration changed on disk; restart to apply server-level settings")
	})
	if err != nil {
		logger.Log.Warn("config watcher disabled", zap.Error(err))
	} else {
		defer watcher.Close()
	}

	go func() {
		logger.Log.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		return err
	}
	if err := shutdownTracing(ctx); err != nil {
		logger.Log.Warn("tracing shutdown failed", zap.Error(err))
	}
	logger.Log.Info("server stopped")
	return nil
}

// Engine exposes the router for tests.
func (a *App) Engine() *gin.Engine {
	return a.engine
}

// Rate limit and security wrappers shared by the router.
func securityMiddleware(cfg *config.Config) []gin.HandlerFunc {
	rl := security.NewRateLimiter(&cfg.RateLimit)
	return []gin.HandlerFunc{
		security.CORSMiddleware(&cfg.CORS),
		security.SecureHeaders(),
		rl.Middleware(),
	}
}
