package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"study_tracker_backend/internal/config"
	"study_tracker_backend/internal/controller"
	"study_tracker_backend/internal/middleware"
	"study_tracker_backend/internal/repository"
	"study_tracker_backend/internal/service"
	"study_tracker_backend/pkg/configwatcher"
	"study_tracker_backend/pkg/database"
	"study_tracker_backend/pkg/logger"
	"study_tracker_backend/pkg/monitoring"
	"study_tracker_backend/pkg/security"
	"study_tracker_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	services        *services
	tracerProvider  *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	storage *repository.StorageRepository
}

type services struct {
	identity  *service.IdentityService
	migration *service.MigrationService
	session   *service.SessionService
	goal      *service.GoalService
	dashboard *service.DashboardService
}

type controllers struct {
	session   *controller.SessionController
	goal      *controller.GoalController
	dashboard *controller.DashboardController
	data      *controller.DataController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		storage: repository.NewStorageRepository(db),
	}
}

// initServices 按依赖顺序装配：存储 → 标识 → 迁移 → 会话 → 目标 → 仪表盘
// 目标服务订阅会话变更，随后用已加载的快照做一次启动同步
func (a *App) initServices(repos *repositories) *services {
	s := &services{}

	s.identity = service.NewIdentityService(repos.storage)
	s.migration = service.NewMigrationService(repos.storage, s.identity)

	// 旧数据迁移必须发生在任何 store 读取之前
	if err := s.migration.MigrateLegacyData(); err != nil {
		logger.Log.Error("Legacy data migration failed", zap.Error(err))
	}

	s.session = service.NewSessionService(repos.storage, s.identity)
	s.goal = service.NewGoalService(repos.storage, s.identity)
	s.dashboard = service.NewDashboardService(s.session, s.goal)

	// 两个 store 之间唯一的耦合通道
	s.session.Subscribe(s.goal.HandleSessionUpdate)
	s.goal.HandleSessionUpdate(s.session.Sessions())

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		session:   controller.NewSessionController(s.session),
		goal:      controller.NewGoalController(s.goal),
		dashboard: controller.NewDashboardController(s.dashboard),
		data:      controller.NewDataController(s.migration, s.identity),
		health:    controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize storage", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos)
	app.services = services
	controllers := app.initControllers(services, db)

	monitoring.Init()

	router := gin.New()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("study-tracker", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracerProvider = tp
	}

	app.registerRoutes(router, controllers)

	app.watchConfig()

	return app
}

// watchConfig 后台监听配置文件，重载后依次执行注册的回调
func (a *App) watchConfig() {
	a.RegisterConfigCallback(func(cfg *config.Config) {
		a.Config = cfg
		logger.Log.Info("Config reloaded")
	})

	// 没有配置文件时跑默认值，无可监听
	if _, err := os.Stat("configs/config.yaml"); err != nil {
		return
	}

	go configwatcher.WatchConfig("configs/config.yaml", func(cfg *config.Config) {
		for _, callback := range a.configCallbacks {
			callback(cfg)
		}
	})
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(context.Background()); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	log.Println("Server exiting")
}
