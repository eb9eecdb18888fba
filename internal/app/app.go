package app

import (
	"context"
	"examprep_backend/internal/config"
	"examprep_backend/internal/controller"
	"examprep_backend/internal/repository"
	"examprep_backend/internal/service"
	"examprep_backend/pkg/configwatcher"
	"examprep_backend/pkg/database"
	"examprep_backend/pkg/logger"
	"examprep_backend/pkg/monitoring"
	"examprep_backend/pkg/security"
	"examprep_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services

	flushInterval chan time.Duration
}

type repositories struct {
	user     *repository.UserRepository
	course   *repository.CourseRepository
	lesson   *repository.LessonRepository
	progress *repository.ProgressRepository
}

type services struct {
	auth     *service.AuthService
	storage  *service.StorageService
	progress *service.ProgressService
	lesson   *service.LessonService
	content  *service.ContentService
}

type controllers struct {
	auth     *controller.AuthController
	course   *controller.CourseController
	progress *controller.ProgressController
	content  *controller.ContentController
	health   *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		course:   repository.NewCourseRepository(db),
		lesson:   repository.NewLessonRepository(db),
		progress: repository.NewProgressRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.progress = service.NewProgressService(repos.progress)
	s.lesson = service.NewLessonService(
		repos.course,
		repos.lesson,
		s.progress,
		rdb,
		time.Duration(cfg.Progress.CatalogCacheSeconds)*time.Second,
	)
	s.content = service.NewContentService(repos.lesson, repos.course, s.storage, s.lesson)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth),
		course:   controller.NewCourseController(s.lesson),
		progress: controller.NewProgressController(s.progress),
		content:  controller.NewContentController(s.content),
		health:   controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 100000
	}
	windowMinutes := cfg.RateLimit.WindowMinutes
	if windowMinutes <= 0 {
		windowMinutes = 1
	}
	router.Use(security.RateLimiter(maxRequests, time.Duration(windowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(s *services, cfg *config.Config) {
	// 脏进度记录定期落库，播放 tick 不直接写数据库
	a.flushInterval = make(chan time.Duration, 1)
	go func() {
		interval := time.Duration(cfg.Progress.FlushIntervalSeconds) * time.Second
		if interval <= 0 {
			interval = 30 * time.Second
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.progress.FlushAll()
			case d := <-a.flushInterval:
				if d > 0 && d != interval {
					interval = d
					ticker.Reset(d)
				}
			}
		}
	}()

	// 配置文件热更新：落库周期与目录缓存时长即时生效
	go configwatcher.WatchConfig("configs/config.yaml", a.applyConfig)
}

// applyConfig 应用热更新后的配置，仅覆盖可以运行时调整的项
func (a *App) applyConfig(cfg *config.Config) {
	a.services.lesson.SetCacheTTL(time.Duration(cfg.Progress.CatalogCacheSeconds) * time.Second)

	select {
	case a.flushInterval <- time.Duration(cfg.Progress.FlushIntervalSeconds) * time.Second:
	default:
	}

	logger.Log.Info("configuration reloaded",
		zap.Int("flushIntervalSeconds", cfg.Progress.FlushIntervalSeconds),
		zap.Int("catalogCacheSeconds", cfg.Progress.CatalogCacheSeconds),
	)
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, database.ShouldMigrate(cfg.Server.Mode, cfg.ForceMigrate))
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	// 监控初始化
	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		_, err := tracing.InitTracer("examprep-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(services, cfg)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// 退出前把内存中的进度冲刷落库
	if a.services != nil && a.services.progress != nil {
		a.services.progress.FlushAll()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
