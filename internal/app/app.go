package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"syntax_feed_backend/internal/catalog"
	"syntax_feed_backend/internal/config"
	"syntax_feed_backend/internal/controller"
	"syntax_feed_backend/internal/grader"
	"syntax_feed_backend/internal/repository"
	"syntax_feed_backend/internal/service"
	"syntax_feed_backend/internal/util"
	"syntax_feed_backend/pkg/configwatcher"
	"syntax_feed_backend/pkg/database"
	"syntax_feed_backend/pkg/logger"
	"syntax_feed_backend/pkg/monitoring"
	"syntax_feed_backend/pkg/security"
	"syntax_feed_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	rateLimiter     *security.RateLimiter
	cron            *cron.Cron
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)

	// guards Config once the watcher runs
	cfgMu sync.RWMutex
}

type repositories struct {
	learner  *repository.LearnerRepository
	reaction *repository.ReactionRepository
	progress *repository.ProgressRepository
	profile  *repository.ProfileRepository
	social   *repository.CommunityRepository
	workshop *repository.WorkshopRepository
	attempt  *repository.AttemptRepository
	activity *repository.ActivityRepository
}

type services struct {
	catalog   *catalog.Catalog
	storage   *service.StorageService
	session   *service.SessionService
	growth    *service.GrowthService
	hub       *service.FeedHub
	feed      *service.FeedService
	lessons   *service.CatalogService
	notes     *service.NotesService
	video     *service.VideoService
	course    *service.CourseService
	practice  *service.PracticeService
	profile   *service.ProfileService
	community *service.CommunityService
	workshop  *service.WorkshopService
}

type controllers struct {
	health    *controller.HealthController
	session   *controller.SessionController
	feed      *controller.FeedController
	lesson    *controller.LessonController
	course    *controller.CourseController
	notes     *controller.NotesController
	practice  *controller.PracticeController
	profile   *controller.ProfileController
	growth    *controller.GrowthController
	community *controller.CommunityController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) applyConfig(cfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
	a.cfgMu.Lock()
	a.Config = cfg
	a.cfgMu.Unlock()
	logger.Log.Info("Config reloaded", zap.String("file", cfg.File))
}

// currentConfig returns the latest loaded config. Background jobs use it
// instead of reading Config directly.
func (a *App) currentConfig() *config.Config {
	a.cfgMu.RLock()
	defer a.cfgMu.RUnlock()
	return a.Config
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		learner:  repository.NewLearnerRepository(db),
		reaction: repository.NewReactionRepository(db),
		progress: repository.NewProgressRepository(db),
		profile:  repository.NewProfileRepository(db),
		social:   repository.NewCommunityRepository(db),
		workshop: repository.NewWorkshopRepository(db),
		attempt:  repository.NewAttemptRepository(db),
		activity: repository.NewActivityRepository(db),
	}
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.Content.Path != "" {
		return catalog.LoadDir(cfg.Content.Path)
	}
	return catalog.Default()
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) (*services, error) {
	cat, err := loadCatalog(cfg)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	s := &services{catalog: cat}

	s.storage = service.NewStorageService(cfg)
	s.session = service.NewSessionService(repos.learner, cfg)

	s.growth = service.NewGrowthService(repos.activity, cat)
	s.growth.PublicURL = cfg.Server.PublicURL

	s.hub = service.NewFeedHub(rdb)
	s.feed = service.NewFeedService(cat, repos.reaction, s.growth, s.hub, cfg.Feed)
	s.hub.SetInboundHandler(s.feed.HandleInbound)

	s.lessons = service.NewCatalogService(cat, rdb, cfg.Redis.CacheTTL, cfg.Server.PublicURL, s.growth)
	s.notes = service.NewNotesService(cat, s.storage, cfg.Server.PublicURL)
	s.video = service.NewVideoService(cat, cfg.Media.Root)
	s.course = service.NewCourseService(cat, repos.progress)
	s.practice = service.NewPracticeService(cat, grader.New(cfg.Grader), repos.attempt, s.growth)
	s.profile = service.NewProfileService(cat, repos.learner, repos.profile, repos.reaction, repos.attempt, repos.progress, s.growth)
	s.community = service.NewCommunityService(cat, repos.social)
	s.workshop = service.NewWorkshopService(cat, repos.workshop)

	return s, nil
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		health:    controller.NewHealthController(db, rdb),
		session:   controller.NewSessionController(s.session),
		feed:      controller.NewFeedController(s.feed, s.hub),
		lesson:    controller.NewLessonController(s.lessons),
		course:    controller.NewCourseController(s.course, s.video),
		notes:     controller.NewNotesController(s.notes),
		practice:  controller.NewPracticeController(s.practice),
		profile:   controller.NewProfileController(s.profile),
		growth:    controller.NewGrowthController(s.growth),
		community: controller.NewCommunityController(s.community, s.workshop),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(a.rateLimiter.Middleware())

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) registerConfigCallbacks(s *services) {
	a.RegisterConfigCallback(func(cfg *config.Config) {
		s.feed.UpdateConfig(cfg.Feed)
	})
	a.RegisterConfigCallback(func(cfg *config.Config) {
		a.rateLimiter.Update(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window())
	})
	a.RegisterConfigCallback(func(cfg *config.Config) {
		s.practice.SetGrader(grader.New(cfg.Grader))
	})
}

func (a *App) startBackgroundTasks(s *services) error {
	c := cron.New()

	if _, err := c.AddFunc(a.Config.Feed.SweepSchedule, func() {
		if n := s.feed.SweepIdle(a.currentConfig().Feed.SessionTTL); n > 0 {
			logger.Log.Info("Swept idle feed sessions", zap.Int("count", n))
		}
	}); err != nil {
		return fmt.Errorf("feed.sweep_schedule: %w", err)
	}

	// daily rollover, logs yesterday's active learner count
	if _, err := c.AddFunc("5 0 * * *", func() {
		day := time.Now().AddDate(0, 0, -1).Format(util.DateFormat)
		n, err := s.growth.ActivityRepo.ActiveLearnersOn(day)
		if err != nil {
			logger.Log.Error("Activity rollover failed", zap.String("day", day), zap.Error(err))
			return
		}
		logger.Log.Info("Activity rollover", zap.String("day", day), zap.Int64("activeLearners", n))
	}); err != nil {
		return err
	}

	c.Start()
	a.cron = c
	return nil
}

func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	if cfg.Server.Mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("initialize redis: %w", err)
	}

	app := &App{
		Config:      cfg,
		DB:          db,
		Redis:       rdb,
		rateLimiter: security.NewRateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window()),
	}

	if err := registerValidators(); err != nil {
		return nil, err
	}

	repos := app.initRepositories(db)
	services, err := app.initServices(repos, cfg, rdb)
	if err != nil {
		return nil, err
	}
	app.services = services
	controllers := app.initControllers(services, db, rdb)
	app.registerConfigCallbacks(services)

	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			return nil, fmt.Errorf("initialize tracing: %w", err)
		}
		app.tracer = tp
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, services)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static(cfg.Storage.LocalURL, cfg.Storage.LocalPath)
	}

	if err := app.startBackgroundTasks(services); err != nil {
		return nil, err
	}
	go services.hub.Run()

	return app, nil
}

// Run serves until SIGINT or SIGTERM, then drains sockets, sessions and jobs.
func (a *App) Run() error {
	cfg := a.currentConfig()
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: a.Router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.File != "" {
		if _, err := os.Stat(cfg.File); err == nil {
			go func() {
				if err := configwatcher.WatchConfig(ctx, cfg.File, a.applyConfig); err != nil {
					logger.Log.Error("Config watcher stopped", zap.Error(err))
				}
			}()
		}
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Server running", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.Close()
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	a.Close()
	if err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Log.Info("Server exiting")
	return nil
}

// Close stops background work. It is safe to call on a partially started App.
func (a *App) Close() {
	if a.cron != nil {
		<-a.cron.Stop().Done()
	}
	if a.services != nil {
		a.services.hub.Stop()
		a.services.feed.CloseAll()
	}
	if a.rateLimiter != nil {
		a.rateLimiter.Stop()
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(context.Background()); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	logger.Log.Sync()
}
