package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"sync"
	"time"

	"skill-upcycle/internal/config"
	"skill-upcycle/internal/database"
	"skill-upcycle/internal/database/migration"
	dbpostgres "skill-upcycle/internal/database/postgres"
	"skill-upcycle/internal/infrastructure/analysisapi"
	"skill-upcycle/internal/infrastructure/cache"
	"skill-upcycle/internal/infrastructure/report"
	"skill-upcycle/internal/pkg/jwt"
	"skill-upcycle/internal/repository"
	"skill-upcycle/internal/session"
	"skill-upcycle/internal/usecase"
	"skill-upcycle/internal/worker"
	"skill-upcycle/internal/ws"
	"skill-upcycle/migrations"
)

// Container owns every long-lived dependency of the service.
type Container struct {
	Config config.Config
	Logger *log.Logger

	DB       database.DB
	Redis    *cache.Redis
	Sessions session.Store
	Locker   usecase.Locker
	History  repository.AnalysisHistoryRepository
	Client   analysisapi.Client
	Hub      *ws.Hub
	Pool     *worker.Pool
	Printer  report.Printer
	JWT      jwt.Service

	Auth      *usecase.Auth
	Upload    *usecase.Upload
	Dashboard *usecase.DashboardService
	Report    *usecase.Report

	cancel   context.CancelFunc
	wg       sync.WaitGroup
	poolDone chan struct{}
}

const drainTimeout = 10 * time.Second

func NewContainer(cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}
	c := &Container{Config: cfg, Logger: logger}

	if cfg.Database.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		db, err := dbpostgres.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		c.DB = db

		runner := migration.Runner{Source: migrationSource(cfg.App.MigrationsDir), Logger: logger}
		if err := runner.Run(ctx, db.SQLDB()); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		c.History = repository.NewPostgresAnalysisHistoryRepository(db)
	} else {
		logger.Printf("[App] database not configured, analysis history kept in memory")
		c.History = repository.NewMemoryAnalysisHistoryRepository()
	}

	c.Redis = cache.NewRedis(cfg.Redis, logger)
	if c.Redis.Available() {
		c.Sessions = session.NewRedisStore(c.Redis)
		c.Locker = c.Redis
	} else {
		logger.Printf("[App] redis unavailable, sessions and upload locks kept in process")
		c.Sessions = session.NewMemoryStore()
		c.Locker = usecase.NewLocalLocker()
	}

	c.Client = analysisapi.NewClient(cfg.AnalysisAPI, logger)
	c.Hub = ws.NewHub(logger)

	c.Pool = worker.NewPool(cfg.Worker.Workers, cfg.Worker.Buffer)
	c.Pool.SetRateLimit(cfg.Worker.RateLimit)

	if cfg.Report.Enabled {
		c.Printer = report.NewChromePrinter(cfg.Report.Timeout, logger)
	} else {
		c.Printer = report.DisabledPrinter{}
	}

	c.JWT = jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)

	c.Upload = usecase.NewUploadUsecase(
		c.Client,
		c.Sessions,
		c.History,
		c.Redis,
		c.Locker,
		c.Hub,
		c.Pool,
		usecase.UploadOptions{
			MaxBytes:     cfg.Upload.MaxBytes,
			StepInterval: cfg.Upload.StepInterval,
			PendingTTL:   cfg.Session.PendingTTL,
		},
		logger,
	)
	c.Auth = usecase.NewAuthUsecase(c.Client, c.Sessions, c.JWT, c.Redis, c.Upload, cfg.Session.TTL, logger)
	c.Dashboard = usecase.NewDashboardUsecase(c.Client, c.History, c.Redis, usecase.DashboardOptions{
		CacheTTL:    cfg.Redis.TTL,
		MirrorLocal: true,
	}, logger)
	c.Report = usecase.NewReportUsecase(c.Dashboard, c.Printer, logger)

	return c, nil
}

// Start runs the websocket hub and the background worker pool until Close.
func (c *Container) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	c.poolDone = make(chan struct{})

	c.wg.Add(2)
	go func() {
		defer c.wg.Done()
		c.Hub.Run(ctx)
	}()
	go func() {
		defer c.wg.Done()
		defer close(c.poolDone)
		for res := range c.Pool.Run(ctx) {
			if res.Err != nil {
				c.Logger.Printf("[Worker] task failed name=%s duration=%s error=%v", res.Name, res.Duration, res.Err)
				continue
			}
			c.Logger.Printf("[Worker] task done name=%s duration=%s", res.Name, res.Duration)
		}
	}()
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}

	if c.Pool != nil {
		c.Pool.Close()
	}
	if c.poolDone != nil {
		select {
		case <-c.poolDone:
		case <-time.After(drainTimeout):
			c.Logger.Printf("[App] worker pool drain timed out after %s", drainTimeout)
		}
	}
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()

	var errs []error
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}

// migrationSource reads migrations from dir when it exists and from the copies
// embedded in the binary otherwise.
func migrationSource(dir string) fs.FS {
	if dir != "" {
		if st, err := os.Stat(dir); err == nil && st.IsDir() {
			return os.DirFS(dir)
		}
	}
	return migrations.FS
}
