// Package app assembles the store, services and HTTP router into a runnable server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Adi-Narayan/Hashira/auth"
	"github.com/Adi-Narayan/Hashira/config"
	"github.com/Adi-Narayan/Hashira/logger"
	"github.com/Adi-Narayan/Hashira/middleware"
	"github.com/Adi-Narayan/Hashira/notify"
	"github.com/Adi-Narayan/Hashira/payu"
	"github.com/Adi-Narayan/Hashira/realtime"
	"github.com/Adi-Narayan/Hashira/routes"
	"github.com/Adi-Narayan/Hashira/service"
	"github.com/Adi-Narayan/Hashira/store"
	"github.com/Adi-Narayan/Hashira/store/memstore"
	"github.com/Adi-Narayan/Hashira/store/mongostore"
	"github.com/Adi-Narayan/Hashira/store/sqlstore"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const memoryQueueSize = 1024

type Application struct {
	appConfig *config.AppConfig
	logger    *zap.Logger
	store     store.Store
	redis     *redis.Client // owned by the outbox queue once created
	outbox    *notify.Outbox
	sched     *cron.Cron
	hub       *realtime.Hub
	issuer    *auth.Issuer
	gateway   *payu.Gateway

	accounts *service.AccountService
	carts    *service.CartService
	orders   *service.OrderService
	catalog  *service.CatalogService

	// server, runCtx and cancelRun are set in Init and never reassigned.
	server    *http.Server
	runCtx    context.Context
	cancelRun context.CancelFunc
	runners   sync.WaitGroup

	mu       sync.Mutex
	started  bool
	released bool
}

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Store() store.Store {
	return a.store
}

func (a *Application) Issuer() *auth.Issuer {
	return a.issuer
}

func (a *Application) Hub() *realtime.Hub {
	return a.hub
}

// Init connects the store and outbox queue and builds the services.
func (a *Application) Init(ctx context.Context) error {
	cfg := a.appConfig

	lg, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	a.logger = lg

	if a.store, err = openStore(ctx, cfg.Database); err != nil {
		return err
	}
	zap.L().Info("database connection successful",
		zap.String("namespace", "app"),
		zap.String("driver", cfg.Database.Driver))

	queue, err := a.openQueue(ctx)
	if err != nil {
		return err
	}

	var mailer notify.Mailer = notify.LogMailer{}
	if cfg.Mail.Enabled() {
		mailer = notify.NewSMTPMailer(cfg.Mail)
	} else {
		zap.L().Warn("SMTP is not configured, emails will only be logged", zap.String("namespace", "app"))
	}

	if a.outbox, err = notify.NewOutbox(queue, mailer, cfg.Outbox); err != nil {
		return fmt.Errorf("failed to create outbox: %w", err)
	}
	a.sched = cron.New()
	if err := a.outbox.RegisterJobs(a.sched); err != nil {
		return fmt.Errorf("failed to register outbox jobs: %w", err)
	}

	a.hub = realtime.NewHub()
	a.issuer = auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.UserTokenTTL, cfg.Auth.AdminTokenTTL)
	a.gateway = &payu.Gateway{
		Key:         cfg.PayU.MerchantKey,
		Salt:        cfg.PayU.Salt,
		PaymentURL:  cfg.PayU.PaymentURL,
		BackendURL:  cfg.Server.BackendURL,
		FrontendURL: cfg.Server.FrontendURL,
	}
	if !a.gateway.Enabled() {
		zap.L().Warn("PayU is not configured, online payments are disabled", zap.String("namespace", "app"))
	}

	notifier := notify.NewNotifier(a.outbox, cfg.Server.FrontendURL)
	users := a.store.Users()
	a.accounts = service.NewAccountService(users, a.issuer, notifier, service.AdminCredentials{
		Email:    cfg.Auth.AdminEmail,
		Password: cfg.Auth.AdminPassword,
	})
	a.carts = service.NewCartService(users)
	a.orders = service.NewOrderService(users, a.store.Orders(), a.gateway, notifier, a.hub)
	a.catalog = service.NewCatalogService(a.store.Products())

	if cfg.Database.SeedFile != "" {
		if err := a.seedProducts(ctx, cfg.Database.SeedFile); err != nil {
			return err
		}
	}

	a.runCtx, a.cancelRun = context.WithCancel(context.WithoutCancel(ctx))
	a.server = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return nil
}

func openStore(ctx context.Context, cfg config.DatabaseConfig) (store.Store, error) {
	switch cfg.Driver {
	case "memory":
		return memstore.New(), nil
	case "postgres":
		s, err := sqlstore.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		return s, nil
	default:
		s, err := mongostore.Open(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			return nil, fmt.Errorf("failed to open mongodb: %w", err)
		}
		return s, nil
	}
}

func (a *Application) openQueue(ctx context.Context) (notify.Queue, error) {
	cfg := a.appConfig.Outbox
	if cfg.Queue != "redis" {
		return notify.NewMemoryQueue(memoryQueueSize), nil
	}

	a.redis = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := a.redis.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return notify.NewRedisQueue(a.redis), nil
}

// Router builds the gin engine with middleware and every route group.
func (a *Application) Router() *gin.Engine {
	if a.appConfig.Logger.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.Recovery(), middleware.RequestLogger(), middleware.CORS(a.appConfig.Server.AllowedOrigins))

	routes.SetupRoutes(r, routes.Deps{
		Issuer:         a.issuer,
		Gateway:        a.gateway,
		Hub:            a.hub,
		Accounts:       a.accounts,
		Carts:          a.carts,
		Orders:         a.orders,
		Catalog:        a.catalog,
		AllowedOrigins: a.appConfig.Server.AllowedOrigins,
	})
	return r
}

// Start runs the outbox and scheduler in the background and serves HTTP until
// the server is shut down. It returns at once if Release already ran.
func (a *Application) Start(_ context.Context) error {
	a.mu.Lock()
	if a.released || a.started {
		a.mu.Unlock()
		return nil
	}
	a.started = true
	a.runners.Add(1)
	go func() {
		defer a.runners.Done()
		a.outbox.Run(a.runCtx)
	}()
	a.sched.Start()
	a.mu.Unlock()

	zap.L().Info("server running",
		zap.String("namespace", "app"),
		zap.String("addr", a.server.Addr))
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server stopped: %w", err)
	}
	return nil
}

// Release stops accepting requests and tears the components down in reverse order.
func (a *Application) Release(ctx context.Context) {
	a.mu.Lock()
	if a.released {
		a.mu.Unlock()
		return
	}
	a.released = true
	a.mu.Unlock()

	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			zap.L().Error("http shutdown failed", zap.String("namespace", "app"), zap.Error(err))
		}
	}
	if a.sched != nil {
		<-a.sched.Stop().Done()
	}
	if a.hub != nil {
		a.hub.Close()
	}
	if a.cancelRun != nil {
		a.cancelRun()
	}
	a.runners.Wait()
	if a.outbox != nil {
		if err := a.outbox.Close(); err != nil {
			zap.L().Error("outbox close failed", zap.String("namespace", "app"), zap.Error(err))
		}
	}
	if a.store != nil {
		if err := a.store.Close(ctx); err != nil {
			zap.L().Error("store close failed", zap.String("namespace", "app"), zap.Error(err))
		}
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}
