// Package app собирает зависимости витрины.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/RoGogDBD/timberyard/internal/auth"
	"github.com/RoGogDBD/timberyard/internal/backend"
	"github.com/RoGogDBD/timberyard/internal/cart"
	"github.com/RoGogDBD/timberyard/internal/checkout"
	"github.com/RoGogDBD/timberyard/internal/config"
	"github.com/RoGogDBD/timberyard/internal/config/db"
	"github.com/RoGogDBD/timberyard/internal/handlers"
	"github.com/RoGogDBD/timberyard/internal/kafka"
	"github.com/RoGogDBD/timberyard/internal/models"
	"github.com/RoGogDBD/timberyard/internal/repository"
	"github.com/RoGogDBD/timberyard/internal/resource"
	"github.com/RoGogDBD/timberyard/internal/retry"
	"github.com/RoGogDBD/timberyard/internal/validation"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// maxLiveCarts - сколько корзин держать в памяти одновременно.
const maxLiveCarts = 4096

// App содержит все зависимости приложения
type App struct {
	Config   *config.Config
	DBPool   *pgxpool.Pool
	Storage  repository.KVStore
	Backend  *backend.Client
	Sessions *auth.Manager
	Carts    *cart.Registry
	Catalog  handlers.Catalog
	Checkout *checkout.Service
	Handler  *handlers.Handler

	publisher *kafka.Publisher
	log       *zap.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewApp создает приложение. Соединения открываются в Init.
func NewApp(cfg *config.Config, log *zap.Logger) *App {
	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		Config: cfg,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Init выполняет инициализацию зависимостей приложения.
func (a *App) Init() error {
	if err := a.initStorage(a.ctx); err != nil {
		return err
	}

	// Менеджер сессий аутентифицирует через клиент, а клиент берет токен
	// из сессии запроса.
	var sessions *auth.Manager
	a.Backend = backend.New(a.Config.Backend.BaseURL, a.Config.Backend.Timeout,
		backend.TokenFunc(func(ctx context.Context) (string, error) {
			return sessions.Token(ctx)
		}))
	sessions = auth.NewManager(a.Storage, a.Backend, a.Config.Session, a.log.Named("auth"))
	a.Sessions = sessions

	a.Catalog = a.newCatalog()
	a.Carts = cart.NewRegistry(a.Storage, maxLiveCarts)

	validate := validation.New()
	var events checkout.EventPublisher
	if a.Config.Kafka.Enabled {
		k := a.Config.Kafka
		a.publisher = kafka.NewPublisher(
			kafka.NewWriter(k.Brokers, k.OrdersTopic),
			retry.NewPolicy(k.PublishRetries, k.PublishBackoff, k.PublishBackoffCap, k.PublishJitter),
			a.log.Named("kafka.producer"),
		)
		events = a.publisher
	}
	a.Checkout = checkout.NewService(a.Backend, events, validate, a.log.Named("checkout"))
	a.Handler = handlers.NewHandler(a.Catalog, a.Carts, a.Sessions, a.Checkout, validate, a.log.Named("http"))

	resource.LoadAll(a.ctx, a.log, a.Catalog.Loaders())
	if interval := a.Config.Backend.RefreshInterval; interval > 0 {
		a.goRun(func() { resource.Refresh(a.ctx, interval, a.log, a.Catalog.Loaders()) })
	}

	if a.Config.Kafka.Enabled {
		k := a.Config.Kafka
		a.goRun(func() {
			kafka.RunConsumer(a.ctx, k.Brokers, k.CatalogTopic, k.GroupID, a.Catalog.Products, a.log.Named("kafka.consumer"))
		})
		a.log.Info("kafka enabled",
			zap.Strings("brokers", k.Brokers),
			zap.String("catalog_topic", k.CatalogTopic),
			zap.String("orders_topic", k.OrdersTopic),
		)
	}

	return nil
}

// Routes регистрирует мидлвар сессий и маршруты витрины.
func (a *App) Routes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(a.Sessions.Middleware)
		a.Handler.RegisterRoutes(r)
	})
}

// initStorage выбирает хранилище корзин и сессий.
func (a *App) initStorage(ctx context.Context) error {
	if a.Config.Storage.Driver == "postgres" {
		if a.Config.Database.DSN == "" {
			return errors.New("storage driver postgres requires database DSN")
		}
		pool, err := db.NewPool(ctx, a.Config.Database, a.log.Named("db"))
		if err != nil {
			return fmt.Errorf("init postgres storage: %w", err)
		}
		a.DBPool = pool
		a.Storage = repository.NewPostgresStorage(pool)
		a.log.Info("using postgres storage")
		return nil
	}

	a.Storage = repository.NewMemStorageWithConfig(a.Config.Storage.MaxItems, a.Config.Storage.TTL)
	startJanitor(ctx, a.Storage, a.Config.Storage.CleanupInterval)
	a.log.Info("using in-memory storage",
		zap.Int("max_items", a.Config.Storage.MaxItems),
		zap.Duration("ttl", a.Config.Storage.TTL),
	)
	return nil
}

// startJanitor запускает фоновую очистку, если хранилище ее поддерживает.
func startJanitor(ctx context.Context, kv repository.KVStore, interval time.Duration) bool {
	j, ok := kv.(repository.Janitor)
	if !ok {
		return false
	}
	j.StartJanitor(ctx, interval)
	return true
}

func (a *App) newCatalog() handlers.Catalog {
	c := a.Backend
	return handlers.Catalog{
		Products:     resource.New[models.Product]("products", c.Products(), c.Products(), a.log.Named("products")),
		Gallery:      resource.New[models.GalleryItem]("gallery", c.Gallery(), c.Gallery(), a.log.Named("gallery")),
		Testimonials: resource.New[models.Testimonial]("testimonials", c.Testimonials(), c.Testimonials(), a.log.Named("testimonials")),
		Orders:       resource.New[models.Order]("orders", c.Orders(), c.Orders(), a.log.Named("orders")),
		Settings:     resource.NewRecord[models.SiteSettings]("settings", c.Settings(), c.Settings()),
	}
}

func (a *App) goRun(fn func()) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		fn()
	}()
}

// Close освобождает все ресурсы приложения
func (a *App) Close() {
	a.log.Info("shutting down application")

	if a.cancel != nil {
		a.cancel()
	}
	a.wg.Wait()

	if a.Catalog.Products != nil {
		for _, r := range []interface{ Close() }{
			a.Catalog.Products, a.Catalog.Gallery, a.Catalog.Testimonials, a.Catalog.Orders, a.Catalog.Settings,
		} {
			r.Close()
		}
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Warn("kafka publisher close", zap.Error(err))
		}
	}

	if a.DBPool != nil {
		a.DBPool.Close()
		a.log.Info("database connection closed")
	}

	a.log.Info("application shutdown complete")
}

// Context возвращает контекст приложения
func (a *App) Context() context.Context {
	return a.ctx
}
