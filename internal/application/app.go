package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sangkips/supermarket-api/internal/application/service"
	"github.com/sangkips/supermarket-api/internal/config"
	"github.com/sangkips/supermarket-api/internal/domain/entity"
	"github.com/sangkips/supermarket-api/internal/domain/repository"
	"github.com/sangkips/supermarket-api/internal/infrastructure/cache"
	"github.com/sangkips/supermarket-api/internal/infrastructure/database"
	"github.com/sangkips/supermarket-api/internal/infrastructure/jsonstore"
	infraRepo "github.com/sangkips/supermarket-api/internal/infrastructure/repository"
	"github.com/sangkips/supermarket-api/pkg/email"
	logx "github.com/sangkips/supermarket-api/pkg/logger"
	"github.com/sangkips/supermarket-api/pkg/printer"
	pkgredis "github.com/sangkips/supermarket-api/pkg/redis"
	"github.com/sangkips/supermarket-api/pkg/utils"
	"gorm.io/gorm"
)

// Stores is the persistence the services run on
type Stores struct {
	Products    repository.ProductRepository
	Bills       repository.BillRepository
	Idempotency repository.IdempotencyRepository
}

// App holds every service; it is built once and handed to the HTTP layer.
type App struct {
	Config    *config.Config
	Stores    Stores
	Guard     *service.CatalogGuard
	Catalog   *service.CatalogService
	Billing   *service.BillingService
	Inventory *service.InventoryService
	Reports   *service.ReportService
	Printer   *service.PrinterService
	Auth      *service.AuthService
	JWT       *utils.JWTManager
	closers   []func() error
}

// Option customises New
type Option func(*options)

type options struct {
	printer printer.Printer
	mailer  service.LowStockMailer
	billing []service.BillingOption
}

// WithPrinter overrides the configured printer
func WithPrinter(p printer.Printer) Option {
	return func(o *options) { o.printer = p }
}

// WithMailer overrides the SMTP mailer
func WithMailer(m service.LowStockMailer) Option {
	return func(o *options) { o.mailer = m }
}

// WithBillingOptions passes options through to the billing service
func WithBillingOptions(opts ...service.BillingOption) Option {
	return func(o *options) { o.billing = append(o.billing, opts...) }
}

// New wires services on top of stores
func New(cfg *config.Config, stores Stores, opts ...Option) *App {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if o.printer == nil {
		p, err := printer.New(cfg.Printer.Type, cfg.Printer.USBPath, cfg.Printer.Address)
		if err != nil {
			logx.Warn().Err(err).Msg("failed to initialize printer, receipts will not be printed")
			p = printer.NewNullPrinter()
		}
		o.printer = p
	}
	if o.mailer == nil {
		mailer := email.NewEmailService(email.EmailConfig{
			SMTPHost:     cfg.Email.SMTPHost,
			SMTPPort:     cfg.Email.SMTPPort,
			SMTPUsername: cfg.Email.SMTPUsername,
			SMTPPassword: cfg.Email.SMTPPassword,
			FromName:     cfg.Email.FromName,
			FromEmail:    cfg.Email.FromEmail,
		})
		if mailer.Configured() {
			o.mailer = mailer
		}
	}

	loc := cfg.Store.Location()
	thresholds := service.InventoryThresholds{
		ReorderFloor: cfg.Inventory.ReorderFloor,
		Critical:     cfg.Inventory.CriticalThreshold,
		Low:          cfg.Inventory.LowThreshold,
	}
	guard := service.NewCatalogGuard()
	jwtManager := utils.NewJWTManager(cfg.Auth.Secret, cfg.Auth.ExpiryHours)
	inventory := service.NewInventoryService(stores.Products, thresholds, o.mailer, cfg.Email.AlertTo, cfg.Store.Name)

	return &App{
		Config:    cfg,
		Stores:    stores,
		Guard:     guard,
		Catalog:   service.NewCatalogService(stores.Products, guard, cfg.Inventory.DefaultMinStock),
		Billing:   service.NewBillingService(stores.Products, stores.Bills, guard, o.billing...),
		Inventory: inventory,
		Reports:   service.NewReportService(stores.Products, stores.Bills, inventory, loc, cfg.Storage.ReportsDir, cfg.Store.Name),
		Printer: service.NewPrinterService(o.printer, stores.Bills, entity.ReceiptHeader{
			StoreName: cfg.Store.Name,
			Address:   cfg.Store.Address,
			Phone:     cfg.Store.Phone,
			TaxID:     cfg.Store.TaxID,
		}, cfg.Printer.CharWidth, loc),
		Auth: service.NewAuthService(cfg.Auth.OperatorUsername, cfg.Auth.OperatorPassword, jwtManager),
		JWT:  jwtManager,
	}
}

// OpenStores opens the stores selected by cfg. The returned closer releases connections.
func OpenStores(ctx context.Context, cfg *config.Config) (Stores, func() error, error) {
	var (
		stores  Stores
		db      *gorm.DB
		closers []func() error
	)

	switch cfg.Storage.Driver {
	case "json", "":
		stores.Products = jsonstore.NewProductStore(cfg.Storage.DataDir)
		stores.Bills = jsonstore.NewBillStore(cfg.Storage.DataDir, cfg.Store.Location())
		logx.Info().Str("dir", cfg.Storage.DataDir).Msg("using JSON file storage")
	case "postgres":
		var err error
		db, err = database.NewPostgresDB(&cfg.Database, cfg.App.Debug)
		if err != nil {
			return Stores{}, nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return Stores{}, nil, err
		}
		sqlDB, err := db.DB()
		if err == nil {
			closers = append(closers, sqlDB.Close)
		}
		stores.Products = infraRepo.NewProductRepository(db)
		stores.Bills = infraRepo.NewBillRepository(db)
	default:
		return Stores{}, nil, fmt.Errorf("unknown storage driver %q (use json or postgres)", cfg.Storage.Driver)
	}

	switch {
	case cfg.Redis.URL != "":
		rcfg := pkgredis.Config{
			URL:          cfg.Redis.URL,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
			DialTimeout:  cfg.Redis.DialTimeout,
		}
		rdb, err := rcfg.New(ctx)
		if err != nil {
			closeAll(closers)
			return Stores{}, nil, err
		}
		closers = append(closers, rdb.Close)
		stores.Idempotency = cache.NewRedisIdempotencyStore(rdb)
		logx.Info().Msg("idempotency keys stored in redis")
	case db != nil:
		stores.Idempotency = infraRepo.NewIdempotencyRepository(db)
	default:
		stores.Idempotency = cache.NewMemoryIdempotencyStore()
	}

	if cfg.Storage.SeedDefaults {
		if _, err := database.SeedDefaultProducts(ctx, stores.Products); err != nil {
			logx.Warn().Err(err).Msg("failed to seed default products")
		}
	}

	return stores, func() error { return closeAll(closers) }, nil
}

func closeAll(closers []func() error) error {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// PurgeExpiredKeys deletes expired idempotency keys every interval until ctx is done.
func (a *App) PurgeExpiredKeys(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := a.Stores.Idempotency.DeleteExpired(ctx); err != nil {
				logx.Warn().Err(err).Msg("failed to purge expired idempotency keys")
			}
		}
	}
}

// AddCloser registers fn to run on Close
func (a *App) AddCloser(fn func() error) {
	a.closers = append(a.closers, fn)
}

// Close releases everything registered with AddCloser
func (a *App) Close() error {
	return closeAll(a.closers)
}
