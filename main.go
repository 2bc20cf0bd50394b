package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/evscomercial/storefront-backend/api"
	db "github.com/evscomercial/storefront-backend/db/sqlc"
	"github.com/evscomercial/storefront-backend/providers"
	"github.com/evscomercial/storefront-backend/providers/paypal"
	activitylogs "github.com/evscomercial/storefront-backend/services/activity_logs"
	"github.com/evscomercial/storefront-backend/services/coupon"
	"github.com/evscomercial/storefront-backend/services/monitoring/logging"
	"github.com/evscomercial/storefront-backend/services/monitoring/tasks"
	"github.com/evscomercial/storefront-backend/services/payment"
	"github.com/evscomercial/storefront-backend/services/redis"
	"github.com/evscomercial/storefront-backend/services/security"
	"github.com/evscomercial/storefront-backend/services/transaction"
	"github.com/evscomercial/storefront-backend/services/wallet"
	"github.com/evscomercial/storefront-backend/utils"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

func main() {
	config, err := utils.LoadConfig(utils.EnvPath)
	if err != nil {
		panic(fmt.Sprintf("Could not load config: %v", err))
	}

	logger := logging.NewLogger(config)
	logger.WithField("config", config.Redact()).Debug("configuration loaded")

	conn, err := sql.Open(config.DBDriver, utils.GetDBSource(config, config.DBName))
	if err != nil {
		logger.Fatalf("Could not load DB: %v", err)
	}
	defer conn.Close()

	m, err := migrate.New("file://db/migrations", utils.GetDBSource(config, config.DBName))
	if err != nil {
		logger.Fatalf("Unable to instantiate the database schema migrator - %v", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Fatalf("Unable to migrate up to the latest database schema - %v", err)
	}

	store := db.NewStore(conn)

	tokens := newTokenStore(config, logger)

	paypalConfig, err := paypal.LoadConfig(utils.EnvPath)
	if err != nil {
		logger.Fatalf("Could not load PayPal config: %v", err)
	}

	p := providers.NewProviderService()
	p.AddProvider(paypal.NewPayPalProvider(paypalConfig, tokens, logger))

	registered, ok := p.GetProvider(providers.PayPal)
	if !ok {
		logger.Fatalf("payment provider %s is not registered", providers.PayPal)
	}
	gateway, ok := registered.(payment.Gateway)
	if !ok {
		logger.Fatalf("provider %s cannot process payments", registered.GetName())
	}

	codes, err := coupon.NewCodeEncoder(config.SigningKey)
	if err != nil {
		logger.Fatalf("Could not set up coupon codes: %v", err)
	}

	couponService := coupon.NewCouponService(store, codes, logger)
	walletService := wallet.NewWalletService(store, logger)
	transactionService := transaction.NewTransactionService(store, logger)
	paymentService := payment.NewPaymentService(gateway, transactionService, walletService, couponService, config.AppBaseURL, logger)
	activityLog := activitylogs.NewActivityLog(store)

	scheduler := tasks.NewTaskScheduler(logger)
	defer scheduler.Stop()
	scheduleMaintenance(scheduler, config, couponService, activitylogs.NewCleanupService(activityLog, logger, activitylogs.DefaultRetention), logger)

	server := api.NewServer(config, store, logger, api.Dependencies{
		Payments:     paymentService,
		Coupons:      couponService,
		ActivityLogs: activityLog,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatalf("server stopped: %v", err)
	}
	logger.Info("server stopped")
}

// newTokenStore prefers Redis so replicas share the PayPal token, falling
// back to process memory.
func newTokenStore(config *utils.Config, logger *logging.Logger) paypal.TokenStore {
	if config.RedisEnabled() {
		rs, err := redis.NewRedisService(&redis.RedisConfig{
			Host:     config.RedisHost,
			Port:     config.RedisPort,
			Password: config.RedisPassword,
		})
		if err == nil {
			return rs
		}
		logger.WithError(err).Warn("redis unavailable, caching gateway tokens in memory")
	}
	return security.NewCache(time.Hour, 10*time.Minute)
}

func scheduleMaintenance(scheduler *tasks.TaskScheduler, config *utils.Config, coupons *coupon.CouponService, cleanup *activitylogs.CleanupService, logger *logging.Logger) {
	sweep := func(ctx context.Context) error {
		_, err := coupons.DeactivateExpired(ctx)
		return err
	}

	jobs := []struct {
		id, name string
		fn       func(context.Context) error
		interval time.Duration
		delay    time.Duration
	}{
		{"coupon-sweep", "Deactivate expired coupons", sweep, config.CouponSweepInterval, time.Minute},
		{"activity-log-cleanup", "Prune old activity logs", cleanup.Cleanup, 24 * time.Hour, 10 * time.Minute},
	}

	for _, job := range jobs {
		if _, err := scheduler.AddTask(job.id, job.name, job.fn, job.interval); err != nil {
			logger.WithError(err).Errorf("could not add task %s", job.id)
			continue
		}
		if err := scheduler.ScheduleTask(job.id, job.delay); err != nil {
			logger.WithError(err).Errorf("could not schedule task %s", job.id)
		}
	}
}
