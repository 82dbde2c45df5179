package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpadp "coop-loan-service/internal/adapter/http"
	"coop-loan-service/internal/adapter/middleware"
	"coop-loan-service/internal/adapter/repository/mysql"
	"coop-loan-service/internal/config"
	loanDomain "coop-loan-service/internal/domain/loan"
	"coop-loan-service/internal/infrastructure/cache"
	"coop-loan-service/internal/infrastructure/db"
	"coop-loan-service/internal/infrastructure/events"
	"coop-loan-service/internal/infrastructure/logging"
	"coop-loan-service/internal/infrastructure/metrics"
	"coop-loan-service/internal/usecase/approval"
	"coop-loan-service/internal/usecase/importer"
	"coop-loan-service/internal/usecase/loan"
	"coop-loan-service/internal/usecase/loanview"
	"coop-loan-service/internal/usecase/member"
)

func main() {
	if err := run(); err != nil {
		slog.Error("api stopped", slog.Any("err", err))
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	log := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)
	if err := cfg.Validate(); err != nil {
		return err
	}

	gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN(), db.LogLevel(cfg.LogLevel))
	if err != nil {
		return err
	}
	if cfg.AutoMigrate {
		if err := db.Migrate(gdb); err != nil {
			return err
		}
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer rdb.Close()

	pub := openPublisher(cfg, log)
	defer pub.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	notify := loanDomain.Notifiers{
		metrics.NewLoans(reg),
		events.Notifier{Pub: pub, Log: log, Timeout: 3 * time.Second},
	}

	pinLimiter, err := middleware.NewLimiter("coop_pin", cfg.PINRateLimit)
	if err != nil {
		return fmt.Errorf("RATE_LIMIT_PIN: %w", err)
	}
	importLimiter, err := middleware.NewLimiter("coop_import", cfg.ImportRateLimit)
	if err != nil {
		return fmt.Errorf("RATE_LIMIT_IMPORT: %w", err)
	}

	tx := mysql.NewGormUoW(gdb)
	loans := mysql.NewLoanRepository(gdb)
	members := mysql.NewMemberRepository(gdb)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Recover(), middleware.RequestLogger(log))
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	httpadp.Register(e, httpadp.Handlers{
		Health: httpadp.NewHandler(map[string]httpadp.Pinger{
			"db":    sqlDB.PingContext,
			"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		}),
		Members: httpadp.NewMemberHandler(member.NewUsecase(members)),
		Loans: httpadp.NewLoanHandler(
			loan.NewUsecase(loans, tx, loan.WithNotifier(notify), loan.WithLogger(log)),
			loanview.NewUsecase(loans, members),
		),
		Approval: httpadp.NewApprovalHandler(approval.NewUsecase(tx, approval.WithNotifier(notify), approval.WithLogger(log))),
		Import: httpadp.NewImportHandler(
			importer.NewUsecase(tx, importer.WithNotifier(notify), importer.WithLogger(log)),
			middleware.RecordBudget(importLimiter),
		),
	}, httpadp.Guards{
		Idempotency: middleware.Idempotency(rdb, cfg.IdempotencyTTL()),
		PINAttempts: middleware.RateLimit(pinLimiter),
	})

	return serve(e, ":"+cfg.AppPort, log)
}

// openPublisher falls back to a no-op publisher when AMQP is unset or down.
func openPublisher(cfg *config.Config, log *slog.Logger) events.Publisher {
	if cfg.AMQPURL == "" {
		log.Info("events: AMQP_URL not set, publishing disabled")
		return events.Fallback{Log: log}
	}
	p, err := events.NewProducer(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		log.Warn("events: broker unavailable, publishing disabled", slog.Any("err", err))
		return events.Fallback{Log: log}
	}
	return p
}

func serve(e *echo.Echo, addr string, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Info("listening", slog.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("shutting down")
	return e.Shutdown(shutdownCtx)
}
