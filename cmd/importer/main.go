// Command importer loads historical approved loans from a CSV export
// (columns pin, amount, approvedDate, approvedBy) into the database.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"coop-loan-service/internal/adapter/repository/mysql"
	"coop-loan-service/internal/config"
	loanDomain "coop-loan-service/internal/domain/loan"
	"coop-loan-service/internal/infrastructure/db"
	"coop-loan-service/internal/infrastructure/events"
	"coop-loan-service/internal/infrastructure/logging"
	"coop-loan-service/internal/usecase/importer"
)

func main() {
	file := flag.String("file", "-", "CSV file to import, - for stdin")
	by := flag.String("by", "", "approver recorded when the row has none")
	report := flag.Bool("json", false, "print the full batch result as JSON")
	flag.Parse()

	if err := run(*file, *by, *report); err != nil {
		slog.Error("import failed", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(file, by string, report bool) error {
	cfg := config.Load()
	log := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)
	if err := cfg.Validate(); err != nil {
		return err
	}

	var in io.Reader = os.Stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	recs, err := importer.ReadCSV(in)
	if err != nil {
		return err
	}
	for i := range recs {
		if recs[i].ApprovedBy == "" {
			recs[i].ApprovedBy = by
		}
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
	if sqlDB, err := gdb.DB(); err == nil {
		defer sqlDB.Close()
	}

	var pub events.Publisher = events.Fallback{Log: log}
	if cfg.AMQPURL != "" {
		if p, err := events.NewProducer(cfg.AMQPURL, cfg.AMQPExchange); err != nil {
			log.Warn("events: broker unavailable, publishing disabled", slog.Any("err", err))
		} else {
			pub = p
		}
	}
	defer pub.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	uc := importer.NewUsecase(mysql.NewGormUoW(gdb),
		importer.WithNotifier(loanDomain.Notifiers{events.Notifier{Pub: pub, Log: log}}),
		importer.WithLogger(log),
	)
	res := uc.ImportBatch(ctx, recs)

	if report {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	for i, r := range res.Results {
		if r.Success {
			fmt.Printf("row %d: %s (%s)\n", i+1, r.Message, r.LoanID)
			continue
		}
		fmt.Printf("row %d: [%s] %s\n", i+1, r.Code, r.Error)
	}
	fmt.Printf("total=%d imported=%d failed=%d\n", res.Total, res.Imported, res.Failed)
	return nil
}
