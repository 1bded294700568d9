// Command duesctl runs the dues maintenance operations of one club from the
// command line.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/clube/backend/internal/application/calendar"
	duesapp "github.com/clube/backend/internal/application/dues"
	"github.com/clube/backend/internal/infrastructure/config"
	"github.com/clube/backend/internal/infrastructure/logger"
	"github.com/clube/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

func main() {
	if len(os.Args) < 2 || os.Args[1] == "-h" || os.Args[1] == "help" {
		printUsage(os.Stderr)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the command result; logs go to stderr
	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: "console", Output: "stderr"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	db, err := persistence.NewDatabase(&cfg.Database,
		persistence.WithLogger(logger.NewGormLogger(log, logger.MapGormLogLevel("warn"))))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	tenants := persistence.NewGormTenantRepository(db.DB)
	service := duesapp.NewDuesService(duesapp.DuesServiceConfig{
		DuesRepo:         persistence.NewGormDuesRepository(db.DB),
		Billable:         persistence.NewGormBillableMemberSource(db.DB),
		MemberRepo:       persistence.NewGormMemberRepository(db.DB),
		CategoryRepo:     persistence.NewGormCategoryRepository(db.DB),
		CashBoxRepo:      persistence.NewGormCashBoxRepository(db.DB),
		ChartRepo:        persistence.NewGormChartAccountRepository(db.DB),
		LedgerRepo:       persistence.NewGormLedgerEntryRepository(db.DB),
		SettingsRepo:     persistence.NewGormSettingsRepository(db.DB),
		TxManager:        persistence.NewGormTransactionManager(db.DB),
		Calendar:         calendar.NewTenantCalendar(tenants),
		Logger:           log,
		DefaultLookahead: cfg.Dues.Lookahead,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, service, tenants); err != nil {
		if errors.Is(err, errUsage) {
			printUsage(os.Stderr)
		}
		log.Error("Command failed", zap.String("command", os.Args[1]), zap.Error(err))
		stop()
		db.Close()
		os.Exit(1)
	}
}
