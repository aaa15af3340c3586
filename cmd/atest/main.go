package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/atest/internal/cli"
	"github.com/alexanderramin/atest/internal/config"
	"github.com/alexanderramin/atest/internal/db"
	"github.com/alexanderramin/atest/internal/domain"
	"github.com/alexanderramin/atest/internal/logging"
	"github.com/alexanderramin/atest/internal/repository"
	"github.com/alexanderramin/atest/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	logging.Init(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	if err := cfg.EnsureHome(); err != nil {
		return err
	}

	// Open the state database (recently opened documents)
	database, err := db.OpenDB(cfg.StateDB)
	if err != nil {
		return fmt.Errorf("opening state database: %w", err)
	}
	defer database.Close()

	recentRepo := repository.NewSQLiteRecentDocumentRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	useCaseLevel := slog.LevelDebug
	if cfg.LogUseCases {
		useCaseLevel = slog.LevelInfo
	}
	observer := service.NewLogUseCaseObserver(logging.New("usecase"), useCaseLevel)

	registry := domain.DefaultRegistry()
	app := &cli.App{
		Docs:     service.NewDocumentService(registry, recentRepo, uow, cfg.RecentLimit, observer),
		Registry: registry,
	}

	// The browser and edit forms need a terminal on stdin.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
