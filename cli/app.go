// Package cli implements the command line front end of the shop.
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"shop-simulator/config"
	"shop-simulator/obs"
	"shop-simulator/renderer"
	"shop-simulator/service"
	"shop-simulator/store"
)

// Register the subcommands.
func Register(c *subcommands.Commander) {
	c.Register(&shopCmd{}, "shopping")
	c.Register(&productsCmd{}, "shopping")
	c.Register(&historyCmd{}, "shopping")

	c.Register(&serveCmd{}, "server")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var cfg = config.Load()

var (
	inventoryFile = flag.String("inventory-file", cfg.InventoryFile, "Path to the inventory JSON file")
	usersFile     = flag.String("users-file", cfg.UsersFile, "Path to the users JSON file")
	storeKind     = flag.String("store", cfg.Store, "Persistence backend: json or postgres")
	databaseDSN   = flag.String("dsn", cfg.DatabaseDSN, "Postgres connection string, used with -store=postgres")
	logLevel      = flag.String("log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	logFormat     = flag.String("log-format", cfg.LogFormat, "Log format: console or json")
)

// app is what every subcommand needs: a logger, the store and a loaded service.
type app struct {
	log   *zap.Logger
	store store.Store
	svc   *service.Service
}

func openApp(ctx context.Context) (*app, error) {
	log, err := obs.NewLogger(*logLevel, *logFormat)
	if err != nil {
		return nil, err
	}
	st, err := openStore(ctx, log)
	if err != nil {
		return nil, err
	}
	engine := service.NewEngine(log)
	engine.StartingBalance = cfg.StartingBalance
	svc, err := service.NewService(ctx, st, engine, log)
	if err != nil {
		st.Close()
		return nil, err
	}
	return &app{log: log, store: st, svc: svc}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("closing store", zap.Error(err))
	}
	_ = a.log.Sync()
}

func openStore(ctx context.Context, log *zap.Logger) (store.Store, error) {
	switch *storeKind {
	case config.StoreJSON:
		return store.NewJSONStore(*inventoryFile, *usersFile, log), nil
	case config.StorePostgres:
		pg, err := store.NewPostgresStore(ctx, *databaseDSN, log)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pg.Migrate(ctx); err != nil {
			pg.Close()
			return nil, err
		}
		return pg, nil
	default:
		return nil, fmt.Errorf("unknown store %q", *storeKind)
	}
}

// newPrinter styles Markdown only when stdout is a terminal.
func newPrinter() (*renderer.Printer, error) {
	fd := os.Stdout.Fd()
	return renderer.NewPrinter(os.Stdout, isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd))
}

// fail prints err and returns the failure status.
func fail(format string, args ...interface{}) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	return subcommands.ExitFailure
}
