package cli

import (
	"context"
	"errors"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/subcommands"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"shop-simulator/handler"
	"shop-simulator/renderer"
)

// shopCmd runs the interactive menu.
type shopCmd struct {
	user string
}

func (*shopCmd) Name() string     { return "shop" }
func (*shopCmd) Synopsis() string { return "browse products, fill a cart and check out interactively" }
func (*shopCmd) Usage() string {
	return `shop [-u <user>]

  Starts the interactive menu. Prompts for a username when -u is not given.
`
}

func (c *shopCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.user, "u", "", "Username to shop as.")
}

func (c *shopCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		return fail("Error loading shop state: %v", err)
	}
	defer a.Close()

	md, err := newPrinter()
	if err != nil {
		return fail("Error preparing output: %v", err)
	}
	menu := NewMenu(a.svc, os.Stdin, os.Stdout, md, a.log)
	if err := menu.Login(ctx, strings.TrimSpace(c.user)); err != nil {
		if errors.Is(err, io.EOF) {
			return subcommands.ExitSuccess
		}
		return fail("Error: %v", err)
	}
	if err := menu.Run(ctx); err != nil {
		return fail("Error saving shop state: %v", err)
	}
	return subcommands.ExitSuccess
}

// productsCmd prints the catalog.
type productsCmd struct{}

func (*productsCmd) Name() string             { return "products" }
func (*productsCmd) Synopsis() string         { return "list the catalog with prices and stock" }
func (*productsCmd) Usage() string            { return "products\n" }
func (*productsCmd) SetFlags(_ *flag.FlagSet) {}

func (c *productsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		return fail("Error loading shop state: %v", err)
	}
	defer a.Close()

	var b strings.Builder
	renderer.Products(&b, a.svc.ListProducts())
	md, err := newPrinter()
	if err != nil {
		return fail("Error preparing output: %v", err)
	}
	if err := md.Print(b.String()); err != nil {
		return fail("Error: %v", err)
	}
	return subcommands.ExitSuccess
}

// historyCmd prints the completed checkouts of one user.
type historyCmd struct {
	user string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "show a user's completed purchases" }
func (*historyCmd) Usage() string {
	return `history -u <user>
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.user, "u", "", "Username to report on.")
}

func (c *historyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.user == "" {
		return subcommands.ExitUsageError
	}
	a, err := openApp(ctx)
	if err != nil {
		return fail("Error loading shop state: %v", err)
	}
	defer a.Close()

	txs, err := a.svc.History(ctx, c.user)
	if err != nil {
		return fail("Error: %v", err)
	}
	var b strings.Builder
	renderer.History(&b, c.user, txs)
	md, err := newPrinter()
	if err != nil {
		return fail("Error preparing output: %v", err)
	}
	if err := md.Print(b.String()); err != nil {
		return fail("Error: %v", err)
	}
	return subcommands.ExitSuccess
}

// serveCmd exposes the shop over HTTP.
type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the shop as a JSON HTTP API" }
func (*serveCmd) Usage() string {
	return `serve [-addr <host:port>]

  Serves products, carts and checkout over HTTP until interrupted.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", cfg.HTTPAddr, "Address to listen on.")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		return fail("Error loading shop state: %v", err)
	}
	defer a.Close()

	r := mux.NewRouter()
	handler.NewHandler(a.svc, a.log).RegisterRoutes(r)

	srv := &http.Server{
		Addr:              c.addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		a.log.Info("http listen", zap.String("addr", c.addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fail("Server error: %v", err)
		}
	case <-ctx.Done():
		a.log.Info("shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("http shutdown", zap.Error(err))
	}
	if err := a.svc.Save(shutdownCtx); err != nil {
		return fail("Error saving shop state: %v", err)
	}
	return subcommands.ExitSuccess
}
