package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/galihfr09/CashTracker/internal/amqp"
	"github.com/galihfr09/CashTracker/internal/categories"
	"github.com/galihfr09/CashTracker/internal/config"
	"github.com/galihfr09/CashTracker/internal/core"
	apphttp "github.com/galihfr09/CashTracker/internal/http"
	applog "github.com/galihfr09/CashTracker/internal/log"
	"github.com/galihfr09/CashTracker/internal/remote"
	"github.com/galihfr09/CashTracker/internal/remote/memory"
	"github.com/galihfr09/CashTracker/internal/remote/rest"
	"github.com/galihfr09/CashTracker/internal/remote/sheets"
	"github.com/galihfr09/CashTracker/internal/session"
	"github.com/galihfr09/CashTracker/internal/storage"
	"github.com/galihfr09/CashTracker/internal/store"
)

func main() {
	// Load .env for local development; ignore absence in production.
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Local KV backing the category blob.
	kv, err := storage.NewSQLiteKV(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open local storage", applog.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer kv.Close()

	cats, err := categories.Load(ctx, kv)
	if err != nil {
		logger.Error("Failed to load categories", applog.FieldError, err)
		os.Exit(1)
	}

	auth, data, err := buildBackend(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize remote backend", applog.FieldError, err, applog.FieldBackend, cfg.RemoteBackend)
		os.Exit(1)
	}
	logger.Info("Remote backend initialized", applog.FieldBackend, cfg.RemoteBackend)

	sessions := session.NewManager(auth)
	defer sessions.Close()

	st := store.New(data, sessions)

	// A freshly established session triggers a full fetch so pages render
	// with data immediately.
	sessions.OnChange(func(sess *core.Session) {
		if sess == nil {
			return
		}
		if err := st.FetchAll(ctx); err != nil {
			logger.Warn("Fetch after session change failed", applog.FieldError, err, applog.FieldOwner, sess.UserID)
		}
	})
	if err := sessions.Start(ctx); err != nil {
		logger.Error("Failed to start session manager", applog.FieldError, err)
		os.Exit(1)
	}

	// Optional AMQP publishing of created transactions.
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without event publishing", applog.FieldError, err)
		} else {
			defer amqpClient.Close()
			st.Subscribe(amqpClient.StoreListener(ctx))
			logger.Info("AMQP event publishing enabled", "exchange", cfg.AMQPExchange)
		}
	}

	srv := apphttp.NewServer(":"+cfg.Port, st, sessions, auth, cats)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting cashtracker server", "port", cfg.Port, applog.FieldBackend, cfg.RemoteBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

// buildBackend wires the configured remote store. Backends without
// interactive auth establish a fixed single-user session up front.
func buildBackend(ctx context.Context, cfg *config.Config) (remote.Authenticator, remote.DataStore, error) {
	switch cfg.RemoteBackend {
	case "rest":
		cli, err := rest.NewFromEnv()
		if err != nil {
			return nil, nil, err
		}
		return cli, cli, nil
	case "sheets":
		data, err := sheets.NewFromEnv(ctx)
		if err != nil {
			return nil, nil, err
		}
		auth := memory.New()
		auth.SignInAs(cfg.LocalUserID, cfg.LocalUserEmail)
		return auth, data, nil
	default:
		backend := memory.New()
		backend.SignInAs(cfg.LocalUserID, cfg.LocalUserEmail)
		return backend, backend, nil
	}
}
