// Package serve wires configuration, clients, pipeline, and HTTP server
// together for the serve command.
package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/linklens/ai-engine/internal/config"
	"github.com/linklens/ai-engine/internal/pipeline"
	"github.com/linklens/ai-engine/internal/server"
	"github.com/linklens/ai-engine/pkg/extractor"
	"github.com/linklens/ai-engine/pkg/fetcher"
	"github.com/linklens/ai-engine/pkg/store"
	"github.com/linklens/ai-engine/pkg/summarizer"
)

const shutdownTimeout = 10 * time.Second

func Action(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	st, closeStore, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	var completer summarizer.ChatCompleter
	if cfg.OpenAIAPIKey != "" {
		completer = openai.NewClient(cfg.OpenAIAPIKey)
	} else {
		log.Warn("OPENAI_API_KEY not set, summary generation will be skipped")
	}

	pipe := pipeline.New(
		fetcher.New(),
		extractor.New(),
		summarizer.New(completer, log),
		nil, // embedding stage stays a no-op for now
		st,
		log,
	)
	srv := server.New(pipe, cfg.InternalAPIKey, log)

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: srv.Router(),
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("error during shutdown")
		}
	}()

	log.WithField("addr", cfg.ListenAddr).Info("LinkLens AI engine listening")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	log.Info("shutdown complete")
	return nil
}

// openStore picks the persistence backend: remote function endpoint when
// STORE_URL is configured, local SQLite otherwise.
func openStore(cfg config.Config, log logrus.FieldLogger) (store.Store, func(), error) {
	if cfg.StoreURL != "" {
		log.WithField("store_url", cfg.StoreURL).Info("using remote store backend")
		return store.NewRemote(cfg.StoreURL, cfg.StoreServiceKey), func() {}, nil
	}

	sqlite, err := store.OpenSQLite(cfg.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	log.WithField("path", sqlite.Path()).Info("using sqlite store backend")

	closeFn := func() {
		if err := sqlite.Close(); err != nil {
			log.WithError(err).Error("error closing database")
		}
	}
	return sqlite, closeFn, nil
}
