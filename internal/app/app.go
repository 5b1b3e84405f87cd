// Package app wires configuration into the component graph and owns
// the HTTP server lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"QuizSolver/internal/api"
	"QuizSolver/internal/config"
	"QuizSolver/internal/extract"
	"QuizSolver/internal/fetcher"
	"QuizSolver/internal/llm"
	"QuizSolver/internal/logging"
	"QuizSolver/internal/ports"
	"QuizSolver/internal/session"
	"QuizSolver/internal/solver"
	"QuizSolver/internal/storage"
	"QuizSolver/internal/submit"
	"QuizSolver/internal/usecase"
)

const shutdownGrace = 10 * time.Second

// Application holds the wired component graph.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	sessions *session.Manager
	store    ports.ResultStore
	handler  http.Handler
}

// New builds a runnable application instance from configuration.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	store, err := storage.NewSQLite(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open result store: %w", err)
	}

	sessions := session.NewManager(func() ports.PageFetcher {
		return fetcher.New(nil, baseLogger.With("component", "fetcher"))
	}, baseLogger.With("component", "sessions"))

	downloader := fetcher.NewDownloader(nil)

	registry := extract.NewRegistry()
	registry.Register(extract.NewCommandExtractor(cfg.Quiz.Email))
	registry.Register(extract.MarkdownLinkExtractor{})
	registry.Register(extract.NewImageColorExtractor(downloader, baseLogger.With("component", "extract.image")))
	registry.Register(extract.NewCSVNormalizeExtractor(downloader, baseLogger.With("component", "extract.csv")))
	registry.Register(extract.NewPDFInvoiceExtractor(downloader, baseLogger.With("component", "extract.pdf")))
	registry.Register(extract.NewGithubTreeExtractor(nil, cfg.Quiz.Email, baseLogger.With("component", "extract.github")))

	completer := llm.NewClient(cfg.LLM, cfg.Quiz.MaxRetries, baseLogger.With("component", "llm"))
	answerer := solver.New(registry, completer, baseLogger.With("component", "solver"))
	submitter := submit.NewClient(nil, baseLogger.With("component", "submit"))

	loop := usecase.NewLoop(usecase.LoopDeps{
		Sessions:  sessions,
		Answerer:  answerer,
		Submitter: submitter,
		Store:     store,
		Timeout:   cfg.Quiz.Timeout(),
		Logger:    baseLogger.With("component", "loop"),
	})

	handler := api.NewHandler(api.HandlerDeps{
		Email:    cfg.Quiz.Email,
		Secret:   cfg.Quiz.Secret,
		Sessions: sessions,
		Loop:     loop,
		Store:    store,
		Logger:   baseLogger.With("component", "api"),
	})

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		sessions: sessions,
		store:    store,
		handler:  handler.Router(),
	}, nil
}

// Run serves HTTP until the context is canceled, then drains sessions
// and closes the store.
func (a *Application) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              a.cfg.Server.Addr(),
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.cleanup()
			return fmt.Errorf("serve http: %w", err)
		}
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http shutdown", "error", err)
	}

	a.cleanup()
	return nil
}

func (a *Application) cleanup() {
	a.sessions.Shutdown()
	if err := a.store.Close(); err != nil {
		a.logger.Error("close result store", "error", err)
	}
}
