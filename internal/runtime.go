package internal

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrymomot/filesmanager/pkg/logger"
)

type runtimeConfig struct {
	handler         http.Handler
	address         string
	logger          *slog.Logger
	shutdownTimeout time.Duration
	startupHooks    []func(context.Context) error
	shutdownHooks   []func(context.Context) error
	baseCtx         context.Context
}

// runServer runs startup hooks, serves until the context is cancelled by a
// signal, then shuts the server down and runs shutdown hooks in order.
func runServer(cfg runtimeConfig) error {
	if cfg.address == "" {
		cfg.address = ":5000"
	}
	if cfg.shutdownTimeout <= 0 {
		cfg.shutdownTimeout = defaultShutdownTimeout
	}
	log := logger.OrNope(cfg.logger)

	baseCtx := cfg.baseCtx
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	ctx, cancel := signal.NotifyContext(baseCtx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	server := &http.Server{
		Addr:              cfg.address,
		Handler:           cfg.handler,
		ReadTimeout:       defaultReadTimeout,
		WriteTimeout:      defaultWriteTimeout,
		IdleTimeout:       defaultIdleTimeout,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		MaxHeaderBytes:    defaultMaxHeaderBytes,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}

	for _, hook := range cfg.startupHooks {
		if err := hook(ctx); err != nil {
			log.Error("startup hook failed", slog.Any("error", err))
			return errors.Join(err, runHooks(cfg.shutdownHooks, cfg.shutdownTimeout, log))
		}
	}

	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return errors.Join(err, runHooks(cfg.shutdownHooks, cfg.shutdownTimeout, log))
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", slog.String("address", ln.Addr().String()))
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case serveErr = <-errCh:
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.shutdownTimeout)
	defer shutdownCancel()

	errs := []error{serveErr}
	if err := server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	errs = append(errs, runHooks(cfg.shutdownHooks, cfg.shutdownTimeout, log))

	if err := errors.Join(errs...); err != nil {
		log.Error("shutdown completed with errors", slog.Any("error", err))
		return err
	}
	log.Info("shutdown completed")
	return nil
}

func runHooks(hooks []func(context.Context) error, timeout time.Duration, log *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	for _, hook := range hooks {
		if err := hook(ctx); err != nil {
			log.Error("shutdown hook failed", slog.Any("error", err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
