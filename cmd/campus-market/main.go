package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campus-market-go/internal/app"
	"campus-market-go/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := logger.NewFromEnv()
	os.Exit(run(log))
}

func run(log logger.Logger) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("campus-market: starting")
	application, err := app.New(ctx, log)
	if err != nil {
		log.Critical("campus-market: init failed", "err", err)
		return 1
	}

	srv := application.HTTPServer()
	serveErr := make(chan error, 1)
	go func() {
		log.Info("http: listening", "addr", srv.Addr)
		err := srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		serveErr <- err
	}()

	code := 0
	select {
	case <-ctx.Done():
		log.Info("campus-market: shutting down")
	case err := <-serveErr:
		if err != nil {
			log.Critical("http: serve failed", "addr", srv.Addr, "err", err)
			code = 1
		}
	}

	// Pending campus lookups share the same deadline as in-flight requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http: shutdown failed", "err", err)
		code = 1
	}
	if err := application.Close(shutdownCtx); err != nil {
		log.Error("campus-market: close failed", "err", err)
		code = 1
	}

	log.Info("campus-market: stopped")
	return code
}
