// Command bysquared serves PAY by square encoding and decoding over
// HTTP.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pborman/getopt/v2"

	"github.com/unixdj/bysquare/abi"
)

func main() {
	addr := os.Getenv("BYSQUARED_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	getopt.FlagLong(&addr, "addr", 'a', "listen address; "+
		"default from BYSQUARED_ADDR", "host:port")
	debug := getopt.BoolLong("debug", 'd', "log rejected requests")
	getopt.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewJSONHandler(os.Stderr,
		&slog.HandlerOptions{Level: level}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", addr, "version", abi.Version())
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("listen", "err", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		log.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			log.Error("shutdown", "err", err)
		}
	}
}
