package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sievedata/sieve/schemecfg"
	"github.com/sievedata/sieve/service"
	"github.com/sievedata/sieve/service/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

func serveCommand(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	schemePath := fs.String("s", "", "path to scheme YAML file")
	listenAddr := fs.String("l", ":9867", "listen address")
	logPath := fs.String("log", "stderr", "log destination (stdout, stderr, or a file path)")
	cacheSize := fs.Int("cache", 256, "compiled filter cache size")
	var logMode logger.FileMode
	fs.Var(&logMode, "logmode", "log file mode: append, truncate, or rotate")
	logLevel := zapcore.InfoLevel
	fs.Var(&logLevel, "loglevel", "log level")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *schemePath == "" {
		return errors.New("serve requires -s <scheme>")
	}
	scheme, err := schemecfg.Load(*schemePath)
	if err != nil {
		return err
	}
	log, err := logger.New(logger.Config{Path: *logPath, Mode: logMode, Level: logLevel})
	if err != nil {
		return err
	}
	defer log.Sync()

	core, err := service.NewCore(service.Config{
		Scheme:    scheme,
		Logger:    log,
		CacheSize: *cacheSize,
		Version:   version,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{Addr: *listenAddr, Handler: core}
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("Listening", zap.String("addr", *listenAddr), zap.Int("fields", scheme.FieldCount()))
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return group.Wait()
}
