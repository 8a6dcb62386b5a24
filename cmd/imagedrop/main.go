package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"image-drop/internal/config"
	"image-drop/internal/server"
)

// Set with -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// run serves until ctx is cancelled or the listener fails, then drains
// in-flight requests for up to the configured shutdown timeout.
func run(ctx context.Context, cfg *config.Config, logger *server.Logger) error {
	build := server.BuildInfo{Version: version, Commit: commit}

	srv := server.New(server.Config{
		Addr:  cfg.Addr(),
		Build: build,
		Auth: server.AuthConfig{
			Username:     cfg.Auth.Username,
			Password:     cfg.Auth.Password,
			PasswordHash: cfg.Auth.PasswordHash,
			Realm:        cfg.Auth.Realm,
		},
		UploadDir:         cfg.Storage.UploadPath,
		UploadRoute:       cfg.HTTP.UploadRoute,
		PublicURL:         cfg.HTTP.HostURL,
		MaxUploadBytes:    cfg.Storage.MaxUploadBytes,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		Logger:            logger,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting", map[string]interface{}{
			"addr":    cfg.Addr(),
			"route":   cfg.HTTP.UploadRoute,
			"dir":     cfg.Storage.UploadPath,
			"version": build.Version,
			"commit":  build.Commit,
		})
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting_down", nil)

		timeout := cfg.HTTP.ShutdownTimeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
