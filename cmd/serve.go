package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/desertthunder/songboard/internal/server"
	"github.com/desertthunder/songboard/internal/shared"
	"github.com/desertthunder/songboard/internal/web"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// Serve runs the HTTP API with the browser UI mounted under [web.Prefix] until the context is
// cancelled or the process receives SIGINT/SIGTERM.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if host := cmd.String("host"); host != "" {
		r.config.Server.Host = host
	}
	if port := cmd.Int("port"); port > 0 {
		r.config.Server.Port = port
	}

	if !r.config.Credentials.Spotify.Configured() {
		r.logger.Warn("Spotify credentials not configured; catalog routes will respond with 400",
			"env", "SPOTIFY_CLIENT_ID, SPOTIFY_CLIENT_SECRET")
	}

	ln, err := net.Listen("tcp", r.config.Server.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", r.config.Server.Addr(), err)
	}
	if r.config.Server.BackendURL == "" {
		r.config.Server.BackendURL = shared.URLForAddr(ln.Addr().String())
	}

	handler, err := r.newServerHandler()
	if err != nil {
		ln.Close()
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return r.serve(ctx, ln, handler, cmd.Bool("open"))
}

// newServerHandler wires the gateway, the facade and the browser UI.
func (r *Runner) newServerHandler() (http.Handler, error) {
	svc, err := r.gateway()
	if err != nil {
		return nil, err
	}

	api, err := r.api()
	if err != nil {
		return nil, err
	}

	ui, err := web.New(web.Opts{
		Catalog:    api,
		BackendURL: r.config.Server.BaseURL(),
		Logger:     r.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create web UI: %w", err)
	}

	return server.NewFacade(server.FacadeOpts{
		Service:   svc,
		Logger:    r.logger,
		RateLimit: r.config.Server.RateLimit,
		Burst:     r.config.Server.Burst,
		Handlers:  []server.Handler{ui},
		Mounts:    map[string]http.Handler{web.Prefix + "/static/": ui.Static()},
	}), nil
}

// serve runs srv on ln and shuts it down gracefully once ctx is done.
func (r *Runner) serve(ctx context.Context, ln net.Listener, handler http.Handler, open bool) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		r.logger.Info("server listening", "addr", ln.Addr().String(), "ui", r.uiURL())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		r.logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	})

	if open {
		if err := shared.OpenBrowser(r.uiURL()); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
		}
	}

	return g.Wait()
}

func (r *Runner) uiURL() string {
	return strings.TrimSuffix(r.config.Server.BaseURL(), "/") + web.Prefix + "/"
}
