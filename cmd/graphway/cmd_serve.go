package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/graphway/graphway/client"
	"github.com/graphway/graphway/internal/api"
	"github.com/graphway/graphway/internal/config"
	"github.com/graphway/graphway/internal/editor"
	"github.com/graphway/graphway/internal/graphsync"
	"github.com/graphway/graphway/internal/idgen"
	"github.com/graphway/graphway/internal/models"
	"github.com/graphway/graphway/internal/ws"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run an editor session behind a local HTTP and WebSocket API",
		Long: `Run one editor session and expose it to a renderer on a loopback port.

Frames stream over /api/v1/ws; gestures arrive over the socket or POST /api/v1/gestures.
Settings come from GRAPHWAY_* environment variables; flags override them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := serveConfig(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, serverLogger(cfg.LogLevel))
		},
	}

	f := cmd.Flags()
	f.Bool("demo", false, "Serve a seeded in-memory graph instead of a remote store")
	f.String("port", "", "Listen port (GRAPHWAY_PORT)")
	f.String("mode", "", "Session mode: editor, readonly or teamInspect (GRAPHWAY_MODE)")
	f.String("team-token", "", "Participant token for readonly mode (GRAPHWAY_TEAM_TOKEN)")
	f.String("team-id", "", "Team to inspect in teamInspect mode (GRAPHWAY_TEAM_ID)")

	return cmd
}

// serveConfig layers changed flags over the environment and validates.
func serveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}

	f := cmd.Flags()
	if f.Changed("demo") {
		cfg.Demo, _ = f.GetBool("demo")
	}
	if f.Changed("port") {
		cfg.Port, _ = f.GetString("port")
	}
	if f.Changed("mode") {
		mode, _ := f.GetString("mode")
		cfg.Mode = models.Mode(mode)
	}
	if f.Changed("team-token") {
		tok, _ := f.GetString("team-token")
		cfg.TeamToken = config.Secret(tok)
	}
	if f.Changed("team-id") {
		cfg.TeamID, _ = f.GetString("team-id")
	}
	if flagURL != defaultURL {
		cfg.StoreURL = strings.TrimRight(flagURL, "/")
	}
	if cfg.AdminToken.Value() == "" && flagToken != "" {
		cfg.AdminToken = config.Secret(flagToken)
	}

	if cfg.Demo {
		if cfg.Mode == models.ModeReadOnly && cfg.TeamToken.Value() == "" {
			cfg.TeamToken = demoTeamToken
		}
		if cfg.Mode == models.ModeTeamInspect && cfg.TeamID == "" {
			cfg.TeamID = demoTeamID
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func serverLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	return log
}

func serveStore(cfg *config.Config) graphsync.Store {
	if cfg.Demo {
		return demoStore(cfg.Mode, time.Now())
	}

	opts := []client.Option{
		client.WithTimeout(cfg.RequestTimeout),
		client.WithUserAgent("graphway/" + config.Version),
	}
	if tok := cfg.AdminToken.Value(); tok != "" {
		opts = append(opts, client.WithAdminToken(tok))
	}

	return graphsync.NewRemote(client.New(cfg.StoreURL, opts...))
}

// serve runs the editor, the frame hub and the HTTP server until ctx ends.
func serve(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	newID, err := idgen.ByName(cfg.IDGenerator)
	if err != nil {
		return err
	}

	syncer := graphsync.NewSyncer(serveStore(cfg), cfg.TeamID, log)
	ed, err := editor.New(syncer, log, editor.Options{
		Mode:         cfg.Mode,
		TeamToken:    cfg.TeamToken.Value(),
		PollInterval: cfg.PollInterval,
		NewID:        newID,
	})
	if err != nil {
		return err
	}

	hub := ws.NewHub(ed, log)

	g, ctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: api.NewRouter(ctx, &api.RouterDeps{
			Log:         log,
			Session:     ed,
			Hub:         hub,
			CORSOrigins: cfg.CORSOrigins,
			Version:     config.Version,
		}),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g.Go(func() error { return ed.Run(ctx) })
	g.Go(func() error {
		hub.Run(ctx)
		return nil
	})
	g.Go(func() error {
		log.WithFields(logrus.Fields{
			"addr": srv.Addr,
			"mode": cfg.Mode,
			"demo": cfg.Demo,
		}).Info("graphway serve listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")

		hub.Shutdown()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			srv.Close() //nolint:errcheck // best effort after a failed graceful stop
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	})

	return g.Wait()
}
