package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/graphway/graphway/client"
	"github.com/graphway/graphway/internal/config"
	"github.com/graphway/graphway/internal/editor"
	"github.com/graphway/graphway/internal/graphsync"
	"github.com/graphway/graphway/internal/interaction"
	"github.com/graphway/graphway/internal/session"
)

// newStore opens the store for a command. Tests replace it.
var newStore = openStore

// openStore returns an admin store when admin is set, else an anonymous one.
// Without an explicit token the saved login is used.
func openStore(ctx context.Context, admin bool) (graphsync.Store, error) {
	opts := []client.Option{client.WithUserAgent("graphway/" + config.Version)}

	if !admin {
		return graphsync.NewRemote(client.New(flagURL, opts...)), nil
	}

	if flagToken != "" {
		opts = append(opts, client.WithAdminToken(flagToken))
		return graphsync.NewRemote(client.New(flagURL, opts...)), nil
	}

	creds, err := session.DefaultCredentialStore()
	if err != nil {
		return nil, err
	}

	s, err := session.Resume(ctx, creds, opts...)
	if errors.Is(err, session.ErrNoCredentials) {
		return nil, errors.New("not logged in: run `graphway login` or set GRAPHWAY_ADMIN_TOKEN")
	}
	if err != nil {
		return nil, err
	}

	return s.Store()
}

func cliLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log.SetLevel(logrus.WarnLevel)

	return log
}

// headless is an editor session without a renderer.
type headless struct {
	ed     *editor.Editor
	store  graphsync.Store
	cancel context.CancelFunc
}

// startHeadless opens a session and waits for its first load.
func startHeadless(ctx context.Context, store graphsync.Store, teamID string, opts editor.Options) (*headless, error) {
	if opts.PollInterval == 0 {
		opts.PollInterval = -1
	}

	ed, err := editor.New(graphsync.NewSyncer(store, teamID, cliLogger()), cliLogger(), opts)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	go ed.Run(ctx) //nolint:errcheck // Run only returns nil

	select {
	case <-ed.Loaded():
	case <-ctx.Done():
		cancel()
		return nil, ctx.Err()
	}

	h := &headless{ed: ed, store: store, cancel: cancel}
	f := ed.Frame()
	switch {
	case f.Redirect != "":
		h.close()
		return nil, errors.New("team token not recognised")
	case f.Error != "":
		h.close()
		return nil, fmt.Errorf("loading graph: %s", f.Error)
	}

	return h, nil
}

// do submits gestures in order and stops at the first failure.
func (h *headless) do(gs ...interaction.Gesture) (editor.Outcome, error) {
	var out editor.Outcome
	for _, g := range gs {
		out = <-h.ed.Submit(g)
		if out.Err != nil {
			return out, out.Err
		}
		if out.ReloadErr != nil {
			cliLogger().WithError(out.ReloadErr).Warn("change saved but the graph could not be reloaded")
		}
	}

	return out, nil
}

func (h *headless) close() {
	h.cancel()
	<-h.ed.Done()
}
