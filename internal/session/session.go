package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/graphway/graphway/client"
	"github.com/graphway/graphway/internal/graphsync"
	"github.com/graphway/graphway/internal/models"
)

// ErrUnauthorized means the store refused the admin token.
var ErrUnauthorized = errors.New("admin token rejected")

// ErrClosed is returned by a Session after Close.
var ErrClosed = errors.New("session closed")

// Session is an authenticated operator connection. It exists only after the
// store has accepted the token.
type Session struct {
	mu      sync.Mutex
	client  *client.Client
	contest models.Contest
	creds   *CredentialStore
	closed  bool
}

// Open authenticates against the store at storeURL. A nil creds leaves
// nothing on disk.
func Open(ctx context.Context, storeURL, token string, creds *CredentialStore, opts ...client.Option) (*Session, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", ErrUnauthorized)
	}

	opts = append([]client.Option{client.WithAdminToken(token)}, opts...)
	c := client.New(storeURL, opts...)

	contest, err := graphsync.NewRemote(c).AdminStatus(ctx)
	if err != nil {
		if client.IsUnauthorized(err) {
			return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
		}
		return nil, fmt.Errorf("verifying admin token: %w", err)
	}

	return &Session{client: c, contest: contest, creds: creds}, nil
}

// Resume opens a session from saved credentials.
func Resume(ctx context.Context, creds *CredentialStore, opts ...client.Option) (*Session, error) {
	saved, err := creds.Load()
	if err != nil {
		return nil, err
	}

	return Open(ctx, saved.StoreURL, saved.AdminToken, creds, opts...)
}

// Login opens a session and persists its credentials.
func Login(ctx context.Context, storeURL, token string, creds *CredentialStore, opts ...client.Option) (*Session, error) {
	s, err := Open(ctx, storeURL, token, creds, opts...)
	if err != nil {
		return nil, err
	}

	if err := creds.Save(Credentials{
		StoreURL:   s.client.BaseURL(),
		AdminToken: token,
		Contest:    s.contest.Name,
	}); err != nil {
		return nil, err
	}

	return s, nil
}

// Client returns the authenticated API client.
func (s *Session) Client() (*client.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	return s.client, nil
}

// Store returns the session's graph store.
func (s *Session) Store() (graphsync.Store, error) {
	c, err := s.Client()
	if err != nil {
		return nil, err
	}

	return graphsync.NewRemote(c), nil
}

// Contest returns the contest reported when the session opened.
func (s *Session) Contest() models.Contest {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.contest
}

// Close ends the session and clears any saved credentials.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.client = nil

	if s.creds == nil {
		return nil
	}

	return s.creds.Clear()
}
