package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/graphway/graphway/internal/graphsync"
)

var errNoStore = errors.New("store disabled in test")

// executeArgs runs a fresh root command with args. The store is stubbed out
// so argument errors are the only thing under test.
func executeArgs(t *testing.T, args ...string) error {
	t.Helper()
	resetFlags(t)
	isolate(t)

	prev := newStore
	newStore = func(context.Context, bool) (graphsync.Store, error) { return nil, errNoStore }
	t.Cleanup(func() { newStore = prev })

	root := newRootCmd()
	root.SetOut(&strings.Builder{})
	root.SetErr(&strings.Builder{})
	root.SetArgs(args)
	_, err := root.ExecuteC()
	return err
}

func TestCommandArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantArg bool // true when the arguments themselves are invalid
	}{
		{"show takes no args", []string{"graph", "show", "x"}, true},
		{"show", []string{"graph", "show"}, false},
		{"connect needs two", []string{"graph", "connect", "a1"}, true},
		{"connect", []string{"graph", "connect", "a1", "b2"}, false},
		{"delete-node needs one", []string{"graph", "delete-node"}, true},
		{"delete-edge needs two", []string{"graph", "delete-edge", "a1", "b2", "c3"}, true},
		{"move needs three", []string{"graph", "move", "a1", "10"}, true},
		{"edit needs one", []string{"graph", "edit"}, true},
		{"add-node takes no args", []string{"graph", "add-node", "a1"}, true},
		{"team view needs a token", []string{"team", "view"}, true},
		{"team solve needs two", []string{"team", "solve", "t1"}, true},
		{"team unsolve", []string{"team", "unsolve", "t1", "a1"}, false},
		{"team inspect", []string{"team", "inspect", "t1"}, false},
		{"serve takes no args", []string{"serve", "now"}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := executeArgs(t, tc.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			gotArg := !errors.Is(err, errNoStore)
			if gotArg != tc.wantArg {
				t.Errorf("argument error = %v, want %v (err: %v)", gotArg, tc.wantArg, err)
			}
		})
	}
}

func TestMoveRejectsBadCoordinates(t *testing.T) {
	err := executeArgs(t, "graph", "move", "a1", "left", "10")
	if err == nil || !strings.Contains(err.Error(), "x:") {
		t.Errorf("expected x parse error, got %v", err)
	}
}
