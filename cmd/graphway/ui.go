package main

import (
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/graphway/graphway/internal/models"
)

var (
	brand  = color.New(color.FgHiGreen, color.Bold)
	subtle = color.New(color.FgHiBlack)
	warn   = color.New(color.FgYellow)
	good   = color.New(color.FgGreen)
	bad    = color.New(color.FgRed)
)

// shouldUseColor respects NO_COLOR, CLICOLOR_FORCE, CLICOLOR and TTY detection.
func shouldUseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if strings.TrimSpace(os.Getenv("CLICOLOR_FORCE")) == "1" {
		return true
	}
	if strings.TrimSpace(os.Getenv("CLICOLOR")) == "0" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func applyColor() {
	color.NoColor = !shouldUseColor() || flagFmt == "json"
}

func statusIcon(ok bool) string {
	if ok {
		return good.Sprint("✓")
	}
	return bad.Sprint("✗")
}

// statusCell renders a node status for tables.
func statusCell(s models.Status) string {
	switch s {
	case models.StatusSolved:
		return good.Sprint("solved")
	case models.StatusAvailable:
		return warn.Sprint("available")
	case models.StatusLocked:
		return subtle.Sprint("locked")
	default:
		return "-"
	}
}
