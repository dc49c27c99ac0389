package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/graphway/graphway/client"
	"github.com/graphway/graphway/internal/config"
	"github.com/graphway/graphway/internal/models"
	"github.com/graphway/graphway/internal/session"
)

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Verify an admin token and save it to ~/.graphway/credentials.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			token := flagToken
			if token == "" {
				var err error
				if token, err = promptToken(); err != nil {
					return err
				}
			}

			creds, err := session.DefaultCredentialStore()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			s, err := session.Login(ctx, flagURL, token, creds, client.WithUserAgent("graphway/"+config.Version))
			if errors.Is(err, session.ErrUnauthorized) {
				return errors.New("the store rejected this admin token")
			}
			if err != nil {
				return err
			}

			fmt.Printf("%s logged in to %s (contest %q, %s)\n",
				statusIcon(true), flagURL, s.Contest().Name, s.Contest().Phase)
			fmt.Print(subtle.Sprintf("credentials saved to %s\n", creds.Path()))
			return nil
		},
	}
}

// promptToken reads a token from the terminal without echo, or a line from
// piped stdin.
func promptToken() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, "Admin token: ")
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("reading token: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", errors.New("admin token is required")
	}
	return strings.TrimSpace(line), nil
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved admin token",
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := session.DefaultCredentialStore()
			if err != nil {
				return err
			}
			if err := creds.Clear(); err != nil {
				return err
			}
			fmt.Println("logged out")
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the contest configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newStore(cmd.Context(), true)
			if err != nil {
				return err
			}

			c, err := store.AdminStatus(cmd.Context())
			if err != nil {
				return err
			}

			if flagFmt != "table" {
				output(c, string(c.Phase))
				return nil
			}
			printContest(c, time.Now())
			return nil
		},
	}
}

func printContest(c models.Contest, now time.Time) {
	start := time.Unix(c.StartTime, 0)
	fmt.Printf("%s %s\n", brand.Sprint("contest"), c.Name)
	fmt.Printf("  phase     %s\n", c.Phase)
	fmt.Printf("  starts    %s\n", start.Local().Format(time.RFC1123))
	fmt.Printf("  duration  %s\n", time.Duration(c.Duration)*time.Second)
	if b := c.BannerAt(now); b == models.BannerCountdown {
		fmt.Printf("  begins in %s\n", c.Countdown(now))
	} else {
		fmt.Printf("  banner    %s\n", b)
	}
}
