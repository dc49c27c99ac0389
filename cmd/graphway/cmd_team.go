package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/graphway/graphway/internal/editor"
	"github.com/graphway/graphway/internal/interaction"
	"github.com/graphway/graphway/internal/models"
)

func newTeamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Participant view and team inspection",
	}
	cmd.AddCommand(teamViewCmd())
	cmd.AddCommand(teamInspectCmd())
	cmd.AddCommand(teamSolveCmd(true))
	cmd.AddCommand(teamSolveCmd(false))
	return cmd
}

func teamViewCmd() *cobra.Command {
	var (
		watch    bool
		interval time.Duration
	)
	cmd := &cobra.Command{
		Use:   "view <team-token>",
		Short: "Show the graph as a team sees it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newStore(cmd.Context(), false)
			if err != nil {
				return err
			}

			opts := editor.Options{Mode: models.ModeReadOnly, TeamToken: args[0]}
			if watch {
				opts.PollInterval = interval
			}

			ctx := cmd.Context()
			if watch {
				var stop context.CancelFunc
				ctx, stop = signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
				defer stop()
			}

			h, err := startHeadless(ctx, store, "", opts)
			if err != nil {
				return err
			}
			defer h.close()

			if !watch {
				printTeamFrame(h.ed.Frame())
				return nil
			}

			return watchFrames(ctx, h.ed)
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "Keep polling and reprint on change")
	cmd.Flags().DurationVar(&interval, "interval", editor.DefaultPollInterval, "Polling interval with --watch")
	return cmd
}

// watchFrames reprints whenever the visible content changes, until ctx ends.
func watchFrames(ctx context.Context, ed *editor.Editor) error {
	frames, unsubscribe := ed.Subscribe()
	defer unsubscribe()

	var last string
	for {
		select {
		case <-ctx.Done():
			return nil
		case f := <-frames:
			if f.Redirect != "" {
				return fmt.Errorf("team token no longer recognised")
			}
			key := frameKey(f)
			if key == last {
				continue
			}
			last = key
			fmt.Print(subtle.Sprintf("-- %s\n", time.Now().Format(time.TimeOnly)))
			printTeamFrame(f)
		}
	}
}

// frameKey summarises what printTeamFrame shows.
func frameKey(f editor.Frame) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%d|%s|", f.Banner, f.Countdown/60, f.Error)
	if f.Team != nil {
		fmt.Fprintf(&b, "%d|%d|", f.Team.SolvedCount, f.Team.Score)
	}
	for _, n := range f.Nodes {
		fmt.Fprintf(&b, "%s=%s,", n.ID, n.Status)
	}
	return b.String()
}

func printTeamFrame(f editor.Frame) {
	if flagFmt == "json" {
		formatJSON(f)
		return
	}

	if f.Team != nil {
		fmt.Printf("%s %s", brand.Sprint("team"), f.Team.Name)
		if len(f.Team.Handles) > 0 {
			fmt.Print(subtle.Sprintf(" (%s)", strings.Join(f.Team.Handles, ", ")))
		}
		fmt.Printf("  solved %d  score %d\n", f.Team.SolvedCount, f.Team.Score)
	}

	switch f.Banner {
	case models.BannerPreparing:
		fmt.Println(warn.Sprint("The contest is being prepared."))
		return
	case models.BannerCountdown:
		fmt.Print(warn.Sprintf("The contest starts in %s.\n", time.Duration(f.Countdown)*time.Second))
		return
	case models.BannerEnded:
		fmt.Println(warn.Sprint("The contest has ended."))
		return
	}

	if f.Error != "" {
		fmt.Println(bad.Sprint(f.Error))
	}
	if f.Empty != "" {
		fmt.Println(subtle.Sprint(f.Empty))
		return
	}

	printNodeTable(f)
}

func printNodeTable(f editor.Frame) {
	rows := make([][]string, 0, len(f.Nodes))
	for _, n := range f.Nodes {
		rating := ""
		if n.ShowRating {
			rating = fmt.Sprint(n.Rating)
		}
		link := ""
		if url, ok := models.ProblemURL(n.PID); ok && n.Clickable {
			link = url
		}
		rows = append(rows, []string{n.ID, n.Label, rating, statusCell(n.Status), link})
	}
	formatTable([]string{"ID", "PROBLEM", "RATING", "STATUS", "LINK"}, rows)
}

func teamInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <team-id>",
		Short: "Show one team's progress (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withInspector(cmd.Context(), args[0], func(h *headless) error {
				f := h.ed.Frame()
				if flagFmt == "json" {
					formatJSON(f)
					return nil
				}
				if f.Team != nil {
					fmt.Printf("%s %s\n", brand.Sprint("team"), f.Team.Name)
				}
				printNodeTable(f)
				return nil
			})
		},
	}
}

func withInspector(ctx context.Context, teamID string, fn func(h *headless) error) error {
	store, err := newStore(ctx, true)
	if err != nil {
		return err
	}

	h, err := startHeadless(ctx, store, teamID, editor.Options{Mode: models.ModeTeamInspect})
	if err != nil {
		return err
	}
	defer h.close()

	return fn(h)
}

func teamSolveCmd(solved bool) *cobra.Command {
	use, verb := "solve", "solved"
	var g interaction.Gesture = interaction.Solve{}
	if !solved {
		use, verb = "unsolve", "unsolved"
		g = interaction.Unsolve{}
	}

	return &cobra.Command{
		Use:   use + " <team-id> <node-id>",
		Short: "Mark a node " + verb + " for a team (admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withInspector(cmd.Context(), args[0], func(h *headless) error {
				if _, err := h.do(interaction.ClickNode{ID: args[1]}, g); err != nil {
					return err
				}
				done("%s %s for team %s", verb, args[1], args[0])
				return nil
			})
		},
	}
}
