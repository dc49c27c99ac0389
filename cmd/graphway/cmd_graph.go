package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/graphway/graphway/internal/editor"
	"github.com/graphway/graphway/internal/geometry"
	"github.com/graphway/graphway/internal/interaction"
	"github.com/graphway/graphway/internal/models"
)

func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "View and edit the problem graph",
	}
	cmd.AddCommand(graphShowCmd())
	cmd.AddCommand(graphAddNodeCmd())
	cmd.AddCommand(graphConnectCmd())
	cmd.AddCommand(graphDeleteNodeCmd())
	cmd.AddCommand(graphDeleteEdgeCmd())
	cmd.AddCommand(graphMoveCmd())
	cmd.AddCommand(graphEditCmd())
	return cmd
}

// withEditor runs fn against an editor-mode session.
func withEditor(ctx context.Context, fn func(h *headless) error) error {
	store, err := newStore(ctx, true)
	if err != nil {
		return err
	}

	h, err := startHeadless(ctx, store, "", editor.Options{Mode: models.ModeEditor})
	if err != nil {
		return err
	}
	defer h.close()

	return fn(h)
}

func graphShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "List nodes and edges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEditor(cmd.Context(), func(h *headless) error {
				printGraph(h.ed.Frame())
				return nil
			})
		},
	}
}

func printGraph(f editor.Frame) {
	switch flagFmt {
	case "json":
		formatJSON(struct {
			Phase models.Phase `json:"phase"`
			Nodes any          `json:"nodes"`
			Edges any          `json:"edges"`
		}{f.Phase, f.Nodes, f.Edges})
		return
	case "quiet":
		for _, n := range f.Nodes {
			formatQuiet(n.ID)
		}
		return
	}

	if f.Empty != "" {
		fmt.Println(subtle.Sprint(f.Empty))
		return
	}

	out := map[string][]string{}
	for _, e := range f.Edges {
		out[e.Source] = append(out[e.Source], e.Target)
	}

	rows := make([][]string, 0, len(f.Nodes))
	for _, n := range f.Nodes {
		rows = append(rows, []string{
			n.ID,
			n.PID,
			strconv.Itoa(n.Rating),
			fmt.Sprintf("%g,%g", n.Position.X, n.Position.Y),
			strings.Join(out[n.ID], " "),
		})
	}
	fmt.Printf("%s %d nodes, %d edges (%s)\n", brand.Sprint("graph"), len(f.Nodes), len(f.Edges), f.Phase)
	formatTable([]string{"ID", "PID", "RATING", "POSITION", "UNLOCKS"}, rows)
}

func graphAddNodeCmd() *cobra.Command {
	var (
		x, y   float64
		pid    string
		rating int
	)
	cmd := &cobra.Command{
		Use:   "add-node",
		Short: "Create a node, optionally setting its problem and rating",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEditor(cmd.Context(), func(h *headless) error {
				out, err := h.do(interaction.AddNode{Position: geometry.Point{X: x, Y: y}})
				if err != nil {
					return err
				}
				up, ok := out.Command.(interaction.UpsertNode)
				if !ok {
					return fmt.Errorf("unexpected command %v", out.Command)
				}
				id := up.Node.ID

				if pid != "" || rating != 0 {
					if _, err := h.do(interaction.ClickNode{ID: id}, interaction.EditNode{PID: pid, Rating: rating}); err != nil {
						return fmt.Errorf("node %s created but not edited: %w", id, err)
					}
				}

				report(h.ed.Frame(), id, "created node %s", id)
				return nil
			})
		},
	}
	cmd.Flags().Float64Var(&x, "x", 100, "X position")
	cmd.Flags().Float64Var(&y, "y", 100, "Y position")
	cmd.Flags().StringVar(&pid, "pid", "", "Problem id, e.g. 1850/A")
	cmd.Flags().IntVar(&rating, "rating", 0, "Problem rating")
	return cmd
}

// report prints node id from f as JSON or a quiet id, or a confirmation line.
func report(f editor.Frame, id, format string, args ...any) {
	if flagFmt == "table" {
		done(format, args...)
		return
	}

	var v any = map[string]string{"id": id}
	for _, n := range f.Nodes {
		if n.ID == id {
			v = n
		}
	}
	output(v, id)
}

func graphConnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "connect <from> <to>",
		Short: "Add an edge: solving <from> unlocks <to>",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEditor(cmd.Context(), func(h *headless) error {
				_, err := h.do(
					interaction.ClickNode{ID: args[0]},
					interaction.StartConnect{},
					interaction.ClickNode{ID: args[1]},
				)
				if err != nil {
					return err
				}
				done("connected %s -> %s", args[0], args[1])
				return nil
			})
		},
	}
}

func graphDeleteNodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-node <id>",
		Short: "Delete a node and its edges",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEditor(cmd.Context(), func(h *headless) error {
				if _, err := h.do(interaction.ClickNode{ID: args[0]}, interaction.Delete{}); err != nil {
					return err
				}
				done("deleted node %s", args[0])
				return nil
			})
		},
	}
}

func graphDeleteEdgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-edge <from> <to>",
		Short: "Delete an edge",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			edge := models.Edge{Source: args[0], Target: args[1]}
			return withEditor(cmd.Context(), func(h *headless) error {
				if _, err := h.do(interaction.ClickEdge{Edge: edge}, interaction.Delete{}); err != nil {
					return err
				}
				done("deleted edge %s", edge)
				return nil
			})
		},
	}
}

func graphMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <x> <y>",
		Short: "Move a node",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("x: %w", err)
			}
			y, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("y: %w", err)
			}
			return withEditor(cmd.Context(), func(h *headless) error {
				out, err := h.do(interaction.DragEnd{ID: args[0], Position: geometry.Point{X: x, Y: y}})
				if err != nil {
					return err
				}
				if mv, ok := out.Command.(interaction.MoveNode); ok {
					done("moved %s to %g,%g", args[0], mv.Node.Position.X, mv.Node.Position.Y)
				}
				return nil
			})
		},
	}
}

func graphEditCmd() *cobra.Command {
	var (
		pid                  string
		rating               int
		random               bool
		minRating, maxRating int
	)
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Set a node's problem id and rating",
		Long: `Set a node's problem id and rating.

With --random, a catalogue problem rated between --min-rating and
--max-rating is picked and both fields are taken from it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if random && minRating > maxRating {
				return fmt.Errorf("--min-rating %d is above --max-rating %d", minRating, maxRating)
			}

			return withEditor(cmd.Context(), func(h *headless) error {
				if random {
					p, err := h.store.RandomProblem(cmd.Context(), minRating, maxRating)
					if err != nil {
						return fmt.Errorf("picking a problem: %w", err)
					}
					pid, rating = p.PID, p.Rating
				}

				if _, err := h.do(interaction.ClickNode{ID: args[0]}, interaction.EditNode{PID: pid, Rating: rating}); err != nil {
					return err
				}
				report(h.ed.Frame(), args[0], "updated node %s (%s, %d)", args[0], pid, rating)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&pid, "pid", "", "Problem id, e.g. 1850/A")
	cmd.Flags().IntVar(&rating, "rating", 0, "Problem rating")
	cmd.Flags().BoolVar(&random, "random", false, "Pick a random catalogue problem")
	cmd.Flags().IntVar(&minRating, "min-rating", 800, "Lowest rating for --random")
	cmd.Flags().IntVar(&maxRating, "max-rating", 1000, "Highest rating for --random")
	cmd.MarkFlagsMutuallyExclusive("random", "pid")
	cmd.MarkFlagsMutuallyExclusive("random", "rating")
	return cmd
}

// done prints a confirmation unless output is machine-readable.
func done(format string, args ...any) {
	if flagFmt != "table" {
		return
	}
	fmt.Printf("%s %s\n", statusIcon(true), fmt.Sprintf(format, args...))
}
