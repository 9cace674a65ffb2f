package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"skill-upcycle/internal/domain/skillgraph"

	"github.com/spf13/cobra"
)

type graphFlags struct {
	output       string
	highlight    string
	background   string
	directRoutes bool
}

// NewSkillgraphCommand builds the skillgraph CLI: layout, svg and png
// subcommands reading a skills-and-routes fixture.
func NewSkillgraphCommand() *cobra.Command {
	flags := &graphFlags{}

	root := &cobra.Command{
		Use:   "skillgraph",
		Short: "Render the skill-relationship graph of an analysis",
		Long: `skillgraph computes the radial skill map for a set of skills and upcycling
routes and writes it as layout JSON, SVG or PNG.

Example:
  skillgraph svg fixture.yaml --highlight COBOL -o map.svg`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&flags.output, "output", "o", "", "output file (default stdout)")
	root.PersistentFlags().BoolVar(&flags.directRoutes, "direct-route-edges", false, "draw the dashed origin-to-target edge next to each micro-skill branch")

	root.AddCommand(
		newLayoutCommand(flags),
		newImageCommand(flags, "svg", "Write the graph as an SVG document", skillgraph.RenderSVG),
		newImageCommand(flags, "png", "Write the graph as a PNG image", skillgraph.RenderPNG),
	)
	return root
}

func newLayoutCommand(flags *graphFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "layout FIXTURE",
		Short: "Print the computed node positions and edges as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := loadLayout(cmd, args[0], flags)
			if err != nil {
				return err
			}
			return writeOutput(cmd, flags.output, func(w io.Writer) error {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(l)
			})
		},
	}
}

type renderFunc func(w io.Writer, l skillgraph.Layout, opts skillgraph.RenderOptions) error

func newImageCommand(flags *graphFlags, name, short string, render renderFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name + " FIXTURE",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := loadLayout(cmd, args[0], flags)
			if err != nil {
				return err
			}
			if flags.highlight != "" {
				if _, ok := l.Node(flags.highlight); !ok {
					return fmt.Errorf("highlight: no node %q in the graph", flags.highlight)
				}
			}
			opts := skillgraph.RenderOptions{Highlight: flags.highlight, Background: flags.background}
			return writeOutput(cmd, flags.output, func(w io.Writer) error {
				return render(w, l, opts)
			})
		},
	}
	cmd.Flags().StringVar(&flags.highlight, "highlight", "", "id of the node drawn in its hovered state")
	cmd.Flags().StringVar(&flags.background, "background", "", "canvas fill colour, e.g. #ffffff")
	return cmd
}

func loadLayout(cmd *cobra.Command, path string, flags *graphFlags) (skillgraph.Layout, error) {
	f, err := ReadFixture(path, cmd.InOrStdin())
	if err != nil {
		return skillgraph.Layout{}, err
	}
	skills, routes := f.Domain()
	if len(skills) == 0 {
		return skillgraph.Layout{}, errors.New(skillgraph.EmptyStateMessage)
	}

	var opts []skillgraph.Option
	if flags.directRoutes {
		opts = append(opts, skillgraph.WithDirectRouteEdges())
	}
	return skillgraph.ComputeLayout(skills, routes, opts...), nil
}

func writeOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == "" || path == "-" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
