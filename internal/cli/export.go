package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/visunn/pkg/render"
	"github.com/matzehuels/visunn/pkg/render/dot"
	"github.com/matzehuels/visunn/pkg/tag"
	"github.com/matzehuels/visunn/pkg/topology"
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	output    string   // output file, or base path when several formats are written
	formats   []string // dot, svg, pdf, png
	detailed  bool     // add op and shapes under each node name
	scale     float64  // coordinate scale, zero for the diagram default
	highlight string   // node drawn with its hover color
	pngScale  float64  // rsvg-convert zoom for PNG output
}

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var opts exportOpts

	cmd := &cobra.Command{
		Use:   "export [TAG]",
		Short: "Write a module diagram as DOT, SVG, PDF or PNG",
		Long: `Export a module as a Graphviz diagram at the positions the backend laid out.

SVG output is rendered in-process with Graphviz. PDF and PNG are converted
from the SVG with rsvg-convert (librsvg).`,
		Example: `  visunn export root -f svg
  visunn export root/features/ -f svg,png -o features --detailed`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeTags,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), firstArg(args), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output path (default derived from the tag)")
	cmd.Flags().StringSliceVarP(&opts.formats, "format", "f", []string{string(render.FormatSVG)}, "output formats: dot, svg, pdf, png")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show op and output shapes in node labels")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "coordinate scale in inches per backend unit")
	cmd.Flags().StringVar(&opts.highlight, "highlight", "", "node to highlight")
	cmd.Flags().Float64Var(&opts.pngScale, "png-scale", render.DefaultPNGScale, "PNG resolution multiplier")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, arg string, opts exportOpts) error {
	formats, err := parseFormats(opts.formats)
	if err != nil {
		return err
	}
	t, err := parseTag(arg)
	if err != nil {
		return err
	}
	e, err := c.newEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	commit, err := fetchModule(ctx, e, t)
	if err != nil {
		return err
	}

	ropts := render.Options{
		Diagram:  dot.Options{Detailed: opts.detailed, Scale: opts.scale},
		PNGScale: opts.pngScale,
	}
	if opts.highlight != "" {
		name, ok := resolveNode(commit.Snapshot, opts.highlight)
		if !ok {
			printWarning("No node %q to highlight", opts.highlight)
		}
		ropts.Diagram.Highlight = name
	}

	spin := startSpinner(ctx, "Rendering...")
	paths, err := writeExports(ctx, commit.Snapshot, commit.Tag, formats, opts.output, ropts)
	spin.Stop()
	if spin.Cancelled() {
		return ctx.Err()
	}
	if err != nil {
		return err
	}

	printSuccess("Exported %s", commit.Tag.Wire())
	printStats(commit.Snapshot)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// parseFormats validates format names, accepting comma-separated lists.
func parseFormats(in []string) ([]render.Format, error) {
	var out []render.Format
	seen := map[render.Format]bool{}
	for _, item := range in {
		for _, s := range strings.Split(item, ",") {
			s = strings.TrimSpace(strings.ToLower(s))
			if s == "" {
				continue
			}
			f, err := render.ParseFormat(s)
			if err != nil {
				return nil, err
			}
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	if len(out) == 0 {
		return []render.Format{render.FormatSVG}, nil
	}
	return out, nil
}

// outputPath derives the file name for one format. With several formats,
// output is a base path and each file gets its own extension.
func outputPath(t tag.Tag, f render.Format, output string, multi bool) string {
	ext := "." + string(f)
	if output == "" {
		return strings.ReplaceAll(t.Wire(), tag.WireSep, "_") + ext
	}
	if multi {
		return strings.TrimSuffix(output, filepath.Ext(output)) + ext
	}
	return output
}

// writeExports renders every format and writes the files.
func writeExports(ctx context.Context, snap *topology.Snapshot, t tag.Tag, formats []render.Format, output string, opts render.Options) ([]string, error) {
	var paths []string
	for _, f := range formats {
		data, err := render.Render(ctx, snap, f, opts)
		if err != nil {
			return paths, err
		}
		path := outputPath(t, f, output, len(formats) > 1)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
