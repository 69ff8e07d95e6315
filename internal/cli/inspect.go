package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/visunn/pkg/errors"
	"github.com/matzehuels/visunn/pkg/format"
	"github.com/matzehuels/visunn/pkg/role"
	"github.com/matzehuels/visunn/pkg/topology"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect TAG [NODE]",
		Short: "Show a module's nodes or one node's metadata",
		Long: `Inspect a module snapshot without opening the viewer.

With only TAG, every node of the module is listed with its role. With NODE,
the metadata panel the viewer would show for that node is printed. Module
nodes may be named with or without their trailing slash.`,
		Example: `  visunn inspect root
  visunn inspect 'root;features' conv1`,
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: completeTags,
		RunE: func(cmd *cobra.Command, args []string) error {
			node := ""
			if len(args) == 2 {
				node = args[1]
			}
			return c.runInspect(cmd.Context(), args[0], node)
		},
	}
}

func (c *CLI) runInspect(ctx context.Context, arg, node string) error {
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

	if node == "" {
		printModule(commit.Tag.String(), commit.Snapshot)
		return nil
	}
	sections, err := nodeSections(commit.Snapshot, node)
	if err != nil {
		return err
	}
	for _, s := range sections {
		printSection(s.Title, s.Lines)
	}
	return nil
}

// resolveNode finds name in snap, also trying it as a module name.
func resolveNode(snap *topology.Snapshot, name string) (string, bool) {
	if snap.Has(name) {
		return name, true
	}
	if !strings.HasSuffix(name, "/") && snap.Has(name+"/") {
		return name + "/", true
	}
	return "", false
}

// nodeSections returns the metadata panel of one node.
func nodeSections(snap *topology.Snapshot, name string) ([]format.Section, error) {
	resolved, ok := resolveNode(snap, name)
	if !ok {
		return nil, errors.New(errors.ErrCodeNodeNotFound, "no node %q in this module", name)
	}
	meta, ok := snap.Metadata(resolved)
	if !ok {
		return nil, errors.New(errors.ErrCodeNodeNotFound, "no metadata for %q", resolved)
	}
	return format.Sections(meta, role.Classify(resolved, snap)), nil
}

// printModule lists a module's nodes with their roles.
func printModule(canonical string, snap *topology.Snapshot) {
	roles := role.ClassifyAll(snap)
	counts := role.Count(roles)

	printKeyValue("module", canonical)
	printKeyValue("nodes", fmt.Sprint(snap.NodeCount()))
	printKeyValue("edges", fmt.Sprint(snap.EdgeCount()))
	for _, r := range role.All {
		if n := counts[r]; n > 0 {
			printKeyValue(r.String()+"s", fmt.Sprint(n))
		}
	}
	printNewline()

	for _, name := range snap.Names() {
		r := roles[name]
		line := fmt.Sprintf("%-8s %s", r, name)
		if r.Clickable() {
			fmt.Println(styleModule.Render(line))
			continue
		}
		fmt.Println(StyleValue.Render(line))
	}
}
