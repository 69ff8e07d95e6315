package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/visunn/pkg/store"
	"github.com/matzehuels/visunn/pkg/tag"
	"github.com/matzehuels/visunn/pkg/topology"
)

// parseTag accepts a module argument in wire form ("root;features") or
// canonical form ("root/features/"). An empty argument names the root.
func parseTag(arg string) (tag.Tag, error) {
	if arg == "" {
		return tag.Root, nil
	}
	wire := arg
	if strings.Contains(arg, tag.Sep) {
		wire = strings.ReplaceAll(strings.TrimSuffix(arg, tag.Sep), tag.Sep, tag.WireSep)
	}
	return tag.Decode(wire)
}

// fetchModule requests one module through the store and logs how long it
// took.
func fetchModule(ctx context.Context, e *env, t tag.Tag) (store.Commit, error) {
	logger := loggerFromContext(ctx)
	logger.Debug("requesting module", "tag", t, "url", e.cfg.Server)

	prog := newProgress(logger)
	spin := startSpinner(ctx, "Fetching "+t.Wire()+"...")
	commit, err := e.store.Request(ctx, t)
	spin.Stop()
	if err != nil {
		return store.Commit{}, err
	}
	prog.done(fmt.Sprintf("Fetched %s", commit.Tag.Wire()))
	return commit, nil
}

// fetchCommand creates the fetch command.
func (c *CLI) fetchCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "fetch [TAG]",
		Short: "Print the snapshot of one module as JSON",
		Long: `Fetch the laid-out snapshot of a module from the backend.

TAG is a module path in wire form (root;features) or canonical form
(root/features/). Without TAG the top-level graph is fetched.`,
		Example: `  visunn fetch
  visunn fetch root/features/ -o features.json`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeTags,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFetch(cmd.Context(), firstArg(args), output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func (c *CLI) runFetch(ctx context.Context, arg, output string) error {
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

	if output == "" {
		return topology.Encode(os.Stdout, commit.Snapshot)
	}
	if err := topology.WriteFile(commit.Snapshot, output); err != nil {
		return err
	}
	printSuccess("Saved %s", commit.Tag.Wire())
	printStats(commit.Snapshot)
	printFile(output)
	return nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
