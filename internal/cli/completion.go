package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/visunn/pkg/tag"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for visunn.

  bash:        source <(visunn completion bash)
  zsh:         visunn completion zsh > "${fpath[1]}/_visunn"
  fish:        visunn completion fish | source
  powershell:  visunn completion powershell | Out-String | Invoke-Expression

Module tags complete from the modules recorded in saved sessions.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			default:
				return root.GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// completeTags offers the wire tags of saved sessions, plus the root, as
// completions for a TAG argument.
func completeTags(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	seen := map[string]bool{tag.RootWire: true}
	out := []string{tag.RootWire}
	if sessions, err := openSessions(); err == nil {
		all, _ := sessions.List(cmd.Context())
		for _, s := range all {
			if !seen[s.Tag] {
				seen[s.Tag] = true
				out = append(out, s.Tag)
			}
		}
	}

	matches := out[:0]
	for _, w := range out {
		if strings.HasPrefix(w, toComplete) {
			matches = append(matches, w)
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp
}
