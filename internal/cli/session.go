package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// sessionCommand creates the session management command.
func (c *CLI) sessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "List and prune saved viewing sessions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List live sessions, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := openSessions()
			if err != nil {
				return err
			}
			all, err := sessions.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(all) == 0 {
				printInfo("No sessions")
				return nil
			}
			for _, s := range all {
				fmt.Println(StyleHighlight.Render(s.Tag) + " " + StyleDim.Render(fmt.Sprintf("%s/%s", s.Server, s.Prefix)))
				printDetail("%d visits, updated %s, id %s", s.Visits, s.UpdatedAt.Format(time.DateTime), s.ID)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clean",
		Short: "Remove expired sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := openSessions()
			if err != nil {
				return err
			}
			n, err := sessions.Cleanup(cmd.Context())
			if err != nil {
				return err
			}
			printSuccess("Removed %d expired sessions", n)
			printDetail("Directory: %s", sessions.Path())
			return nil
		},
	})

	return cmd
}
