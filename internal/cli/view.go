package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/visunn/internal/config"
	"github.com/matzehuels/visunn/internal/tui"
	"github.com/matzehuels/visunn/pkg/session"
	"github.com/matzehuels/visunn/pkg/store"
	"github.com/matzehuels/visunn/pkg/tag"
	"github.com/matzehuels/visunn/pkg/view"
)

// viewOpts holds the command-line flags for the view command.
type viewOpts struct {
	resume  bool   // start from the last session against this backend
	logFile string // where to log while the viewer owns the terminal
}

// viewCommand creates the interactive viewer command.
func (c *CLI) viewCommand() *cobra.Command {
	var opts viewOpts

	cmd := &cobra.Command{
		Use:   "view [TAG]",
		Short: "Browse the module hierarchy in the terminal",
		Long: `Open the interactive viewer at a module (the top-level graph by default).

Move between nodes with the arrow keys or the mouse, press enter or click a
module to descend into it, backspace to go to the enclosing module and home
to return to the top. Every module you reach is remembered, so --resume
reopens the last one viewed against the same backend.`,
		Example: `  visunn view
  visunn view root/features/
  visunn view --resume`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeTags,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runView(cmd.Context(), firstArg(args), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.resume, "resume", false, "reopen the last module viewed against this backend")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "write logs to this file while the viewer runs")

	return cmd
}

func (c *CLI) runView(ctx context.Context, arg string, opts viewOpts) error {
	if arg != "" && opts.resume {
		return errors.New("--resume cannot be combined with a TAG")
	}

	e, err := c.newEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	var sessions session.Store
	if fs, err := openSessions(); err != nil {
		c.Logger.Warn("sessions unavailable", "err", err)
	} else {
		sessions = fs
	}

	sess := startSession(ctx, sessions, e.cfg, opts.resume)
	start := sess.Canonical()
	if arg != "" {
		if start, err = parseTag(arg); err != nil {
			return err
		}
	}

	restore, err := c.redirectLogs(opts.logFile)
	if err != nil {
		return err
	}
	defer restore()

	ctl := view.NewController(e.store, view.WithLogger(c.Logger))
	return tui.Run(ctx, ctl, tui.Options{
		Start: start,
		OnCommit: func(commit store.Commit) {
			if sessions == nil {
				return
			}
			sess.Visit(commit.Tag.Wire())
			if err := sessions.Set(ctx, sess); err != nil {
				c.Logger.Warn("save session", "err", err)
			}
		},
	})
}

// redirectLogs sends log output to path, or discards it, while the viewer
// owns the terminal. The returned func restores stderr.
func (c *CLI) redirectLogs(path string) (func(), error) {
	restore := func() { c.Logger.SetOutput(os.Stderr) }
	if path == "" {
		c.Logger.SetOutput(io.Discard)
		return restore, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	c.Logger.SetOutput(f)
	return func() {
		restore()
		f.Close()
	}, nil
}

// openSessions opens the session store in the config directory.
func openSessions() (*session.FileStore, error) {
	dir, err := config.SessionDir()
	if err != nil {
		return nil, err
	}
	return session.NewFileStore(dir)
}

// startSession returns the session to record visits in: the latest one for
// this backend when resuming, otherwise a fresh one at the root.
func startSession(ctx context.Context, sessions session.Store, cfg config.Config, resume bool) *session.Session {
	if resume && sessions != nil {
		sess, err := sessions.Latest(ctx, cfg.Server, cfg.Prefix)
		switch {
		case err != nil:
			loggerFromContext(ctx).Warn("read sessions", "err", err)
		case sess == nil:
			printInfo("No session to resume, starting at %s", tag.Root)
		default:
			loggerFromContext(ctx).Debug("resuming session", "id", sess.ID, "tag", sess.Tag)
			return sess
		}
	}
	return session.New(cfg.Server, cfg.Prefix, session.DefaultTTL)
}
