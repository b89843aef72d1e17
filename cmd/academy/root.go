package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rn-academy/progress-hub/config"
)

// cli carries state shared by all subcommands.
type cli struct {
	profile string
	output  string
	verbose bool

	// app is built lazily by PersistentPreRunE unless already set.
	app      *app
	ownsApp  bool
	serving  bool
	bootOpts bootOptions
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(&cli{})
}

func newRootCmdWith(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "academy",
		Short:         "Track React Native course progress",
		Long:          "academy records lessons, quizzes, project steps, study streaks and achievements,\nand keeps a personal planner of goals, notes and code snippets.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd.Context())
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return c.teardown()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&c.profile, "profile", "p", "", "learner profile (default from APP_PROFILE)")
	pf.StringVarP(&c.output, "output", "o", "text", "output format: text or json")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "show info logs")

	root.AddCommand(
		newServeCmd(c),
		newOverviewCmd(c),
		newLessonCmd(c),
		newQuizCmd(c),
		newProjectCmd(c),
		newVideoCmd(c),
		newStudyCmd(c),
		newPlanCmd(c),
		newAchievementsCmd(c),
		newCurriculumCmd(c),
		newGoalCmd(c),
		newNoteCmd(c),
		newSnippetCmd(c),
		newProfileCmd(c),
		newHashKeyCmd(),
	)
	return root
}

func (c *cli) setup(ctx context.Context) error {
	switch c.output {
	case "text", "json":
	default:
		return fmt.Errorf("unknown output format %q", c.output)
	}
	if c.app != nil {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	opts := c.bootOpts
	opts.Serve = c.serving
	opts.Verbose = c.verbose
	a, err := bootstrap(ctx, cfg, opts)
	if err != nil {
		return err
	}
	c.app = a
	c.ownsApp = true
	return nil
}

func (c *cli) teardown() error {
	if c.app == nil || !c.ownsApp {
		return nil
	}
	err := c.app.Close()
	c.app = nil
	return err
}

// profileID returns the --profile flag or the configured default.
func (c *cli) profileID() string {
	if p := strings.TrimSpace(c.profile); p != "" {
		return p
	}
	return c.app.cfg.App.Profile
}

// render prints v as JSON or through text.
func (c *cli) render(w io.Writer, v any, text func(io.Writer)) error {
	if c.output == "json" {
		return writeJSON(w, v)
	}
	text(w)
	c.flushNotifications(w)
	return nil
}

// noApp marks commands that never touch the store.
func noApp(cmd *cobra.Command) *cobra.Command {
	cmd.PersistentPreRunE = func(*cobra.Command, []string) error { return nil }
	cmd.PersistentPostRunE = func(*cobra.Command, []string) error { return nil }
	return cmd
}
