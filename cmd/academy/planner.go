package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rn-academy/progress-hub/internal/application/command"
	"github.com/rn-academy/progress-hub/internal/application/query"
	"github.com/rn-academy/progress-hub/internal/domain/planner"
)

// ══════════════════════════════════════════════════════════════════════════════
// GOALS
// ══════════════════════════════════════════════════════════════════════════════

func newGoalCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage learning goals and their milestones",
	}

	printGoal := func(w io.Writer, g *planner.Goal) {
		fmt.Fprintf(w, "%s %s  %s\n", check(g.Completed), g.ID, g.Title)
		if !g.Deadline.IsZero() {
			fmt.Fprintf(w, "    due %s\n", g.Deadline)
		}
		for _, m := range g.Milestones {
			fmt.Fprintf(w, "    %s %s  %s\n", check(m.Completed), m.ID, m.Title)
		}
	}

	var (
		description string
		deadline    string
		milestones  []string
	)
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.app.planner.CreateGoal(cmd.Context(), command.CreateGoalCommand{
				Profile:     c.profileID(),
				Title:       args[0],
				Description: description,
				Deadline:    deadline,
				Milestones:  milestones,
			})
			if err != nil {
				return err
			}
			return c.render(cmd.OutOrStdout(), g, func(w io.Writer) { printGoal(w, g) })
		},
	}
	add.Flags().StringVarP(&description, "description", "d", "", "goal description")
	add.Flags().StringVar(&deadline, "deadline", "", "deadline as YYYY-MM-DD")
	add.Flags().StringArrayVarP(&milestones, "milestone", "m", nil, "milestone title (repeatable)")

	var (
		editTitle       string
		editDescription string
		editDeadline    string
		addMilestones   []string
	)
	edit := &cobra.Command{
		Use:   "edit <goal-id>",
		Short: "Change a goal and append milestones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.app.planner.UpdateGoal(cmd.Context(), command.UpdateGoalCommand{
				Profile:       c.profileID(),
				GoalID:        args[0],
				Title:         editTitle,
				Description:   editDescription,
				Deadline:      editDeadline,
				AddMilestones: addMilestones,
			})
			if err != nil {
				return err
			}
			return c.render(cmd.OutOrStdout(), g, func(w io.Writer) { printGoal(w, g) })
		},
	}
	edit.Flags().StringVarP(&editTitle, "title", "t", "", "new title")
	edit.Flags().StringVarP(&editDescription, "description", "d", "", "new description")
	edit.Flags().StringVar(&editDeadline, "deadline", "", "new deadline as YYYY-MM-DD")
	edit.Flags().StringArrayVarP(&addMilestones, "milestone", "m", nil, "milestone to append (repeatable)")
	_ = edit.MarkFlagRequired("title")

	var hideCompleted bool
	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List goals",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			goals, err := c.app.queries.ListGoals(cmd.Context(), query.ListGoalsQuery{
				Profile:       c.profileID(),
				HideCompleted: hideCompleted,
			})
			if err != nil {
				return err
			}
			return c.render(cmd.OutOrStdout(), goals, func(w io.Writer) {
				if len(goals) == 0 {
					fmt.Fprintln(w, "No goals yet")
				}
				for _, g := range goals {
					printGoal(w, g.Goal)
					if g.Overdue {
						fmt.Fprintln(w, "    overdue")
					}
				}
			})
		},
	}
	list.Flags().BoolVar(&hideCompleted, "open", false, "hide completed goals")

	toggle := &cobra.Command{
		Use:   "toggle <goal-id>",
		Short: "Flip a goal between open and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.app.planner.ToggleGoal(cmd.Context(), command.ToggleGoalCommand{
				Profile: c.profileID(),
				GoalID:  args[0],
			})
			if err != nil {
				return err
			}
			return c.render(cmd.OutOrStdout(), g, func(w io.Writer) { printGoal(w, g) })
		},
	}

	milestone := &cobra.Command{
		Use:   "milestone <goal-id> <milestone-id>",
		Short: "Flip a milestone; the goal completes with its last milestone",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.app.planner.ToggleMilestone(cmd.Context(), command.ToggleMilestoneCommand{
				Profile:     c.profileID(),
				GoalID:      args[0],
				MilestoneID: args[1],
			})
			if err != nil {
				return err
			}
			return c.render(cmd.OutOrStdout(), g, func(w io.Writer) { printGoal(w, g) })
		},
	}

	cmd.AddCommand(add, edit, list, toggle, milestone, newDeleteCmd(c, "goal", (*command.PlannerHandler).DeleteGoal))
	return cmd
}

// newDeleteCmd builds "rm <id>" for a planner record kind.
func newDeleteCmd(c *cli, kind string, del func(*command.PlannerHandler, context.Context, command.DeleteCommand) error) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <" + kind + "-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a " + kind,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := del(c.app.planner, cmd.Context(), command.DeleteCommand{
				Profile: c.profileID(),
				ID:      args[0],
			}); err != nil {
				return err
			}
			res := map[string]string{"deleted": args[0]}
			return c.render(cmd.OutOrStdout(), res, func(w io.Writer) {
				fmt.Fprintf(w, "Deleted %s %s\n", kind, args[0])
			})
		},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// NOTES
// ══════════════════════════════════════════════════════════════════════════════

func newNoteCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Manage study notes",
	}

	printNote := func(w io.Writer, n *planner.Note) {
		head := n.ID
		if n.LessonID != "" {
			head += " [" + n.LessonID + "]"
		}
		fmt.Fprintf(w, "%s  %s\n%s\n", head, n.UpdatedAt.Format("2006-01-02 15:04"), n.Text)
	}

	var lessonID string
	add := &cobra.Command{
		Use:   "add <text>",
		Short: "Write a note, optionally attached to a lesson",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := c.app.planner.CreateNote(cmd.Context(), command.CreateNoteCommand{
				Profile:  c.profileID(),
				LessonID: lessonID,
				Text:     strings.Join(args, " "),
			})
			if err != nil {
				return err
			}
			return c.render(cmd.OutOrStdout(), n, func(w io.Writer) { printNote(w, n) })
		},
	}
	add.Flags().StringVarP(&lessonID, "lesson", "l", "", "lesson the note belongs to")

	edit := &cobra.Command{
		Use:   "edit <note-id> <text>",
		Short: "Replace the text of a note",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := c.app.planner.UpdateNote(cmd.Context(), command.UpdateNoteCommand{
				Profile: c.profileID(),
				NoteID:  args[0],
				Text:    strings.Join(args[1:], " "),
			})
			if err != nil {
				return err
			}
			return c.render(cmd.OutOrStdout(), n, func(w io.Writer) { printNote(w, n) })
		},
	}

	var filterLesson string
	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List notes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			notes, err := c.app.queries.ListNotes(cmd.Context(), query.ListNotesQuery{
				Profile:  c.profileID(),
				LessonID: filterLesson,
			})
			if err != nil {
				return err
			}
			return c.render(cmd.OutOrStdout(), notes, func(w io.Writer) {
				if len(notes) == 0 {
					fmt.Fprintln(w, "No notes yet")
				}
				for i := range notes {
					if i > 0 {
						fmt.Fprintln(w)
					}
					printNote(w, notes[i])
				}
			})
		},
	}
	list.Flags().StringVarP(&filterLesson, "lesson", "l", "", "only notes of this lesson")

	cmd.AddCommand(add, edit, list, newDeleteCmd(c, "note", (*command.PlannerHandler).DeleteNote))
	return cmd
}

// ══════════════════════════════════════════════════════════════════════════════
// SNIPPETS
// ══════════════════════════════════════════════════════════════════════════════

func newSnippetCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snippet",
		Short: "Keep code snippets",
	}

	printSnippet := func(w io.Writer, s *planner.Snippet) {
		fmt.Fprintf(w, "%s  %s (%s)\n%s\n", s.ID, s.Title, s.Language, s.Code)
	}

	// save is shared by add and edit; an empty id creates.
	save := func(cmd *cobra.Command, id, title, language, code, file string) error {
		if file != "" {
			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			code = string(data)
		}
		in := command.SnippetCommand{
			Profile:   c.profileID(),
			SnippetID: id,
			Title:     title,
			Language:  language,
			Code:      code,
		}

		var (
			s   *planner.Snippet
			err error
		)
		if id == "" {
			s, err = c.app.planner.CreateSnippet(cmd.Context(), in)
		} else {
			s, err = c.app.planner.UpdateSnippet(cmd.Context(), in)
		}
		if err != nil {
			return err
		}
		return c.render(cmd.OutOrStdout(), s, func(w io.Writer) { printSnippet(w, s) })
	}

	var title, language, code, file string
	bind := func(f *cobra.Command) {
		f.Flags().StringVarP(&title, "title", "t", "", "snippet title")
		f.Flags().StringVar(&language, "language", "", "language (default javascript)")
		f.Flags().StringVar(&code, "code", "", "snippet source")
		f.Flags().StringVarP(&file, "file", "f", "", "read the source from a file")
		f.MarkFlagsMutuallyExclusive("code", "file")
		_ = f.MarkFlagRequired("title")
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Save a snippet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return save(cmd, "", title, language, code, file)
		},
	}
	bind(add)

	edit := &cobra.Command{
		Use:   "edit <snippet-id>",
		Short: "Replace a snippet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return save(cmd, args[0], title, language, code, file)
		},
	}
	bind(edit)

	var filterLanguage string
	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List snippets",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snippets, err := c.app.queries.ListSnippets(cmd.Context(), query.ListSnippetsQuery{
				Profile:  c.profileID(),
				Language: filterLanguage,
			})
			if err != nil {
				return err
			}
			return c.render(cmd.OutOrStdout(), snippets, func(w io.Writer) {
				t := newTable(w)
				for _, s := range snippets {
					fmt.Fprintf(t, "%s\t%s\t%s\n", s.ID, s.Title, s.Language)
				}
				_ = t.Flush()
			})
		},
	}
	list.Flags().StringVar(&filterLanguage, "language", "", "only this language")

	cmd.AddCommand(add, edit, list, newDeleteCmd(c, "snippet", (*command.PlannerHandler).DeleteSnippet))
	return cmd
}
