package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rn-academy/progress-hub/internal/application/command"
	"github.com/rn-academy/progress-hub/internal/application/query"
)

// ══════════════════════════════════════════════════════════════════════════════
// OVERVIEW
// ══════════════════════════════════════════════════════════════════════════════

func newOverviewCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "overview",
		Aliases: []string{"progress", "status"},
		Short:   "Show progress, streak and weekly goal",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ov, err := c.app.queries.GetOverview(cmd.Context(), query.GetOverviewQuery{Profile: c.profileID()})
			if err != nil {
				return err
			}
			return c.render(cmd.OutOrStdout(), ov, func(w io.Writer) { printOverview(w, ov) })
		},
	}
}

func printOverview(w io.Writer, ov *query.Overview) {
	if ov.Degraded {
		fmt.Fprintln(w, "warning: storage is unavailable, showing empty progress")
	}
	fmt.Fprintf(w, "Profile: %s (%s)\n\n", ov.Profile, ov.Level)

	t := newTable(w)
	fmt.Fprintf(t, "Lessons\t%s\t%d/%d\n", bar(ov.LessonPercent), ov.CompletedLessons, ov.TotalLessons)
	fmt.Fprintf(t, "Quizzes\t%s\t%d taken\n", bar(ov.QuizAverage), ov.QuizzesTaken)
	fmt.Fprintf(t, "Weekly goal\t%s\t%d/%d\n", bar(ov.WeeklyPercent), ov.WeeklyProgress, ov.WeeklyGoal)
	for _, p := range ov.Projects {
		fmt.Fprintf(t, "%s\t%s\t%d/%d steps\n", p.Title, bar(p.Percent), p.CompletedSteps, p.TotalSteps)
	}
	_ = t.Flush()

	fmt.Fprintln(w)
	streak := fmt.Sprintf("Streak: %d day(s)", ov.StreakDays)
	if ov.StreakAtRisk {
		streak += ", study today to keep it"
	}
	fmt.Fprintln(w, streak)
	fmt.Fprintf(w, "Videos watched: %d\n", ov.WatchedVideos)
	fmt.Fprintf(w, "Achievements: %d/%d\n", ov.AchievementsEarned, ov.AchievementsTotal)
}

// ══════════════════════════════════════════════════════════════════════════════
// LESSONS, QUIZZES, PROJECTS, VIDEOS
// ══════════════════════════════════════════════════════════════════════════════

func newLessonCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lesson",
		Short: "Mark lessons as completed",
	}

	printLesson := func(w io.Writer, res *command.LessonResult) {
		state := "not completed"
		if res.Completed {
			state = "completed"
		}
		fmt.Fprintf(w, "Lesson %s %s (%d/%d)\n", res.LessonID, state, res.CompletedLessons, res.TotalLessons)
		printOutcome(w, res.Outcome)
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "complete <lesson-id>",
			Short: "Complete a lesson and count today as a study day",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				res, err := c.app.progress.CompleteLesson(cmd.Context(), command.CompleteLessonCommand{
					Profile:  c.profileID(),
					LessonID: args[0],
				})
				if err != nil {
					return err
				}
				return c.render(cmd.OutOrStdout(), res, func(w io.Writer) { printLesson(w, res) })
			},
		},
		&cobra.Command{
			Use:   "toggle <lesson-id>",
			Short: "Flip the completed state of a lesson",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				res, err := c.app.progress.ToggleLesson(cmd.Context(), command.ToggleLessonCommand{
					Profile:  c.profileID(),
					LessonID: args[0],
				})
				if err != nil {
					return err
				}
				return c.render(cmd.OutOrStdout(), res, func(w io.Writer) { printLesson(w, res) })
			},
		},
	)
	return cmd
}

func newQuizCmd(c *cli) *cobra.Command {
	var score, total int

	cmd := &cobra.Command{
		Use:   "quiz <lesson-id>",
		Short: "Record a quiz result; a retake replaces the previous one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.app.progress.SubmitQuiz(cmd.Context(), command.SubmitQuizCommand{
				Profile:        c.profileID(),
				LessonID:       args[0],
				Score:          score,
				TotalQuestions: total,
			})
			if err != nil {
				return err
			}
			return c.render(cmd.OutOrStdout(), res, func(w io.Writer) {
				verb := "Recorded"
				if res.Retake {
					verb = "Replaced"
				}
				fmt.Fprintf(w, "%s %s: %d/%d (%d%%), average %d%%\n",
					verb, res.Result.LessonID, res.Result.Score, res.Result.TotalQuestions, res.Result.Percent(), res.Average)
				printOutcome(w, res.Outcome)
			})
		},
	}
	cmd.Flags().IntVarP(&score, "score", "s", 0, "correct answers")
	cmd.Flags().IntVarP(&total, "total", "t", 0, "number of questions")
	_ = cmd.MarkFlagRequired("score")
	_ = cmd.MarkFlagRequired("total")
	return cmd
}

func newProjectCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Track project steps",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "toggle <project-id> <step-id>",
		Short: "Flip a project step",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.app.progress.ToggleProjectStep(cmd.Context(), command.ToggleProjectStepCommand{
				Profile:   c.profileID(),
				ProjectID: args[0],
				StepID:    args[1],
			})
			if err != nil {
				return err
			}
			return c.render(cmd.OutOrStdout(), res, func(w io.Writer) {
				fmt.Fprintf(w, "%s %s/%s\n", check(res.Completed), res.ProjectID, res.StepID)
				fmt.Fprintf(w, "Project %s\n", bar(res.Percent))
				printOutcome(w, res.Outcome)
			})
		},
	})
	return cmd
}

func newVideoCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "video",
		Short: "Track watched videos",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "toggle <video-id>",
		Short: "Flip the watched state of a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.app.progress.ToggleVideoWatched(cmd.Context(), command.ToggleVideoWatchedCommand{
				Profile: c.profileID(),
				VideoID: args[0],
			})
			if err != nil {
				return err
			}
			return c.render(cmd.OutOrStdout(), res, func(w io.Writer) {
				fmt.Fprintf(w, "%s %s (%d watched)\n", check(res.Watched), res.VideoID, res.WatchedVideos)
			})
		},
	})
	return cmd
}

// ══════════════════════════════════════════════════════════════════════════════
// STREAK AND PLAN
// ══════════════════════════════════════════════════════════════════════════════

func newStudyCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "study",
		Short: "Count today as a study day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.app.progress.RecordStudy(cmd.Context(), command.RecordStudyCommand{Profile: c.profileID()})
			if err != nil {
				return err
			}
			return c.render(cmd.OutOrStdout(), out, func(w io.Writer) {
				fmt.Fprintf(w, "Streak: %d day(s) (%s)\n", out.StreakDays, out.Streak)
			})
		},
	}
}

func newPlanCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show or change the learning plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ov, err := c.app.queries.GetOverview(cmd.Context(), query.GetOverviewQuery{Profile: c.profileID()})
			if err != nil {
				return err
			}
			view := planView{Level: ov.Level, WeeklyGoal: ov.WeeklyGoal, StudyDays: ov.StudyDays, StreakDays: ov.StreakDays}
			return c.render(cmd.OutOrStdout(), view, func(w io.Writer) { printPlan(w, view) })
		},
	}

	var (
		level      string
		weeklyGoal int
		days       []string
	)
	set := &cobra.Command{
		Use:   "set",
		Short: "Change level, weekly goal and study days; the streak is kept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			studyDays, err := parseWeekdays(days)
			if err != nil {
				return err
			}
			plan, err := c.app.progress.UpdatePlan(cmd.Context(), command.UpdatePlanCommand{
				Profile:    c.profileID(),
				Level:      level,
				WeeklyGoal: weeklyGoal,
				StudyDays:  studyDays,
			})
			if err != nil {
				return err
			}
			view := planView{Level: string(plan.Level), WeeklyGoal: plan.WeeklyGoal, StudyDays: plan.StudyDays, StreakDays: plan.StreakDays}
			return c.render(cmd.OutOrStdout(), view, func(w io.Writer) { printPlan(w, view) })
		},
	}
	set.Flags().StringVar(&level, "level", "beginner", "beginner, intermediate or advanced")
	set.Flags().IntVar(&weeklyGoal, "weekly-goal", 3, "lessons per week")
	set.Flags().StringSliceVar(&days, "days", []string{"mon", "wed", "fri"}, "study days (sun..sat or 0..6)")

	cmd.AddCommand(set)
	return cmd
}

type planView struct {
	Level      string `json:"level"`
	WeeklyGoal int    `json:"weekly_goal"`
	StudyDays  []int  `json:"study_days"`
	StreakDays int    `json:"streak_days"`
}

func printPlan(w io.Writer, p planView) {
	names := make([]string, 0, len(p.StudyDays))
	for _, d := range p.StudyDays {
		names = append(names, time.Weekday(d).String()[:3])
	}
	fmt.Fprintf(w, "Level: %s\nWeekly goal: %d lesson(s)\nStudy days: %s\nStreak: %d day(s)\n",
		p.Level, p.WeeklyGoal, strings.Join(names, ", "), p.StreakDays)
}

// parseWeekdays accepts weekday names ("mon", "Monday") or numbers 0..6.
func parseWeekdays(values []string) ([]int, error) {
	out := make([]int, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if n, err := strconv.Atoi(v); err == nil {
			out = append(out, n)
			continue
		}
		found := false
		for d := time.Sunday; d <= time.Saturday; d++ {
			name := strings.ToLower(d.String())
			if v == name || (len(v) >= 3 && strings.HasPrefix(name, v)) {
				out = append(out, int(d))
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown weekday %q", v)
		}
	}
	return out, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// ACHIEVEMENTS AND CURRICULUM
// ══════════════════════════════════════════════════════════════════════════════

func newAchievementsCmd(c *cli) *cobra.Command {
	var earnedOnly bool

	cmd := &cobra.Command{
		Use:   "achievements",
		Short: "List achievements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := c.app.queries.ListAchievements(cmd.Context(), query.ListAchievementsQuery{
				Profile:    c.profileID(),
				EarnedOnly: earnedOnly,
			})
			if err != nil {
				return err
			}
			return c.render(cmd.OutOrStdout(), list, func(w io.Writer) {
				t := newTable(w)
				for _, a := range list {
					earned := ""
					if a.DateEarned != nil {
						earned = a.DateEarned.Format("2006-01-02")
					}
					fmt.Fprintf(t, "%s\t%s\t%s\t%s\n", check(a.Earned), a.Title, a.Description, earned)
				}
				_ = t.Flush()
			})
		},
	}
	cmd.Flags().BoolVar(&earnedOnly, "earned", false, "only earned achievements")

	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Re-evaluate achievements against stored progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.app.progress.CheckAchievements(cmd.Context(), command.CheckAchievementsCommand{Profile: c.profileID()})
			if err != nil {
				return err
			}
			return c.render(cmd.OutOrStdout(), out, func(w io.Writer) {
				if len(out.Unlocked) == 0 {
					fmt.Fprintln(w, "No new achievements")
				}
			})
		},
	})
	return cmd
}

func newCurriculumCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "curriculum",
		Aliases: []string{"lessons"},
		Short:   "List lessons and projects with their ids",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat := c.app.catalog
			return c.render(cmd.OutOrStdout(), cat, func(w io.Writer) {
				t := newTable(w)
				fmt.Fprintln(t, "LESSON\tTITLE\tLEVEL\tVIDEO")
				for _, l := range cat.Lessons {
					fmt.Fprintf(t, "%s\t%s\t%s\t%s\n", l.ID, l.Title, l.Level, l.VideoID)
				}
				_ = t.Flush()

				for _, p := range cat.Projects {
					fmt.Fprintf(w, "\nProject %s: %s (%s)\n", p.ID, p.Title, p.Level)
					for i, s := range p.Steps {
						fmt.Fprintf(w, "  %d. %s  %s\n", i+1, s.ID, s.Title)
					}
				}
			})
		},
	}
}
