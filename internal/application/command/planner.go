package command

import (
	"context"
	"strings"

	"github.com/rn-academy/progress-hub/internal/domain/planner"
	"github.com/rn-academy/progress-hub/internal/domain/shared"
	"github.com/rn-academy/progress-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// PLANNER HANDLER
// Goals with milestones, notes and code snippets.
// ══════════════════════════════════════════════════════════════════════════════

// PlannerHandler handles create/update/delete of user-authored records.
type PlannerHandler struct {
	repo      planner.Repository
	clock     shared.Clock
	publisher shared.EventPublisher
	logger    *logger.Logger
	newID     func() string
}

// NewPlannerHandler creates a new PlannerHandler.
func NewPlannerHandler(deps Dependencies) *PlannerHandler {
	deps = deps.withDefaults()
	return &PlannerHandler{
		repo:      deps.Planner,
		clock:     deps.Clock,
		publisher: deps.Publisher,
		logger:    deps.Logger.With(logger.Component("planner_commands")),
		newID:     shared.NewID,
	}
}

// parseDeadline accepts "" (no deadline) or YYYY-MM-DD.
func parseDeadline(raw string) (shared.Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return shared.Date{}, nil
	}
	d, err := shared.ParseDate(raw)
	if err != nil {
		return shared.Date{}, shared.ErrInvalidDeadline
	}
	return d, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// GOALS
// ══════════════════════════════════════════════════════════════════════════════

// CreateGoalCommand creates a goal with optional milestones.
type CreateGoalCommand struct {
	Profile     string
	Title       string   `validate:"required,max=200"`
	Description string   `validate:"max=2000"`
	Deadline    string
	Milestones  []string `validate:"max=50,dive,max=200"`
}

// CreateGoal appends a new goal.
func (h *PlannerHandler) CreateGoal(ctx context.Context, cmd CreateGoalCommand) (*planner.Goal, error) {
	if err := validateCommand("planner", "CreateGoal", cmd); err != nil {
		return nil, err
	}
	profile, err := resolveProfile(cmd.Profile)
	if err != nil {
		return nil, err
	}
	deadline, err := parseDeadline(cmd.Deadline)
	if err != nil {
		return nil, err
	}

	goal, err := planner.NewGoal(h.newID(), cmd.Title, cmd.Description, deadline, cmd.Milestones, h.clock.Now())
	if err != nil {
		return nil, err
	}

	goals, err := h.repo.Goals(ctx, profile)
	if err != nil {
		return nil, err
	}
	goals = append(goals, goal)
	if err := h.repo.SaveGoals(ctx, profile, goals); err != nil {
		return nil, err
	}

	h.logger.Info("goal created", logger.Profile(profile.String()), logger.String("goal_id", goal.ID))
	return goal, nil
}

// UpdateGoalCommand renames a goal, changes its deadline and may add milestones.
type UpdateGoalCommand struct {
	Profile       string
	GoalID        string   `validate:"required"`
	Title         string   `validate:"required,max=200"`
	Description   string   `validate:"max=2000"`
	Deadline      string
	AddMilestones []string `validate:"max=50,dive,max=200"`
}

// UpdateGoal edits a goal in place.
func (h *PlannerHandler) UpdateGoal(ctx context.Context, cmd UpdateGoalCommand) (*planner.Goal, error) {
	if err := validateCommand("planner", "UpdateGoal", cmd); err != nil {
		return nil, err
	}
	deadline, err := parseDeadline(cmd.Deadline)
	if err != nil {
		return nil, err
	}
	return h.mutateGoal(ctx, cmd.Profile, cmd.GoalID, func(g *planner.Goal) (bool, error) {
		wasCompleted := g.Completed
		if err := g.Rename(cmd.Title, cmd.Description, deadline); err != nil {
			return false, err
		}
		for _, m := range cmd.AddMilestones {
			g.AddMilestone(h.newID(), m)
		}
		return !wasCompleted && g.Completed, nil
	})
}

// ToggleMilestoneCommand flips one milestone of a goal.
type ToggleMilestoneCommand struct {
	Profile     string
	GoalID      string `validate:"required"`
	MilestoneID string `validate:"required"`
}

// ToggleMilestone flips the milestone and recomputes the goal state.
func (h *PlannerHandler) ToggleMilestone(ctx context.Context, cmd ToggleMilestoneCommand) (*planner.Goal, error) {
	if err := validateCommand("planner", "ToggleMilestone", cmd); err != nil {
		return nil, err
	}
	return h.mutateGoal(ctx, cmd.Profile, cmd.GoalID, func(g *planner.Goal) (bool, error) {
		return g.ToggleMilestone(cmd.MilestoneID)
	})
}

// ToggleGoalCommand flips the whole goal.
type ToggleGoalCommand struct {
	Profile string
	GoalID  string `validate:"required"`
}

// ToggleGoal completes or reopens a goal together with all its milestones.
func (h *PlannerHandler) ToggleGoal(ctx context.Context, cmd ToggleGoalCommand) (*planner.Goal, error) {
	if err := validateCommand("planner", "ToggleGoal", cmd); err != nil {
		return nil, err
	}
	return h.mutateGoal(ctx, cmd.Profile, cmd.GoalID, func(g *planner.Goal) (bool, error) {
		return g.Toggle(), nil
	})
}

func (h *PlannerHandler) mutateGoal(
	ctx context.Context,
	rawProfile, goalID string,
	mutate func(*planner.Goal) (completed bool, err error),
) (*planner.Goal, error) {
	profile, err := resolveProfile(rawProfile)
	if err != nil {
		return nil, err
	}

	goals, err := h.repo.Goals(ctx, profile)
	if err != nil {
		return nil, err
	}
	goal, ok := goals.Find(goalID)
	if !ok {
		return nil, shared.ErrGoalNotFound
	}

	completed, err := mutate(goal)
	if err != nil {
		return nil, err
	}
	if err := h.repo.SaveGoals(ctx, profile, goals); err != nil {
		return nil, err
	}

	if completed {
		publishAll(h.publisher, h.logger, []shared.Event{
			shared.NewGoalCompletedEvent(profile.String(), goal.ID, goal.Title, h.clock.Now()),
		})
	}
	return goal, nil
}

// DeleteCommand removes a goal, note or snippet by id.
type DeleteCommand struct {
	Profile string
	ID      string `validate:"required"`
}

// DeleteGoal removes a goal.
func (h *PlannerHandler) DeleteGoal(ctx context.Context, cmd DeleteCommand) error {
	if err := validateCommand("planner", "DeleteGoal", cmd); err != nil {
		return err
	}
	profile, err := resolveProfile(cmd.Profile)
	if err != nil {
		return err
	}

	goals, err := h.repo.Goals(ctx, profile)
	if err != nil {
		return err
	}
	goals, ok := goals.Remove(cmd.ID)
	if !ok {
		return shared.ErrGoalNotFound
	}
	return h.repo.SaveGoals(ctx, profile, goals)
}

// ══════════════════════════════════════════════════════════════════════════════
// NOTES
// ══════════════════════════════════════════════════════════════════════════════

// CreateNoteCommand creates a note, optionally attached to a lesson.
type CreateNoteCommand struct {
	Profile  string
	LessonID string
	Text     string `validate:"required,max=10000"`
}

// CreateNote appends a new note.
func (h *PlannerHandler) CreateNote(ctx context.Context, cmd CreateNoteCommand) (*planner.Note, error) {
	if err := validateCommand("planner", "CreateNote", cmd); err != nil {
		return nil, err
	}
	profile, err := resolveProfile(cmd.Profile)
	if err != nil {
		return nil, err
	}

	note, err := planner.NewNote(h.newID(), strings.TrimSpace(cmd.LessonID), cmd.Text, h.clock.Now())
	if err != nil {
		return nil, err
	}

	notes, err := h.repo.Notes(ctx, profile)
	if err != nil {
		return nil, err
	}
	notes = append(notes, note)
	if err := h.repo.SaveNotes(ctx, profile, notes); err != nil {
		return nil, err
	}
	return note, nil
}

// UpdateNoteCommand replaces a note's text.
type UpdateNoteCommand struct {
	Profile string
	NoteID  string `validate:"required"`
	Text    string `validate:"required,max=10000"`
}

// UpdateNote edits a note in place.
func (h *PlannerHandler) UpdateNote(ctx context.Context, cmd UpdateNoteCommand) (*planner.Note, error) {
	if err := validateCommand("planner", "UpdateNote", cmd); err != nil {
		return nil, err
	}
	profile, err := resolveProfile(cmd.Profile)
	if err != nil {
		return nil, err
	}

	notes, err := h.repo.Notes(ctx, profile)
	if err != nil {
		return nil, err
	}
	note, ok := notes.Find(cmd.NoteID)
	if !ok {
		return nil, shared.ErrNoteNotFound
	}
	if err := note.Edit(cmd.Text, h.clock.Now()); err != nil {
		return nil, err
	}
	if err := h.repo.SaveNotes(ctx, profile, notes); err != nil {
		return nil, err
	}
	return note, nil
}

// DeleteNote removes a note.
func (h *PlannerHandler) DeleteNote(ctx context.Context, cmd DeleteCommand) error {
	if err := validateCommand("planner", "DeleteNote", cmd); err != nil {
		return err
	}
	profile, err := resolveProfile(cmd.Profile)
	if err != nil {
		return err
	}

	notes, err := h.repo.Notes(ctx, profile)
	if err != nil {
		return err
	}
	notes, ok := notes.Remove(cmd.ID)
	if !ok {
		return shared.ErrNoteNotFound
	}
	return h.repo.SaveNotes(ctx, profile, notes)
}

// ══════════════════════════════════════════════════════════════════════════════
// SNIPPETS
// ══════════════════════════════════════════════════════════════════════════════

// SnippetCommand creates (empty SnippetID) or updates a snippet.
type SnippetCommand struct {
	Profile   string
	SnippetID string
	Title     string `validate:"required,max=200"`
	Language  string `validate:"max=40"`
	Code      string `validate:"required,max=100000"`
}

// CreateSnippet appends a new snippet.
func (h *PlannerHandler) CreateSnippet(ctx context.Context, cmd SnippetCommand) (*planner.Snippet, error) {
	if err := validateCommand("planner", "CreateSnippet", cmd); err != nil {
		return nil, err
	}
	profile, err := resolveProfile(cmd.Profile)
	if err != nil {
		return nil, err
	}

	snippet, err := planner.NewSnippet(h.newID(), cmd.Title, cmd.Language, cmd.Code, h.clock.Now())
	if err != nil {
		return nil, err
	}

	snippets, err := h.repo.Snippets(ctx, profile)
	if err != nil {
		return nil, err
	}
	snippets = append(snippets, snippet)
	if err := h.repo.SaveSnippets(ctx, profile, snippets); err != nil {
		return nil, err
	}
	return snippet, nil
}

// UpdateSnippet edits the snippet named by SnippetID.
func (h *PlannerHandler) UpdateSnippet(ctx context.Context, cmd SnippetCommand) (*planner.Snippet, error) {
	if err := validateCommand("planner", "UpdateSnippet", cmd); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cmd.SnippetID) == "" {
		return nil, shared.NewDomainError("planner", "UpdateSnippet", shared.ErrValidation, "snippet_id is required")
	}
	profile, err := resolveProfile(cmd.Profile)
	if err != nil {
		return nil, err
	}

	snippets, err := h.repo.Snippets(ctx, profile)
	if err != nil {
		return nil, err
	}
	snippet, ok := snippets.Find(cmd.SnippetID)
	if !ok {
		return nil, shared.ErrSnippetNotFound
	}
	if err := snippet.Edit(cmd.Title, cmd.Language, cmd.Code, h.clock.Now()); err != nil {
		return nil, err
	}
	if err := h.repo.SaveSnippets(ctx, profile, snippets); err != nil {
		return nil, err
	}
	return snippet, nil
}

// DeleteSnippet removes a snippet.
func (h *PlannerHandler) DeleteSnippet(ctx context.Context, cmd DeleteCommand) error {
	if err := validateCommand("planner", "DeleteSnippet", cmd); err != nil {
		return err
	}
	profile, err := resolveProfile(cmd.Profile)
	if err != nil {
		return err
	}

	snippets, err := h.repo.Snippets(ctx, profile)
	if err != nil {
		return err
	}
	snippets, ok := snippets.Remove(cmd.ID)
	if !ok {
		return shared.ErrSnippetNotFound
	}
	return h.repo.SaveSnippets(ctx, profile, snippets)
}
