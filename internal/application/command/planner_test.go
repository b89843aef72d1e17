package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rn-academy/progress-hub/internal/domain/planner"
	"github.com/rn-academy/progress-hub/internal/domain/shared"
)

func TestGoalLifecycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	goal, err := f.planner.CreateGoal(ctx, CreateGoalCommand{
		Title:      "  Ship my first app ",
		Deadline:   "2025-04-01",
		Milestones: []string{"Build UI", "", "Publish"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ship my first app", goal.Title)
	assert.Equal(t, "2025-04-01", goal.Deadline.String())
	require.Len(t, goal.Milestones, 2)
	assert.False(t, goal.Completed)

	_, err = f.planner.ToggleMilestone(ctx, ToggleMilestoneCommand{GoalID: goal.ID, MilestoneID: goal.Milestones[0].ID})
	require.NoError(t, err)
	assert.Empty(t, f.pub.types())

	updated, err := f.planner.ToggleMilestone(ctx, ToggleMilestoneCommand{GoalID: goal.ID, MilestoneID: goal.Milestones[1].ID})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, []shared.EventType{shared.EventGoalCompleted}, f.pub.types())

	reopened, err := f.planner.ToggleGoal(ctx, ToggleGoalCommand{GoalID: goal.ID})
	require.NoError(t, err)
	assert.False(t, reopened.Completed)
	assert.Equal(t, 0, reopened.MilestonesDone())

	require.NoError(t, f.planner.DeleteGoal(ctx, DeleteCommand{ID: goal.ID}))
	assert.ErrorIs(t, f.planner.DeleteGoal(ctx, DeleteCommand{ID: goal.ID}), shared.ErrGoalNotFound)
}

func TestGoal_Validation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.planner.CreateGoal(ctx, CreateGoalCommand{Title: ""})
	assert.True(t, shared.IsValidation(err))

	_, err = f.planner.CreateGoal(ctx, CreateGoalCommand{Title: "   "})
	assert.ErrorIs(t, err, shared.ErrEmptyTitle)

	_, err = f.planner.CreateGoal(ctx, CreateGoalCommand{Title: "Learn", Deadline: "next week"})
	assert.ErrorIs(t, err, shared.ErrInvalidDeadline)

	_, err = f.planner.ToggleGoal(ctx, ToggleGoalCommand{GoalID: "missing"})
	assert.True(t, shared.IsNotFound(err))
}

func TestUpdateGoal_AddsMilestones(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	goal, err := f.planner.CreateGoal(ctx, CreateGoalCommand{Title: "Hooks"})
	require.NoError(t, err)

	goal, err = f.planner.ToggleGoal(ctx, ToggleGoalCommand{GoalID: goal.ID})
	require.NoError(t, err)
	assert.True(t, goal.Completed)

	goal, err = f.planner.UpdateGoal(ctx, UpdateGoalCommand{
		GoalID:        goal.ID,
		Title:         "Hooks in depth",
		AddMilestones: []string{"useEffect"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hooks in depth", goal.Title)
	assert.False(t, goal.Completed)
}

func TestNotes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	note, err := f.planner.CreateNote(ctx, CreateNoteCommand{LessonID: "navigation", Text: "stack vs tabs"})
	require.NoError(t, err)
	assert.NotEmpty(t, note.ID)
	assert.Equal(t, f.clock.Now(), note.CreatedAt)

	f.clock.AddDays(1)
	edited, err := f.planner.UpdateNote(ctx, UpdateNoteCommand{NoteID: note.ID, Text: "use native stack"})
	require.NoError(t, err)
	assert.Equal(t, "use native stack", edited.Text)
	assert.True(t, edited.UpdatedAt.After(edited.CreatedAt))

	_, err = f.planner.CreateNote(ctx, CreateNoteCommand{Text: " "})
	assert.ErrorIs(t, err, shared.ErrEmptyText)

	require.NoError(t, f.planner.DeleteNote(ctx, DeleteCommand{ID: note.ID}))
	_, err = f.planner.UpdateNote(ctx, UpdateNoteCommand{NoteID: note.ID, Text: "x"})
	assert.ErrorIs(t, err, shared.ErrNoteNotFound)
}

func TestSnippets(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	s, err := f.planner.CreateSnippet(ctx, SnippetCommand{Title: "useToggle", Code: "const [on, set] = useState(false)"})
	require.NoError(t, err)
	assert.Equal(t, planner.DefaultLanguage, s.Language)

	s, err = f.planner.UpdateSnippet(ctx, SnippetCommand{SnippetID: s.ID, Title: "useToggle", Language: "typescript", Code: "x"})
	require.NoError(t, err)
	assert.Equal(t, "typescript", s.Language)

	_, err = f.planner.UpdateSnippet(ctx, SnippetCommand{Title: "t", Code: "x"})
	assert.True(t, shared.IsValidation(err))

	require.NoError(t, f.planner.DeleteSnippet(ctx, DeleteCommand{ID: s.ID}))
	assert.ErrorIs(t, f.planner.DeleteSnippet(ctx, DeleteCommand{ID: s.ID}), shared.ErrSnippetNotFound)
}
