package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rn-academy/progress-hub/internal/domain/shared"
)

var now = time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)

func TestGoal_CompletionFollowsMilestones(t *testing.T) {
	g, err := NewGoal("g1", "Ship my first app", "", shared.Date{}, []string{"design", " ", "build"}, now)
	require.NoError(t, err)
	require.Len(t, g.Milestones, 2)
	assert.False(t, g.Completed)

	done, err := g.ToggleMilestone(g.Milestones[0].ID)
	require.NoError(t, err)
	assert.False(t, done)
	assert.False(t, g.Completed)

	done, err = g.ToggleMilestone(g.Milestones[1].ID)
	require.NoError(t, err)
	assert.True(t, done)
	assert.True(t, g.Completed)

	done, err = g.ToggleMilestone(g.Milestones[1].ID)
	require.NoError(t, err)
	assert.False(t, done)
	assert.False(t, g.Completed)
	assert.Equal(t, 1, g.MilestonesDone())

	_, err = g.ToggleMilestone("missing")
	assert.ErrorIs(t, err, shared.ErrMilestoneNotFound)
}

func TestGoal_ToggleWithoutMilestones(t *testing.T) {
	g, err := NewGoal("g1", "Read the docs", "", shared.Date{}, nil, now)
	require.NoError(t, err)

	assert.True(t, g.Toggle())
	g.Normalize()
	assert.True(t, g.Completed)
	assert.False(t, g.Toggle())
}

func TestGoal_ToggleMarksAllMilestones(t *testing.T) {
	g, err := NewGoal("g1", "Finish course", "", shared.Date{}, []string{"a", "b"}, now)
	require.NoError(t, err)

	assert.True(t, g.Toggle())
	assert.Equal(t, 2, g.MilestonesDone())
	assert.False(t, g.Toggle())
	assert.Equal(t, 0, g.MilestonesDone())
}

func TestGoal_Validation(t *testing.T) {
	_, err := NewGoal("g1", "   ", "", shared.Date{}, nil, now)
	assert.ErrorIs(t, err, shared.ErrEmptyTitle)
	assert.True(t, shared.IsValidation(err))

	g, err := NewGoal("g1", "Goal", "", shared.Date{}, nil, now)
	require.NoError(t, err)
	assert.ErrorIs(t, g.Rename("", "", shared.Date{}), shared.ErrEmptyTitle)
}

func TestGoal_IsOverdue(t *testing.T) {
	deadline := shared.Date{Year: 2025, Month: time.August, Day: 31}
	g, err := NewGoal("g1", "Goal", "", deadline, nil, now)
	require.NoError(t, err)

	assert.True(t, g.IsOverdue(shared.DateOf(now)))
	assert.False(t, g.IsOverdue(deadline))
	g.Toggle()
	assert.False(t, g.IsOverdue(shared.DateOf(now)))
}

func TestGoals_FindRemove(t *testing.T) {
	gs := Goals{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	rest, ok := gs.Remove("b")
	require.True(t, ok)
	assert.Len(t, rest, 2)
	_, found := rest.Find("b")
	assert.False(t, found)

	_, ok = rest.Remove("zzz")
	assert.False(t, ok)
	assert.Len(t, gs, 3)
}

func TestNote(t *testing.T) {
	_, err := NewNote("n1", "", "  ", now)
	assert.ErrorIs(t, err, shared.ErrEmptyText)

	n, err := NewNote("n1", "hooks-in-depth", " useEffect cleanup ", now)
	require.NoError(t, err)
	assert.Equal(t, "useEffect cleanup", n.Text)

	later := now.Add(time.Minute)
	require.NoError(t, n.Edit("updated", later))
	assert.Equal(t, later, n.UpdatedAt)
	assert.Equal(t, now, n.CreatedAt)
	assert.ErrorIs(t, n.Edit("", later), shared.ErrEmptyText)

	ns := Notes{n, {ID: "n2", LessonID: "navigation"}}
	assert.Len(t, ns.ForLesson("hooks-in-depth"), 1)
	assert.Len(t, ns.ForLesson(""), 2)
}

func TestSnippet(t *testing.T) {
	_, err := NewSnippet("s1", "", "", "x", now)
	assert.ErrorIs(t, err, shared.ErrEmptyTitle)

	_, err = NewSnippet("s1", "title", "", "  \n", now)
	assert.ErrorIs(t, err, shared.ErrEmptyCode)

	code := "const App = () => <View />;\n"
	s, err := NewSnippet("s1", "App", "", code, now)
	require.NoError(t, err)
	assert.Equal(t, DefaultLanguage, s.Language)
	assert.Equal(t, code, s.Code)

	ss := Snippets{s}
	_, ok := ss.Find("s1")
	assert.True(t, ok)
	ss, ok = ss.Remove("s1")
	assert.True(t, ok)
	assert.Empty(t, ss)
}
