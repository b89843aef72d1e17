package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rn-academy/progress-hub/internal/application/command"
	"github.com/rn-academy/progress-hub/internal/application/query"
	"github.com/rn-academy/progress-hub/internal/domain/planner"
)

// ══════════════════════════════════════════════════════════════════════════════
// GOALS
// ══════════════════════════════════════════════════════════════════════════════

type goalRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Deadline    string   `json:"deadline"`
	Milestones  []string `json:"milestones"`
}

func (s *Server) handleListGoals(c *gin.Context) {
	goals, err := s.deps.Queries.ListGoals(c.Request.Context(), query.ListGoalsQuery{
		Profile:       c.Param("profile"),
		HideCompleted: queryBool(c, "hide_completed"),
	})
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	writeList(c, goals, len(goals))
}

func (s *Server) handleCreateGoal(c *gin.Context) {
	var req goalRequest
	if !bind(c, &req) {
		return
	}
	goal, err := s.deps.Planner.CreateGoal(c.Request.Context(), command.CreateGoalCommand{
		Profile:     c.Param("profile"),
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
		Milestones:  req.Milestones,
	})
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, goal)
}

func (s *Server) handleUpdateGoal(c *gin.Context) {
	var req goalRequest
	if !bind(c, &req) {
		return
	}
	goal, err := s.deps.Planner.UpdateGoal(c.Request.Context(), command.UpdateGoalCommand{
		Profile:       c.Param("profile"),
		GoalID:        c.Param("id"),
		Title:         req.Title,
		Description:   req.Description,
		Deadline:      req.Deadline,
		AddMilestones: req.Milestones,
	})
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, goal)
}

func (s *Server) handleToggleGoal(c *gin.Context) {
	goal, err := s.deps.Planner.ToggleGoal(c.Request.Context(), command.ToggleGoalCommand{
		Profile: c.Param("profile"),
		GoalID:  c.Param("id"),
	})
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, goal)
}

func (s *Server) handleToggleMilestone(c *gin.Context) {
	goal, err := s.deps.Planner.ToggleMilestone(c.Request.Context(), command.ToggleMilestoneCommand{
		Profile:     c.Param("profile"),
		GoalID:      c.Param("id"),
		MilestoneID: c.Param("milestoneID"),
	})
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, goal)
}

func (s *Server) handleDeleteGoal(c *gin.Context) {
	s.handleDelete(c, s.deps.Planner.DeleteGoal)
}

// ══════════════════════════════════════════════════════════════════════════════
// NOTES
// ══════════════════════════════════════════════════════════════════════════════

type noteRequest struct {
	LessonID string `json:"lesson_id"`
	Text     string `json:"text"`
}

func (s *Server) handleListNotes(c *gin.Context) {
	notes, err := s.deps.Queries.ListNotes(c.Request.Context(), query.ListNotesQuery{
		Profile:  c.Param("profile"),
		LessonID: c.Query("lesson_id"),
	})
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	writeList(c, notes, len(notes))
}

func (s *Server) handleCreateNote(c *gin.Context) {
	var req noteRequest
	if !bind(c, &req) {
		return
	}
	note, err := s.deps.Planner.CreateNote(c.Request.Context(), command.CreateNoteCommand{
		Profile:  c.Param("profile"),
		LessonID: req.LessonID,
		Text:     req.Text,
	})
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, note)
}

func (s *Server) handleUpdateNote(c *gin.Context) {
	var req noteRequest
	if !bind(c, &req) {
		return
	}
	note, err := s.deps.Planner.UpdateNote(c.Request.Context(), command.UpdateNoteCommand{
		Profile: c.Param("profile"),
		NoteID:  c.Param("id"),
		Text:    req.Text,
	})
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, note)
}

func (s *Server) handleDeleteNote(c *gin.Context) {
	s.handleDelete(c, s.deps.Planner.DeleteNote)
}

// ══════════════════════════════════════════════════════════════════════════════
// SNIPPETS
// ══════════════════════════════════════════════════════════════════════════════

type snippetRequest struct {
	Title    string `json:"title"`
	Language string `json:"language"`
	Code     string `json:"code"`
}

func (s *Server) handleListSnippets(c *gin.Context) {
	snippets, err := s.deps.Queries.ListSnippets(c.Request.Context(), query.ListSnippetsQuery{
		Profile:  c.Param("profile"),
		Language: c.Query("language"),
	})
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	writeList(c, snippets, len(snippets))
}

func (s *Server) handleCreateSnippet(c *gin.Context) {
	s.saveSnippet(c, "", s.deps.Planner.CreateSnippet, http.StatusCreated)
}

func (s *Server) handleUpdateSnippet(c *gin.Context) {
	s.saveSnippet(c, c.Param("id"), s.deps.Planner.UpdateSnippet, http.StatusOK)
}

func (s *Server) saveSnippet(
	c *gin.Context,
	id string,
	save func(ctx context.Context, cmd command.SnippetCommand) (*planner.Snippet, error),
	status int,
) {
	var req snippetRequest
	if !bind(c, &req) {
		return
	}
	snippet, err := save(c.Request.Context(), command.SnippetCommand{
		Profile:   c.Param("profile"),
		SnippetID: id,
		Title:     req.Title,
		Language:  req.Language,
		Code:      req.Code,
	})
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	writeJSON(c, status, snippet)
}

func (s *Server) handleDeleteSnippet(c *gin.Context) {
	s.handleDelete(c, s.deps.Planner.DeleteSnippet)
}

func (s *Server) handleDelete(c *gin.Context, del func(ctx context.Context, cmd command.DeleteCommand) error) {
	err := del(c.Request.Context(), command.DeleteCommand{Profile: c.Param("profile"), ID: c.Param("id")})
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
