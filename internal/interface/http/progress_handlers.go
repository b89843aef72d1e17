package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rn-academy/progress-hub/internal/application/command"
	"github.com/rn-academy/progress-hub/internal/application/query"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESS ENDPOINTS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleOverview(c *gin.Context) {
	ov, err := s.deps.Queries.GetOverview(c.Request.Context(), query.GetOverviewQuery{Profile: c.Param("profile")})
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, ov)
}

func (s *Server) handleListAchievements(c *gin.Context) {
	list, err := s.deps.Queries.ListAchievements(c.Request.Context(), query.ListAchievementsQuery{
		Profile:    c.Param("profile"),
		EarnedOnly: queryBool(c, "earned"),
	})
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	writeList(c, list, len(list))
}

func (s *Server) handleCheckAchievements(c *gin.Context) {
	out, err := s.deps.Progress.CheckAchievements(c.Request.Context(), command.CheckAchievementsCommand{Profile: c.Param("profile")})
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, outcomeView(out))
}

func (s *Server) handleCompleteLesson(c *gin.Context) {
	res, err := s.deps.Progress.CompleteLesson(c.Request.Context(), command.CompleteLessonCommand{
		Profile:  c.Param("profile"),
		LessonID: c.Param("lessonID"),
	})
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, lessonView(res))
}

func (s *Server) handleToggleLesson(c *gin.Context) {
	res, err := s.deps.Progress.ToggleLesson(c.Request.Context(), command.ToggleLessonCommand{
		Profile:  c.Param("profile"),
		LessonID: c.Param("lessonID"),
	})
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, lessonView(res))
}

type submitQuizRequest struct {
	LessonID       string `json:"lesson_id"`
	Score          int    `json:"score"`
	TotalQuestions int    `json:"total_questions"`
}

func (s *Server) handleSubmitQuiz(c *gin.Context) {
	var req submitQuizRequest
	if !bind(c, &req) {
		return
	}
	res, err := s.deps.Progress.SubmitQuiz(c.Request.Context(), command.SubmitQuizCommand{
		Profile:        c.Param("profile"),
		LessonID:       req.LessonID,
		Score:          req.Score,
		TotalQuestions: req.TotalQuestions,
	})
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"result":  res.Result,
		"retake":  res.Retake,
		"average": res.Average,
		"outcome": outcomeView(&res.Outcome),
	})
}

func (s *Server) handleToggleStep(c *gin.Context) {
	res, err := s.deps.Progress.ToggleProjectStep(c.Request.Context(), command.ToggleProjectStepCommand{
		Profile:   c.Param("profile"),
		ProjectID: c.Param("projectID"),
		StepID:    c.Param("stepID"),
	})
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"project_id":      res.ProjectID,
		"step_id":         res.StepID,
		"completed":       res.Completed,
		"completed_steps": res.CompletedSteps,
		"total_steps":     res.TotalSteps,
		"percent":         res.Percent,
		"outcome":         outcomeView(&res.Outcome),
	})
}

func (s *Server) handleToggleVideo(c *gin.Context) {
	res, err := s.deps.Progress.ToggleVideoWatched(c.Request.Context(), command.ToggleVideoWatchedCommand{
		Profile: c.Param("profile"),
		VideoID: c.Param("videoID"),
	})
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"video_id":       res.VideoID,
		"watched":        res.Watched,
		"watched_videos": res.WatchedVideos,
	})
}

func (s *Server) handleRecordStudy(c *gin.Context) {
	out, err := s.deps.Progress.RecordStudy(c.Request.Context(), command.RecordStudyCommand{Profile: c.Param("profile")})
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, outcomeView(out))
}

type updatePlanRequest struct {
	Level      string `json:"level"`
	WeeklyGoal int    `json:"weekly_goal"`
	StudyDays  []int  `json:"study_days"`
}

func (s *Server) handleUpdatePlan(c *gin.Context) {
	var req updatePlanRequest
	if !bind(c, &req) {
		return
	}
	plan, err := s.deps.Progress.UpdatePlan(c.Request.Context(), command.UpdatePlanCommand{
		Profile:    c.Param("profile"),
		Level:      req.Level,
		WeeklyGoal: req.WeeklyGoal,
		StudyDays:  req.StudyDays,
	})
	if err != nil {
		s.writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, plan)
}

// ══════════════════════════════════════════════════════════════════════════════
// VIEWS
// ══════════════════════════════════════════════════════════════════════════════

func outcomeView(o *command.Outcome) gin.H {
	unlocked := make([]string, 0, len(o.Unlocked))
	for _, d := range o.Unlocked {
		unlocked = append(unlocked, d.ID)
	}
	return gin.H{
		"streak_days": o.StreakDays,
		"streak":      o.Streak.String(),
		"unlocked":    unlocked,
	}
}

func lessonView(r *command.LessonResult) gin.H {
	return gin.H{
		"lesson_id":         r.LessonID,
		"completed":         r.Completed,
		"completed_lessons": r.CompletedLessons,
		"total_lessons":     r.TotalLessons,
		"outcome":           outcomeView(&r.Outcome),
	}
}

func queryBool(c *gin.Context, key string) bool {
	switch c.Query(key) {
	case "1", "true", "yes":
		return true
	}
	return false
}
