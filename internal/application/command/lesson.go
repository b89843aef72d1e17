package command

import (
	"context"
	"time"

	"github.com/rn-academy/progress-hub/internal/domain/progress"
	"github.com/rn-academy/progress-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// COMPLETE / TOGGLE LESSON
// ══════════════════════════════════════════════════════════════════════════════

// CompleteLessonCommand marks a lesson as completed.
type CompleteLessonCommand struct {
	Profile  string
	LessonID string `validate:"required"`
}

// ToggleLessonCommand flips the completed state of a lesson.
type ToggleLessonCommand struct {
	Profile  string
	LessonID string `validate:"required"`
}

// LessonResult is returned by the lesson commands.
type LessonResult struct {
	Outcome

	// LessonID is the lesson the command targeted.
	LessonID string `json:"lesson_id"`

	// Completed is the lesson state after the call.
	Completed bool `json:"completed"`

	// CompletedLessons is the size of the completed set after the call.
	CompletedLessons int `json:"completed_lessons"`

	// TotalLessons is the number of lessons in the curriculum.
	TotalLessons int `json:"total_lessons"`
}

// CompleteLesson adds the lesson to the completed set. Completing a lesson
// twice is a no-op for the set but still counts as study activity.
func (h *ProgressHandler) CompleteLesson(ctx context.Context, cmd CompleteLessonCommand) (*LessonResult, error) {
	if err := validateCommand("progress", "CompleteLesson", cmd); err != nil {
		return nil, err
	}
	profile, err := resolveProfile(cmd.Profile)
	if err != nil {
		return nil, err
	}
	if !h.catalog.HasLesson(cmd.LessonID) {
		return nil, shared.ErrLessonNotFound
	}
	return h.setLesson(ctx, "CompleteLesson", profile, cmd.LessonID, func(set *progress.IDSet) bool {
		set.Add(cmd.LessonID)
		return true
	})
}

// ToggleLesson removes a completed lesson or completes an open one.
// Only completing counts as study activity.
func (h *ProgressHandler) ToggleLesson(ctx context.Context, cmd ToggleLessonCommand) (*LessonResult, error) {
	if err := validateCommand("progress", "ToggleLesson", cmd); err != nil {
		return nil, err
	}
	profile, err := resolveProfile(cmd.Profile)
	if err != nil {
		return nil, err
	}
	return h.setLesson(ctx, "ToggleLesson", profile, cmd.LessonID, func(set *progress.IDSet) bool {
		if set.Contains(cmd.LessonID) {
			set.Remove(cmd.LessonID)
			return false
		}
		return set.Add(cmd.LessonID)
	})
}

// setLesson loads the set, applies mutate and persists when it changed.
// Adding an id that is not in the curriculum is rejected; removing one is allowed
// so stale ids written by older builds can be cleared.
func (h *ProgressHandler) setLesson(
	ctx context.Context,
	op string,
	profile shared.ProfileID,
	lessonID string,
	mutate func(*progress.IDSet) bool,
) (*LessonResult, error) {
	start := time.Now()
	now := h.clock.Now()

	lessons, err := h.repo.LessonProgress(ctx, profile)
	if err != nil {
		return nil, err
	}

	wasDone := lessons.Contains(lessonID)
	done := mutate(&lessons)
	if done && !wasDone && !h.catalog.HasLesson(lessonID) {
		return nil, shared.ErrLessonNotFound
	}
	if done != wasDone {
		if err := h.repo.SaveLessonProgress(ctx, profile, lessons); err != nil {
			return nil, err
		}
	}

	result := &LessonResult{
		LessonID:         lessonID,
		Completed:        done,
		CompletedLessons: lessons.CountIn(h.catalog.LessonIDs()),
		TotalLessons:     h.catalog.TotalLessons(),
	}

	if done {
		if !wasDone {
			result.Events = append(result.Events, shared.NewLessonCompletedEvent(
				profile.String(), lessonID, result.CompletedLessons, result.TotalLessons, now))
		}
		if err := h.studied(ctx, profile, now, lessons, nil, &result.Outcome); err != nil {
			return nil, err
		}
	} else {
		plan, err := h.repo.Plan(ctx, profile)
		if err != nil {
			return nil, err
		}
		result.StreakDays = plan.StreakDays
	}

	h.finish(op, profile, &result.Outcome, start)
	return result, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// VIDEOS
// ══════════════════════════════════════════════════════════════════════════════

// ToggleVideoWatchedCommand flips the watched state of a lesson video.
type ToggleVideoWatchedCommand struct {
	Profile string
	VideoID string `validate:"required"`
}

// VideoResult is returned by ToggleVideoWatched.
type VideoResult struct {
	VideoID       string `json:"video_id"`
	Watched       bool   `json:"watched"`
	WatchedVideos int    `json:"watched_videos"`
}

// ToggleVideoWatched flips the video in the watched set. Watching a video
// does not touch the streak.
func (h *ProgressHandler) ToggleVideoWatched(ctx context.Context, cmd ToggleVideoWatchedCommand) (*VideoResult, error) {
	if err := validateCommand("progress", "ToggleVideoWatched", cmd); err != nil {
		return nil, err
	}
	profile, err := resolveProfile(cmd.Profile)
	if err != nil {
		return nil, err
	}

	videos, err := h.repo.WatchedVideos(ctx, profile)
	if err != nil {
		return nil, err
	}
	if !videos.Contains(cmd.VideoID) && !h.catalog.HasVideo(cmd.VideoID) {
		return nil, shared.NewDomainError("progress", "ToggleVideoWatched", shared.ErrNotFound, "video not found")
	}

	watched := videos.Toggle(cmd.VideoID)
	if err := h.repo.SaveWatchedVideos(ctx, profile, videos); err != nil {
		return nil, err
	}
	return &VideoResult{VideoID: cmd.VideoID, Watched: watched, WatchedVideos: videos.Len()}, nil
}
