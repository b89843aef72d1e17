package command

import (
	"context"
	"time"

	"github.com/rn-academy/progress-hub/internal/domain/progress"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDY / PLAN / ACHIEVEMENTS
// ══════════════════════════════════════════════════════════════════════════════

// RecordStudyCommand records study activity for today without any other change.
type RecordStudyCommand struct {
	Profile string
}

// RecordStudy applies the streak rule with the injected clock.
func (h *ProgressHandler) RecordStudy(ctx context.Context, cmd RecordStudyCommand) (*Outcome, error) {
	profile, err := resolveProfile(cmd.Profile)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	out := &Outcome{}
	if err := h.studied(ctx, profile, h.clock.Now(), nil, nil, out); err != nil {
		return nil, err
	}
	h.finish("RecordStudy", profile, out, start)
	return out, nil
}

// UpdatePlanCommand changes the learning plan settings.
type UpdatePlanCommand struct {
	Profile    string
	Level      string `validate:"required,oneof=beginner intermediate advanced"`
	WeeklyGoal int    `validate:"gte=0,lte=50"`
	StudyDays  []int  `validate:"dive,gte=0,lte=6"`
}

// UpdatePlan stores the new schedule. Streak fields are kept as they are.
func (h *ProgressHandler) UpdatePlan(ctx context.Context, cmd UpdatePlanCommand) (*progress.LearningPlan, error) {
	if err := validateCommand("progress", "UpdatePlan", cmd); err != nil {
		return nil, err
	}
	profile, err := resolveProfile(cmd.Profile)
	if err != nil {
		return nil, err
	}

	plan, err := h.repo.Plan(ctx, profile)
	if err != nil {
		return nil, err
	}
	plan = plan.WithSchedule(progress.Level(cmd.Level), cmd.WeeklyGoal, cmd.StudyDays)
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	if err := h.repo.SavePlan(ctx, profile, plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// CheckAchievementsCommand re-evaluates achievements against stored state.
type CheckAchievementsCommand struct {
	Profile string
}

// CheckAchievements persists any achievement whose condition holds but which
// was never recorded, e.g. after an import or a catalog change.
func (h *ProgressHandler) CheckAchievements(ctx context.Context, cmd CheckAchievementsCommand) (*Outcome, error) {
	profile, err := resolveProfile(cmd.Profile)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	plan, err := h.repo.Plan(ctx, profile)
	if err != nil {
		return nil, err
	}

	out := &Outcome{StreakDays: plan.StreakDays}
	if err := h.awardFor(ctx, profile, plan.StreakDays, nil, nil, h.clock.Now(), out); err != nil {
		return nil, err
	}
	h.finish("CheckAchievements", profile, out, start)
	return out, nil
}
