package command

import (
	"context"
	"time"

	"github.com/rn-academy/progress-hub/internal/domain/progress"
	"github.com/rn-academy/progress-hub/internal/domain/shared"
)

// ToggleProjectStepCommand flips one step of a guided project.
type ToggleProjectStepCommand struct {
	Profile   string
	ProjectID string `validate:"required"`
	StepID    string `validate:"required"`
}

// ProjectStepResult is returned by ToggleProjectStep.
type ProjectStepResult struct {
	Outcome

	ProjectID      string `json:"project_id"`
	StepID         string `json:"step_id"`
	Completed      bool   `json:"completed"`
	CompletedSteps int    `json:"completed_steps"`
	TotalSteps     int    `json:"total_steps"`
	Percent        int    `json:"percent"`
}

// ToggleProjectStep flips the step. Completing a step counts as study
// activity; unchecking one does not.
func (h *ProgressHandler) ToggleProjectStep(ctx context.Context, cmd ToggleProjectStepCommand) (*ProjectStepResult, error) {
	if err := validateCommand("progress", "ToggleProjectStep", cmd); err != nil {
		return nil, err
	}
	profile, err := resolveProfile(cmd.Profile)
	if err != nil {
		return nil, err
	}

	project, ok := h.catalog.Project(cmd.ProjectID)
	if !ok {
		return nil, shared.ErrProjectNotFound
	}
	if !project.HasStep(cmd.StepID) {
		return nil, shared.ErrStepNotFound
	}

	start := time.Now()
	now := h.clock.Now()

	pp, err := h.repo.ProjectProgress(ctx, profile)
	if err != nil {
		return nil, err
	}
	if pp == nil {
		pp = progress.ProjectProgress{}
	}
	done := pp.ToggleStep(cmd.ProjectID, cmd.StepID)
	if err := h.repo.SaveProjectProgress(ctx, profile, pp); err != nil {
		return nil, err
	}

	completed := pp.Steps(cmd.ProjectID).CountIn(project.StepIDs())
	out := &ProjectStepResult{
		ProjectID:      cmd.ProjectID,
		StepID:         cmd.StepID,
		Completed:      done,
		CompletedSteps: completed,
		TotalSteps:     len(project.Steps),
		Percent:        progress.ProjectPercent(completed, len(project.Steps)),
	}

	if done {
		out.Events = append(out.Events, shared.NewStepCompletedEvent(
			profile.String(), cmd.ProjectID, cmd.StepID, completed, len(project.Steps), now))
		if err := h.studied(ctx, profile, now, nil, nil, &out.Outcome); err != nil {
			return nil, err
		}
	}

	h.finish("ToggleProjectStep", profile, &out.Outcome, start)
	return out, nil
}
