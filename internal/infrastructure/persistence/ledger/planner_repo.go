package ledger

import (
	"context"

	"github.com/rn-academy/progress-hub/internal/domain/planner"
	"github.com/rn-academy/progress-hub/internal/domain/shared"
	"github.com/rn-academy/progress-hub/internal/infrastructure/persistence/keys"
)

// PlannerRepository implements planner.Repository.
type PlannerRepository struct {
	codec codec
}

var _ planner.Repository = (*PlannerRepository)(nil)

// NewPlannerRepository creates a repository over store.
func NewPlannerRepository(store shared.Store, kb keys.Builder) *PlannerRepository {
	return &PlannerRepository{codec: newCodec(store, kb)}
}

// Goals returns goals with the completion flag recomputed from milestones.
func (r *PlannerRepository) Goals(ctx context.Context, profile shared.ProfileID) (planner.Goals, error) {
	var goals planner.Goals
	if _, err := r.codec.load(ctx, profile, keys.SuffixGoals, &goals); err != nil {
		return nil, err
	}
	out := goals[:0]
	for _, g := range goals {
		if g == nil {
			continue
		}
		g.Normalize()
		out = append(out, g)
	}
	return out, nil
}

// SaveGoals writes goals.
func (r *PlannerRepository) SaveGoals(ctx context.Context, profile shared.ProfileID, goals planner.Goals) error {
	if goals == nil {
		goals = planner.Goals{}
	}
	return r.codec.save(ctx, profile, keys.SuffixGoals, goals)
}

// Notes returns notes.
func (r *PlannerRepository) Notes(ctx context.Context, profile shared.ProfileID) (planner.Notes, error) {
	var notes planner.Notes
	if _, err := r.codec.load(ctx, profile, keys.SuffixNotes, &notes); err != nil {
		return nil, err
	}
	out := notes[:0]
	for _, n := range notes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out, nil
}

// SaveNotes writes notes.
func (r *PlannerRepository) SaveNotes(ctx context.Context, profile shared.ProfileID, notes planner.Notes) error {
	if notes == nil {
		notes = planner.Notes{}
	}
	return r.codec.save(ctx, profile, keys.SuffixNotes, notes)
}

// Snippets returns snippets.
func (r *PlannerRepository) Snippets(ctx context.Context, profile shared.ProfileID) (planner.Snippets, error) {
	var snippets planner.Snippets
	if _, err := r.codec.load(ctx, profile, keys.SuffixSnippets, &snippets); err != nil {
		return nil, err
	}
	out := snippets[:0]
	for _, s := range snippets {
		if s != nil {
			out = append(out, s)
		}
	}
	return out, nil
}

// SaveSnippets writes snippets.
func (r *PlannerRepository) SaveSnippets(ctx context.Context, profile shared.ProfileID, snippets planner.Snippets) error {
	if snippets == nil {
		snippets = planner.Snippets{}
	}
	return r.codec.save(ctx, profile, keys.SuffixSnippets, snippets)
}
