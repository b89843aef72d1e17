package ledger

import (
	"encoding/json"
	"fmt"

	"github.com/rn-academy/progress-hub/internal/domain/planner"
	"github.com/rn-academy/progress-hub/internal/domain/progress"
	"github.com/rn-academy/progress-hub/internal/infrastructure/persistence/keys"
)

// recordCheckers parse a raw record into its typed form and apply the same
// invariants the repositories enforce on read. Every suffix in keys.All has one.
var recordCheckers = map[string]func(raw []byte) error{
	keys.SuffixLessons:      decodeAs[progress.IDSet](nil),
	keys.SuffixQuizzes:      decodeAs(checkQuizResults),
	keys.SuffixPlan:         checkPlanRecord,
	keys.SuffixAchievements: decodeAs[[]progress.UserAchievement](nil),
	keys.SuffixProjects:     decodeAs[progress.ProjectProgress](nil),
	keys.SuffixVideos:       decodeAs[progress.IDSet](nil),
	keys.SuffixNotes:        decodeAs[planner.Notes](nil),
	keys.SuffixGoals:        decodeAs[planner.Goals](nil),
	keys.SuffixSnippets:     decodeAs[planner.Snippets](nil),
}

// checkRecord validates one raw record stored under suffix.
func checkRecord(suffix string, raw []byte) error {
	check, ok := recordCheckers[suffix]
	if !ok {
		return fmt.Errorf("unknown record %q", suffix)
	}
	return check(raw)
}

func decodeAs[T any](check func(T) error) func([]byte) error {
	return func(raw []byte) error {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		if check == nil {
			return nil
		}
		return check(v)
	}
}

func checkPlanRecord(raw []byte) error {
	plan := progress.DefaultPlan()
	if err := json.Unmarshal(raw, &plan); err != nil {
		return err
	}
	return plan.Validate()
}

func checkQuizResults(results progress.QuizResults) error {
	for i, r := range results {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("quiz result %d (lesson %q): %w", i, r.LessonID, err)
		}
	}
	return nil
}
