// Package keys defines the well-known storage key layout:
//
//	<namespace>:<profile>:<suffix>
//
// e.g. "rnacademy:default:progress:lessons".
package keys

import (
	"strings"

	"github.com/rn-academy/progress-hub/internal/domain/shared"
)

// DefaultNamespace is the key prefix used when none is configured.
const DefaultNamespace = "rnacademy"

// Record suffixes.
const (
	SuffixLessons      = "progress:lessons"
	SuffixQuizzes      = "progress:quizzes"
	SuffixPlan         = "plan"
	SuffixAchievements = "achievements"
	SuffixProjects     = "projects:progress"
	SuffixVideos       = "videos:watched"
	SuffixNotes        = "notes"
	SuffixGoals        = "goals"
	SuffixSnippets     = "snippets"
)

// All lists every record suffix of a profile.
var All = []string{
	SuffixLessons,
	SuffixQuizzes,
	SuffixPlan,
	SuffixAchievements,
	SuffixProjects,
	SuffixVideos,
	SuffixNotes,
	SuffixGoals,
	SuffixSnippets,
}

// Builder builds namespaced keys.
type Builder struct {
	namespace string
}

// NewBuilder returns a builder; an empty namespace means DefaultNamespace.
func NewBuilder(namespace string) Builder {
	namespace = strings.Trim(strings.TrimSpace(namespace), ":")
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return Builder{namespace: namespace}
}

// Namespace returns the configured namespace.
func (b Builder) Namespace() string {
	if b.namespace == "" {
		return DefaultNamespace
	}
	return b.namespace
}

// Key returns the full key for a profile record.
func (b Builder) Key(profile shared.ProfileID, suffix string) string {
	if profile == "" {
		profile = shared.DefaultProfile
	}
	return b.Namespace() + ":" + string(profile) + ":" + suffix
}

// ProfilePrefix returns the prefix shared by every key of the profile.
func (b Builder) ProfilePrefix(profile shared.ProfileID) string {
	if profile == "" {
		profile = shared.DefaultProfile
	}
	return b.Namespace() + ":" + string(profile) + ":"
}

// ProfileKeys returns every record key of the profile.
func (b Builder) ProfileKeys(profile shared.ProfileID) []string {
	out := make([]string, len(All))
	for i, s := range All {
		out[i] = b.Key(profile, s)
	}
	return out
}
