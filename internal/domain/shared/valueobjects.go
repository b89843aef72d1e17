package shared

import (
	"regexp"
	"strings"
)

// ═══════════════════════════════════════════════════════════════════════════
// ID Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// DefaultProfile is the learner profile used when none is given.
const DefaultProfile ProfileID = "default"

// ProfileID identifies one learner's slice of the key space.
type ProfileID string

// Regular expression for valid profile identifiers. Profiles end up inside
// storage keys, so the ":" separator is excluded.
var profileIDRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// IsValid checks if the profile ID is valid.
func (p ProfileID) IsValid() bool {
	return profileIDRegex.MatchString(string(p))
}

// String returns the string representation.
func (p ProfileID) String() string {
	return string(p)
}

// NewProfileID creates a new ProfileID with validation.
// An empty input resolves to DefaultProfile.
func NewProfileID(id string) (ProfileID, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return DefaultProfile, nil
	}
	pid := ProfileID(id)
	if !pid.IsValid() {
		return "", NewDomainError("shared", "NewProfileID", ErrInvalidID, "invalid profile ID format")
	}
	return pid, nil
}

// CatalogID is an identifier from the static curriculum (lesson, project, step, video).
type CatalogID string

var catalogIDRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]{0,127}$`)

// IsValid checks if the catalog ID is well formed.
func (c CatalogID) IsValid() bool {
	return catalogIDRegex.MatchString(string(c))
}

// NormalizeText trims surrounding whitespace; used before non-empty checks.
func NormalizeText(s string) string {
	return strings.TrimSpace(s)
}
