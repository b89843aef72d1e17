package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/rn-academy/progress-hub/internal/domain/shared"
	"github.com/rn-academy/progress-hub/internal/infrastructure/persistence/keys"
)

// ArchiveVersion is the current export format version.
const ArchiveVersion = 1

// Lister enumerates keys by prefix.
type Lister interface {
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// Deleter removes keys; missing keys are not an error.
type Deleter interface {
	Delete(ctx context.Context, keys ...string) error
}

// Archive is a portable copy of one profile's records, keyed by suffix.
// Records keep their stored JSON verbatim.
type Archive struct {
	Version    int                        `json:"version"`
	Profile    string                     `json:"profile"`
	Namespace  string                     `json:"namespace"`
	ExportedAt time.Time                  `json:"exported_at"`
	Records    map[string]json.RawMessage `json:"records"`
}

// Export copies every present record of profile into an archive.
func Export(ctx context.Context, store shared.Store, kb keys.Builder, profile shared.ProfileID, at time.Time) (*Archive, error) {
	a := &Archive{
		Version:    ArchiveVersion,
		Profile:    string(profile),
		Namespace:  kb.Namespace(),
		ExportedAt: at,
		Records:    make(map[string]json.RawMessage, len(keys.All)),
	}

	for _, suffix := range keys.All {
		key := kb.Key(profile, suffix)
		raw, found, err := store.Get(ctx, key)
		if err != nil {
			return nil, &shared.StorageError{Op: "get", Key: key, Err: err}
		}
		if !found || strings.TrimSpace(raw) == "" {
			continue
		}
		if !json.Valid([]byte(raw)) {
			return nil, &shared.DecodeError{Key: key, Err: fmt.Errorf("record is not valid JSON")}
		}
		a.Records[suffix] = json.RawMessage(raw)
	}
	return a, nil
}

// Import writes the archive's records under profile, which may differ from
// the profile the archive was exported from. Every record is checked before
// anything is written; records absent from the archive are left untouched.
func Import(ctx context.Context, store shared.Store, kb keys.Builder, profile shared.ProfileID, a *Archive) error {
	if a == nil {
		return shared.NewDomainError("ledger", "import", shared.ErrInvalidInput, "archive is empty")
	}
	if a.Version != ArchiveVersion {
		return shared.NewDomainError("ledger", "import", shared.ErrInvalidFormat,
			fmt.Sprintf("unsupported archive version %d", a.Version))
	}

	suffixes := make([]string, 0, len(a.Records))
	for suffix, raw := range a.Records {
		if !slices.Contains(keys.All, suffix) {
			return shared.NewDomainError("ledger", "import", shared.ErrInvalidFormat,
				fmt.Sprintf("unknown record %q", suffix))
		}
		if err := checkRecord(suffix, raw); err != nil {
			return &shared.DecodeError{Key: suffix, Err: err}
		}
		suffixes = append(suffixes, suffix)
	}
	sort.Strings(suffixes)

	for _, suffix := range suffixes {
		key := kb.Key(profile, suffix)
		if err := store.Set(ctx, key, string(a.Records[suffix])); err != nil {
			return &shared.StorageError{Op: "set", Key: key, Err: err}
		}
	}
	return nil
}

// Reset deletes every record of profile.
func Reset(ctx context.Context, store Deleter, kb keys.Builder, profile shared.ProfileID) error {
	if err := store.Delete(ctx, kb.ProfileKeys(profile)...); err != nil {
		return &shared.StorageError{Op: "delete", Key: kb.ProfilePrefix(profile), Err: err}
	}
	return nil
}

// Profiles lists the profiles that have at least one record, sorted.
func Profiles(ctx context.Context, store Lister, kb keys.Builder) ([]string, error) {
	prefix := kb.Namespace() + ":"
	all, err := store.Keys(ctx, prefix)
	if err != nil {
		return nil, &shared.StorageError{Op: "keys", Key: prefix, Err: err}
	}

	seen := make(map[string]bool)
	var out []string
	for _, key := range all {
		rest := strings.TrimPrefix(key, prefix)
		profile, suffix, ok := strings.Cut(rest, ":")
		if !ok || !slices.Contains(keys.All, suffix) || seen[profile] {
			continue
		}
		seen[profile] = true
		out = append(out, profile)
	}
	sort.Strings(out)
	return out, nil
}
