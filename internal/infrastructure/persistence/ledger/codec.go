// Package ledger implements the progress and planner repositories as JSON
// records over the shared.Store key-value port.
package ledger

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rn-academy/progress-hub/internal/domain/shared"
	"github.com/rn-academy/progress-hub/internal/infrastructure/persistence/keys"
)

// codec reads and writes whole JSON records under profile keys.
type codec struct {
	store shared.Store
	keys  keys.Builder
}

func newCodec(store shared.Store, kb keys.Builder) codec {
	return codec{store: store, keys: kb}
}

// load decodes the record into dst. A missing key or empty value leaves dst
// untouched and reports found=false.
func (c codec) load(ctx context.Context, profile shared.ProfileID, suffix string, dst any) (bool, error) {
	key := c.keys.Key(profile, suffix)

	raw, found, err := c.store.Get(ctx, key)
	if err != nil {
		return false, &shared.StorageError{Op: "get", Key: key, Err: err}
	}
	if !found || strings.TrimSpace(raw) == "" {
		return false, nil
	}

	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, &shared.DecodeError{Key: key, Err: err}
	}
	return true, nil
}

// loadValid is load followed by check on the decoded record. A record that
// parses but breaks a domain invariant is reported as a DecodeError too.
func (c codec) loadValid(ctx context.Context, profile shared.ProfileID, suffix string, dst any, check func() error) (bool, error) {
	found, err := c.load(ctx, profile, suffix, dst)
	if err != nil || !found {
		return found, err
	}
	if err := check(); err != nil {
		return false, &shared.DecodeError{Key: c.keys.Key(profile, suffix), Err: err}
	}
	return true, nil
}

// save encodes v and writes it under the profile key.
func (c codec) save(ctx context.Context, profile shared.ProfileID, suffix string, v any) error {
	key := c.keys.Key(profile, suffix)

	data, err := json.Marshal(v)
	if err != nil {
		return shared.WrapError("ledger", "save", shared.ErrInvalidInput, "cannot encode "+suffix, err)
	}
	if err := c.store.Set(ctx, key, string(data)); err != nil {
		return &shared.StorageError{Op: "set", Key: key, Err: err}
	}
	return nil
}
