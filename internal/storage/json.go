package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// LoadJSON decodes the slot into out. It reports false when the slot is
// absent or its payload is corrupt; corrupt payloads are deleted. Only
// backend failures are returned as errors.
func LoadJSON(ctx context.Context, s Storage, slot string, out any) (bool, error) {
	raw, err := s.Get(ctx, slot)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", slot, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		slog.WarnContext(ctx, "discarding corrupt payload", "slot", slot, "err", err)
		if derr := s.Delete(ctx, slot); derr != nil {
			return false, fmt.Errorf("delete %s: %w", slot, derr)
		}
		return false, nil
	}
	return true, nil
}

// SaveJSON replaces the slot with the JSON encoding of v.
func SaveJSON(ctx context.Context, s Storage, slot string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", slot, err)
	}
	if err := s.Set(ctx, slot, string(b)); err != nil {
		return fmt.Errorf("write %s: %w", slot, err)
	}
	return nil
}
