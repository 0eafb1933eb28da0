package store

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/phrazzld/hanzi-strokes/internal/domain"
)

// SnapshotVersion is the version written by EncodeSnapshot.
const SnapshotVersion = 1

// Snapshot is the export format of a card state collection. States are keyed
// by card ID under "srs".
type Snapshot struct {
	Version int                          `json:"version"`
	SRS     map[string]*domain.CardState `json:"srs"`
}

// EncodeSnapshot serializes states into a snapshot blob.
func EncodeSnapshot(states []*domain.CardState) ([]byte, error) {
	snap := Snapshot{
		Version: SnapshotVersion,
		SRS:     make(map[string]*domain.CardState, len(states)),
	}
	for _, s := range states {
		if s == nil {
			continue
		}
		snap.SRS[s.CardID] = s
	}

	blob, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return blob, nil
}

// DecodeSnapshot parses and validates a snapshot blob. The returned states are
// ordered by card ID. A state without a card_id takes the ID of its key; a
// state whose card_id disagrees with its key is rejected.
//
// A blob without a version is accepted as version 1 so that progress saved
// before versioning can still be imported.
func DecodeSnapshot(blob []byte) ([]*domain.CardState, error) {
	var snap Snapshot
	if err := json.Unmarshal(blob, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	if snap.Version != 0 && snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidSnapshot, snap.Version)
	}

	ids := make([]string, 0, len(snap.SRS))
	for id := range snap.SRS {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	states := make([]*domain.CardState, 0, len(ids))
	for _, id := range ids {
		s := snap.SRS[id]
		if s == nil {
			return nil, fmt.Errorf("%w: card %q has no state", ErrInvalidSnapshot, id)
		}
		if s.CardID == "" {
			s.CardID = id
		}
		if s.CardID != id {
			return nil, fmt.Errorf("%w: card %q is stored under key %q", ErrInvalidSnapshot, s.CardID, id)
		}
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("%w: card %q: %w", ErrInvalidSnapshot, id, err)
		}
		states = append(states, s)
	}

	return states, nil
}
