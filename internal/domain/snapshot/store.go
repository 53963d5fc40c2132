package snapshot

import "context"

// Store persists whole snapshots to a single slot. Load returns a fresh
// normalized snapshot when the slot is empty; Save atomically replaces the
// slot's contents. There is no optimistic-concurrency protection: under
// the single-active-writer assumption the last write wins.
type Store interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, s *Snapshot) error
	Close() error
}
