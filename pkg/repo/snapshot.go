package repo

import "context"

// SnapshotRepo stores exported inventory snapshots.
type SnapshotRepo interface {
	// PutSnapshot writes body under key and returns where it landed.
	PutSnapshot(ctx context.Context, key string, body []byte) (string, error)
}
