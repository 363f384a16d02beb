package repo

import (
	"context"

	"github.com/scienceol/labstock/pkg/core/reagent"
)

// ReagentRepo is the persistence boundary behind the inventory store.
type ReagentRepo interface {
	// ListReagents returns every live record.
	ListReagents(ctx context.Context) ([]*reagent.Record, error)
	// SaveReagent inserts or replaces a record by id.
	SaveReagent(ctx context.Context, r *reagent.Record) error
	// DeleteReagent removes a record by id.
	DeleteReagent(ctx context.Context, id string) error
}
