package inventory

import (
	"context"

	"github.com/scienceol/labstock/pkg/common"
	"github.com/scienceol/labstock/pkg/core/catalog"
)

// Service is the inventory use-case layer shared by the http, console and
// export entry points. Every read derives status for the current day.
type Service interface {
	Create(ctx context.Context, req *CreateReq) (*ReagentResp, error)
	Outbound(ctx context.Context, req *QuantityReq) (*ReagentResp, error)
	Restock(ctx context.Context, req *QuantityReq) (*RestockResp, error)
	Dispose(ctx context.Context, req *DisposeReq) (*ReagentResp, error)
	Update(ctx context.Context, req *UpdateReq) (*ReagentResp, error)
	Borrow(ctx context.Context, req *BorrowReq) (*ReagentResp, error)
	Return(ctx context.Context, req *ReturnReq) (*ReagentResp, error)

	Query(ctx context.Context, req *QueryReq) (*common.PageResp[[]*ReagentResp], error)
	// List returns every record ordered by id.
	List(ctx context.Context) ([]*ReagentResp, error)
	Detail(ctx context.Context, req *DetailReq) (*ReagentResp, error)
	Summary(ctx context.Context) (*SummaryResp, error)
	Cabinets(ctx context.Context) ([]*CabinetResp, error)
	// Allocate previews the slot a create would take; nothing is reserved.
	Allocate(ctx context.Context, req *AllocateReq) (*AllocateResp, error)
	Autofill(ctx context.Context, req *AutofillReq) (*AutofillResp, error)
	Catalog(ctx context.Context) ([]catalog.Entry, error)
	Export(ctx context.Context, req *ExportReq) (*ExportResp, error)
	// Sweep re-derives every status for today and broadcasts the records
	// whose status moved without a mutation, e.g. on a date rollover.
	Sweep(ctx context.Context) (*SweepResp, error)

	Close(ctx context.Context) error
}
