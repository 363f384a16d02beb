package inventory

import (
	"github.com/gin-gonic/gin"

	"github.com/scienceol/labstock/pkg/common"
	"github.com/scienceol/labstock/pkg/common/code"
	core "github.com/scienceol/labstock/pkg/core/inventory"
	"github.com/scienceol/labstock/pkg/middleware/logger"
)

type Handle struct{ svc core.Service }

func NewHandle(svc core.Service) *Handle { return &Handle{svc: svc} }

// Create godoc
// @Summary  Register a container and place it in a free slot
// @Tags     inventory
// @Accept   json
// @Produce  json
// @Param    req body     inventory.CreateReq true "reagent"
// @Success  200 {object} common.Resp{data=inventory.ReagentResp}
// @Router   /v1/inventory/create [post]
func (h *Handle) Create(ctx *gin.Context) {
	req := &core.CreateReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		logger.Errorf(ctx, "parse Create param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	resp, err := h.svc.Create(ctx, req)
	common.Reply(ctx, err, resp)
}

// Outbound godoc
// @Summary  Take quantity out of a container
// @Tags     inventory
// @Param    req body     inventory.QuantityReq true "quantity"
// @Success  200 {object} common.Resp{data=inventory.ReagentResp}
// @Router   /v1/inventory/outbound [post]
func (h *Handle) Outbound(ctx *gin.Context) {
	req := &core.QuantityReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	resp, err := h.svc.Outbound(ctx, req)
	common.Reply(ctx, err, resp)
}

// Restock godoc
// @Summary  Refill a container up to its capacity
// @Tags     inventory
// @Param    req body     inventory.QuantityReq true "quantity"
// @Success  200 {object} common.Resp{data=inventory.RestockResp}
// @Router   /v1/inventory/restock [post]
func (h *Handle) Restock(ctx *gin.Context) {
	req := &core.QuantityReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	resp, err := h.svc.Restock(ctx, req)
	common.Reply(ctx, err, resp)
}

// Dispose godoc
// @Summary  Remove a container and free its slot
// @Tags     inventory
// @Param    req body     inventory.DisposeReq true "id"
// @Success  200 {object} common.Resp{data=inventory.ReagentResp}
// @Router   /v1/inventory/dispose [post]
func (h *Handle) Dispose(ctx *gin.Context) {
	req := &core.DisposeReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	resp, err := h.svc.Dispose(ctx, req)
	common.Reply(ctx, err, resp)
}

// Update godoc
// @Summary  Patch a container
// @Tags     inventory
// @Param    req body     inventory.UpdateReq true "patch"
// @Success  200 {object} common.Resp{data=inventory.ReagentResp}
// @Router   /v1/inventory/update [put]
func (h *Handle) Update(ctx *gin.Context) {
	req := &core.UpdateReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	resp, err := h.svc.Update(ctx, req)
	common.Reply(ctx, err, resp)
}

// Borrow godoc
// @Summary  Lend part of a container
// @Tags     inventory
// @Param    req body     inventory.BorrowReq true "borrow"
// @Success  200 {object} common.Resp{data=inventory.ReagentResp}
// @Router   /v1/inventory/borrow [post]
func (h *Handle) Borrow(ctx *gin.Context) {
	req := &core.BorrowReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	resp, err := h.svc.Borrow(ctx, req)
	common.Reply(ctx, err, resp)
}

// Return godoc
// @Summary  Put borrowed quantity back
// @Tags     inventory
// @Param    req body     inventory.ReturnReq true "return"
// @Success  200 {object} common.Resp{data=inventory.ReagentResp}
// @Router   /v1/inventory/return [post]
func (h *Handle) Return(ctx *gin.Context) {
	req := &core.ReturnReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	resp, err := h.svc.Return(ctx, req)
	common.Reply(ctx, err, resp)
}

// Query godoc
// @Summary  List containers with derived status
// @Tags     inventory
// @Param    status       query string false "status"
// @Param    cabinet_id   query string false "cabinet"
// @Param    name         query string false "name substring"
// @Param    hazard_class query string false "hazard class"
// @Param    sort_by      query string false "id|name|expiry_date|current_amount|stock_ratio"
// @Param    desc         query bool   false "descending"
// @Param    page         query int    false "page"
// @Param    page_size    query int    false "page size"
// @Success  200 {object} common.Resp{data=common.PageResp[[]inventory.ReagentResp]}
// @Router   /v1/inventory/query [get]
func (h *Handle) Query(ctx *gin.Context) {
	req := &core.QueryReq{}
	if err := ctx.ShouldBindQuery(req); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	resp, err := h.svc.Query(ctx, req)
	common.Reply(ctx, err, resp)
}

// Detail godoc
// @Summary  One container
// @Tags     inventory
// @Param    id  path     string true "reagent id"
// @Success  200 {object} common.Resp{data=inventory.ReagentResp}
// @Router   /v1/inventory/detail/{id} [get]
func (h *Handle) Detail(ctx *gin.Context) {
	req := &core.DetailReq{}
	if err := ctx.ShouldBindUri(req); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	resp, err := h.svc.Detail(ctx, req)
	common.Reply(ctx, err, resp)
}

// Summary godoc
// @Summary  Record count per status
// @Tags     inventory
// @Success  200 {object} common.Resp{data=inventory.SummaryResp}
// @Router   /v1/inventory/summary [get]
func (h *Handle) Summary(ctx *gin.Context) {
	resp, err := h.svc.Summary(ctx)
	common.Reply(ctx, err, resp)
}

// Cabinets godoc
// @Summary  Slot occupancy per cabinet
// @Tags     inventory
// @Success  200 {object} common.Resp{data=[]inventory.CabinetResp}
// @Router   /v1/inventory/cabinets [get]
func (h *Handle) Cabinets(ctx *gin.Context) {
	resp, err := h.svc.Cabinets(ctx)
	common.Reply(ctx, err, resp)
}

// Allocate godoc
// @Summary  Preview the slot the next create would take
// @Tags     inventory
// @Param    cabinet_id query string false "cabinet"
// @Success  200 {object} common.Resp{data=inventory.AllocateResp}
// @Router   /v1/inventory/allocate [get]
func (h *Handle) Allocate(ctx *gin.Context) {
	req := &core.AllocateReq{}
	if err := ctx.ShouldBindQuery(req); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	resp, err := h.svc.Allocate(ctx, req)
	common.Reply(ctx, err, resp)
}

// Autofill godoc
// @Summary  Reference data by name or CAS
// @Tags     inventory
// @Param    name query string false "name"
// @Param    cas  query string false "CAS number"
// @Success  200 {object} common.Resp{data=inventory.AutofillResp}
// @Router   /v1/inventory/autofill [get]
func (h *Handle) Autofill(ctx *gin.Context) {
	req := &core.AutofillReq{}
	if err := ctx.ShouldBindQuery(req); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	resp, err := h.svc.Autofill(ctx, req)
	common.Reply(ctx, err, resp)
}

// Catalog godoc
// @Summary  Reference catalog
// @Tags     inventory
// @Success  200 {object} common.Resp{data=[]catalog.Entry}
// @Router   /v1/inventory/catalog [get]
func (h *Handle) Catalog(ctx *gin.Context) {
	resp, err := h.svc.Catalog(ctx)
	common.Reply(ctx, err, resp)
}

// Export godoc
// @Summary  Write an inventory snapshot to the export target
// @Tags     inventory
// @Param    req body     inventory.ExportReq false "key"
// @Success  200 {object} common.Resp{data=inventory.ExportResp}
// @Router   /v1/inventory/export [post]
func (h *Handle) Export(ctx *gin.Context) {
	req := &core.ExportReq{}
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(req); err != nil {
			common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
			return
		}
	}
	resp, err := h.svc.Export(ctx, req)
	if err != nil {
		logger.Errorf(ctx, "Export err: %+v", err)
	}
	common.Reply(ctx, err, resp)
}

// Sweep godoc
// @Summary  Re-derive statuses for today and publish the ones that moved
// @Tags     inventory
// @Success  200 {object} common.Resp{data=inventory.SweepResp}
// @Router   /v1/inventory/sweep [post]
func (h *Handle) Sweep(ctx *gin.Context) {
	resp, err := h.svc.Sweep(ctx)
	common.Reply(ctx, err, resp)
}
