package common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/scienceol/labstock/pkg/common/code"
)

type Resp struct {
	Code  code.ErrCode `json:"code"`
	Msg   string       `json:"msg"`
	Field string       `json:"field,omitempty"`
	Data  any          `json:"data,omitempty"`
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 200
)

type PageReq struct {
	Page     int `form:"page" json:"page"`
	PageSize int `form:"page_size" json:"page_size"`
}

// Normalize clamps the request to page >= 1 and 1..MaxPageSize.
func (p *PageReq) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
}

type PageResp[T any] struct {
	Data     T     `json:"data"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

// HTTPStatus maps an error code to the response status.
func HTTPStatus(c code.ErrCode) int {
	switch c {
	case code.Success:
		return http.StatusOK
	case code.ParamErr, code.ValidationErr, code.InvalidQuantityErr,
		code.InvariantViolationErr, code.UnknownCabinetErr,
		code.UnmarshalWSDataErr, code.UnknownWSActionErr:
		return http.StatusBadRequest
	case code.RecordNotFound, code.ReagentCASNotFindErr:
		return http.StatusNotFound
	case code.CabinetFullErr, code.NoCapacityErr:
		return http.StatusConflict
	case code.RPCHttpErr, code.RPCHttpCodeErr, code.ReagentCASQueryErr:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func Reply(ctx *gin.Context, err error, data ...any) {
	if err != nil {
		ReplyErr(ctx, err)
		return
	}
	ReplyOk(ctx, data...)
}

func ReplyErr(ctx *gin.Context, err error) {
	c := code.From(err)
	resp := &Resp{Code: c, Msg: err.Error(), Field: code.FieldOf(err)}
	var e *code.Error
	if !errors.As(err, &e) && c == code.UnDefineErr {
		resp.Msg = c.String()
	}
	_ = ctx.Error(err)
	ctx.JSON(HTTPStatus(c), resp)
}

func ReplyOk(ctx *gin.Context, data ...any) {
	resp := &Resp{Code: code.Success, Msg: code.Success.String()}
	if len(data) > 0 {
		resp.Data = data[0]
	}
	ctx.JSON(http.StatusOK, resp)
}
