package services

import (
	"context"
	"encoding/json"
	"errors"

	ggrpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/scienceol/labstock/pkg/common/code"
	core "github.com/scienceol/labstock/pkg/core/inventory"
	"github.com/scienceol/labstock/pkg/middleware/logger"
)

// InventoryServiceName is the gRPC service path. Requests and replies are
// google.protobuf.Struct documents carrying the same JSON as the HTTP API;
// replies wrap the payload in {"data": ...}.
const InventoryServiceName = "labstock.v1.InventoryService"

type InventoryServer interface {
	Service() core.Service
}

type InventoryService struct {
	svc core.Service
}

func NewInventoryService(svc core.Service) *InventoryService {
	return &InventoryService{svc: svc}
}

func (s *InventoryService) Service() core.Service { return s.svc }

// Register adds the service to srv.
func (s *InventoryService) Register(srv ggrpc.ServiceRegistrar) {
	srv.RegisterService(&inventoryServiceDesc, s)
}

type empty struct{}

func noReq[Resp any](fn func(context.Context) (Resp, error)) func(context.Context, *empty) (Resp, error) {
	return func(ctx context.Context, _ *empty) (Resp, error) { return fn(ctx) }
}

var inventoryServiceDesc = ggrpc.ServiceDesc{
	ServiceName: InventoryServiceName,
	HandlerType: (*InventoryServer)(nil),
	Methods: []ggrpc.MethodDesc{
		method("Create", func(s core.Service) unary { return bind(s.Create) }),
		method("Outbound", func(s core.Service) unary { return bind(s.Outbound) }),
		method("Restock", func(s core.Service) unary { return bind(s.Restock) }),
		method("Dispose", func(s core.Service) unary { return bind(s.Dispose) }),
		method("Update", func(s core.Service) unary { return bind(s.Update) }),
		method("Borrow", func(s core.Service) unary { return bind(s.Borrow) }),
		method("Return", func(s core.Service) unary { return bind(s.Return) }),
		method("Query", func(s core.Service) unary { return bind(s.Query) }),
		method("List", func(s core.Service) unary { return bind(noReq(s.List)) }),
		method("Detail", func(s core.Service) unary { return bind(s.Detail) }),
		method("Summary", func(s core.Service) unary { return bind(noReq(s.Summary)) }),
		method("Cabinets", func(s core.Service) unary { return bind(noReq(s.Cabinets)) }),
		method("Allocate", func(s core.Service) unary { return bind(s.Allocate) }),
		method("Autofill", func(s core.Service) unary { return bind(s.Autofill) }),
		method("Catalog", func(s core.Service) unary { return bind(noReq(s.Catalog)) }),
		method("Export", func(s core.Service) unary { return bind(s.Export) }),
		method("Sweep", func(s core.Service) unary { return bind(noReq(s.Sweep)) }),
	},
	Streams:  []ggrpc.StreamDesc{},
	Metadata: "labstock/v1/inventory.proto",
}

type unary func(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)

func method(name string, pick func(core.Service) unary) ggrpc.MethodDesc {
	fullMethod := "/" + InventoryServiceName + "/" + name
	return ggrpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor ggrpc.UnaryServerInterceptor) (any, error) {
			in := &structpb.Struct{}
			if err := dec(in); err != nil {
				return nil, err
			}
			fn := pick(srv.(InventoryServer).Service())
			if interceptor == nil {
				return fn(ctx, in)
			}
			info := &ggrpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return fn(ctx, req.(*structpb.Struct))
			})
		},
	}
}

// bind adapts a service call to Struct in / Struct out.
func bind[Req, Resp any](fn func(context.Context, *Req) (Resp, error)) unary {
	return func(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
		req := new(Req)
		if err := decode(in, req); err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid data: %v", err)
		}
		resp, err := fn(ctx, req)
		if err != nil {
			return nil, toStatus(ctx, err)
		}
		out, err := encode(resp)
		if err != nil {
			logger.Errorf(ctx, "InventoryService encode reply err: %+v", err)
			return nil, status.Errorf(codes.Internal, "encode reply: %v", err)
		}
		return out, nil
	}
}

func decode(in *structpb.Struct, req any) error {
	if len(in.GetFields()) == 0 {
		return nil
	}
	b, err := protojson.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, req)
}

func encode(resp any) (*structpb.Struct, error) {
	b, err := json.Marshal(map[string]any{"data": resp})
	if err != nil {
		return nil, err
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, err
	}
	return out, nil
}

// toStatus maps an inventory error to a gRPC status; the code name goes in
// the message so clients can branch on it.
func toStatus(ctx context.Context, err error) error {
	c := code.From(err)
	var grpcCode codes.Code
	switch c {
	case code.ParamErr, code.ValidationErr, code.InvalidQuantityErr, code.UnknownCabinetErr:
		grpcCode = codes.InvalidArgument
	case code.RecordNotFound, code.ReagentCASNotFindErr:
		grpcCode = codes.NotFound
	case code.CabinetFullErr, code.NoCapacityErr:
		grpcCode = codes.ResourceExhausted
	case code.InvariantViolationErr, code.ExportErr:
		grpcCode = codes.FailedPrecondition
	case code.RPCHttpErr, code.RPCHttpCodeErr, code.ReagentCASQueryErr:
		grpcCode = codes.Unavailable
	default:
		grpcCode = codes.Internal
		var e *code.Error
		if !errors.As(err, &e) {
			logger.Errorf(ctx, "InventoryService err: %+v", err)
		}
	}
	return status.Error(grpcCode, err.Error())
}
