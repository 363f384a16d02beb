package grpc

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/scienceol/labstock/pkg/middleware/logger"
	"github.com/scienceol/labstock/pkg/utils"
)

func UnaryLogInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		start := time.Now()
		if perr := utils.SafelyRun(func() { resp, err = handler(ctx, req) }); perr != nil {
			logger.Errorf(ctx, "gRPC %s panic: %+v", info.FullMethod, perr)
			return nil, status.Error(codes.Internal, fmt.Sprintf("internal error in %s", info.FullMethod))
		}
		report(ctx, info.FullMethod, time.Since(start), err)
		return resp, err
	}
}

func StreamLogInterceptor() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) (err error) {
		start := time.Now()
		ctx := ss.Context()
		if perr := utils.SafelyRun(func() { err = handler(srv, ss) }); perr != nil {
			logger.Errorf(ctx, "gRPC stream %s panic: %+v", info.FullMethod, perr)
			return status.Error(codes.Internal, fmt.Sprintf("internal error in %s", info.FullMethod))
		}
		report(ctx, info.FullMethod, time.Since(start), err)
		return err
	}
}

func report(ctx context.Context, method string, cost time.Duration, err error) {
	if err == nil {
		logger.Debugf(ctx, "gRPC %s ok cost: %s", method, cost)
		return
	}
	switch status.Code(err) {
	case codes.Internal, codes.Unknown, codes.DataLoss, codes.Unavailable:
		logger.Errorf(ctx, "gRPC %s cost: %s err: %+v", method, cost, err)
	default:
		logger.Warnf(ctx, "gRPC %s cost: %s err: %+v", method, cost, err)
	}
}
