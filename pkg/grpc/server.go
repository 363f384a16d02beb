package grpc

import (
	"context"
	"fmt"
	"net"
	"time"

	ggrpc "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/scienceol/labstock/pkg/middleware/logger"
	"github.com/scienceol/labstock/pkg/utils"
)

// ServiceName is reported next to the overall "" status.
const ServiceName = "labstock.inventory"

const probeInterval = 15 * time.Second

type CheckFunc func(ctx context.Context) error

// Registrar is a service that installs itself on a gRPC server.
type Registrar interface {
	Register(s ggrpc.ServiceRegistrar)
}

type Server struct {
	*ggrpc.Server
	health *health.Server
	checks map[string]CheckFunc
	cancel context.CancelFunc
}

// NewServer listens on port and serves svcs next to the health and
// reflection services. Health flips to NOT_SERVING while any backend check
// fails.
func NewServer(ctx context.Context, port int, checks map[string]CheckFunc, svcs ...Registrar) (*Server, error) {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}
	s := newServer(checks, svcs...)
	s.Start(ctx, lis)
	return s, nil
}

func newServer(checks map[string]CheckFunc, svcs ...Registrar) *Server {
	s := &Server{
		Server: ggrpc.NewServer(
			ggrpc.UnaryInterceptor(UnaryLogInterceptor()),
			ggrpc.StreamInterceptor(StreamLogInterceptor()),
		),
		health: health.NewServer(),
		checks: checks,
	}
	healthpb.RegisterHealthServer(s.Server, s.health)
	for _, svc := range svcs {
		svc.Register(s.Server)
	}
	reflection.Register(s.Server)
	return s
}

// Start probes once, then serves lis and re-probes in the background.
func (s *Server) Start(ctx context.Context, lis net.Listener) {
	s.probe(ctx)

	ctx, s.cancel = context.WithCancel(ctx)
	utils.SafelyGo(func() {
		ticker := time.NewTicker(probeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.probe(ctx)
			}
		}
	}, func(err error) {
		logger.Errorf(ctx, "gRPC health probe err: %+v", err)
	})

	utils.SafelyGo(func() {
		logger.Infof(ctx, "gRPC server starting on %s", lis.Addr())
		if err := s.Serve(lis); err != nil {
			logger.Errorf(ctx, "gRPC server error: %v", err)
		}
	}, func(err error) {
		logger.Errorf(ctx, "run gRPC server err: %+v", err)
	})
}

func (s *Server) probe(ctx context.Context) {
	st := healthpb.HealthCheckResponse_SERVING
	for name, check := range s.checks {
		cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := check(cctx)
		cancel()
		if err != nil {
			logger.Warnf(ctx, "gRPC health: %s unhealthy: %+v", name, err)
			st = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}

func (s *Server) GracefulStop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.health.Shutdown()
	s.Server.GracefulStop()
}
