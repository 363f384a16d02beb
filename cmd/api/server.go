package api

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	_ "github.com/scienceol/labstock/docs" // swagger generated docs

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/scienceol/labstock/internal/app"
	"github.com/scienceol/labstock/internal/config"
	impl "github.com/scienceol/labstock/pkg/core/inventory/inventory"
	labgrpc "github.com/scienceol/labstock/pkg/grpc"
	"github.com/scienceol/labstock/pkg/grpc/services"
	"github.com/scienceol/labstock/pkg/middleware/db"
	"github.com/scienceol/labstock/pkg/middleware/logger"
	"github.com/scienceol/labstock/pkg/middleware/trace"
	"github.com/scienceol/labstock/pkg/repo/migrate"
	"github.com/scienceol/labstock/pkg/utils"
	"github.com/scienceol/labstock/pkg/web"
)

var inventory *app.App

func NewWeb() *cobra.Command {
	return &cobra.Command{
		Use:          "apiserver",
		Long:         "Start the API server (HTTP + gRPC)",
		SilenceUsage: true,
		PreRunE:      initWeb,
		RunE:         newRouter,
		PostRunE:     cleanWebResource,
	}
}

func NewMigrate() *cobra.Command {
	return &cobra.Command{
		Use:          "migrate",
		Long:         "Create or update the postgres tables",
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			db.InitPostgres(cmd.Context(), app.DBConfig(config.Global()))
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return migrate.Table(cmd.Root().Context())
		},
		PostRunE: func(cmd *cobra.Command, _ []string) error {
			db.ClosePostgres(cmd.Context())
			return nil
		},
	}
}

// InitTrace starts the otel providers for any command that serves traffic.
func InitTrace(ctx context.Context) {
	conf := config.Global()
	trace.InitTrace(ctx, &trace.InitConfig{
		ServiceName:    fmt.Sprintf("%s-%s", conf.Server.Service, conf.Server.Platform),
		Version:        conf.Trace.Version,
		Env:            conf.Server.Env,
		TraceEndpoint:  conf.Trace.TraceEndpoint,
		MetricEndpoint: conf.Trace.MetricEndpoint,
		Stdout:         conf.Trace.Stdout,
	})
}

func initWeb(cmd *cobra.Command, _ []string) error {
	InitTrace(cmd.Context())
	a, err := app.New(cmd.Context(), config.Global())
	if err != nil {
		logger.Errorf(cmd.Context(), "init inventory err: %+v", err)
		return err
	}
	inventory = a
	return nil
}

func newRouter(cmd *cobra.Command, _ []string) error {
	conf := config.Global()
	if conf.Server.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	closeWS, err := web.NewRouter(cmd.Root().Context(), router, inventory)
	if err != nil {
		return err
	}
	defer closeWS()
	impl.Watch(cmd.Context(), inventory.Service, conf.Inventory.SweepInterval)

	port := conf.Server.Port
	httpServer := http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           router,
		ReadHeaderTimeout: 30 * time.Second,
		IdleTimeout:       30 * time.Second,
		TLSNextProto:      make(map[string]func(*http.Server, *tls.Conn, http.Handler)),
	}

	fmt.Printf("API Server starting on http://0.0.0.0:%d\n", port)

	utils.SafelyGo(func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(cmd.Context(), "start server err: %v", err)
		}
	}, func(err error) {
		logger.Errorf(cmd.Context(), "run http server err: %+v", err)
		os.Exit(1)
	})

	checks := make(map[string]labgrpc.CheckFunc, len(inventory.Checks))
	for name, fn := range inventory.Checks {
		checks[name] = labgrpc.CheckFunc(fn)
	}
	grpcPort := conf.Server.GrpcPort
	grpcServer, err := labgrpc.NewServer(cmd.Root().Context(), grpcPort, checks,
		services.NewInventoryService(inventory.Service))
	if err != nil {
		logger.Errorf(cmd.Context(), "start gRPC server err: %+v", err)
	} else {
		fmt.Printf("gRPC Server starting on port %d\n", grpcPort)
	}

	fmt.Printf("Server started. Press Ctrl+C to shutdown.\n")
	<-cmd.Context().Done()

	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		fmt.Printf("shut down server err: %+v", err)
	}
	return nil
}

func cleanWebResource(cmd *cobra.Command, _ []string) error {
	if inventory != nil {
		inventory.Close(context.WithoutCancel(cmd.Context()))
	}
	trace.CloseTrace()
	return nil
}
