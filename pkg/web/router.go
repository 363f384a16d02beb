package web

import (
	"context"
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/scienceol/labstock/internal/app"
	"github.com/scienceol/labstock/internal/config"
	"github.com/scienceol/labstock/pkg/core/notify"
	"github.com/scienceol/labstock/pkg/middleware/logger"
	"github.com/scienceol/labstock/pkg/web/views/health"
	"github.com/scienceol/labstock/pkg/web/views/inventory"
	"github.com/scienceol/labstock/pkg/web/views/sse"
	"github.com/scienceol/labstock/pkg/web/views/ws"
)

// NewRouter installs middleware and routes; the returned func closes the
// websocket and sse feeds.
func NewRouter(ctx context.Context, g *gin.Engine, a *app.App) (context.CancelFunc, error) {
	installMiddleware(g)
	return installURL(ctx, g, a)
}

func installMiddleware(g *gin.Engine) {
	g.ContextWithFallback = true
	server := config.Global().Server
	g.Use(cors.Default())
	g.Use(otelgin.Middleware(fmt.Sprintf("%s-%s", server.Platform, server.Service)))
	g.Use(logger.LogWithWriter())
}

func installURL(ctx context.Context, g *gin.Engine, a *app.App) (context.CancelFunc, error) {
	wsHandle := ws.NewHandle(a.Service)
	sseHandle := sse.NewHandle()
	// every inventory-modify message goes out verbatim on both feeds
	if err := a.MsgCenter.Registry(ctx, notify.InventoryModify, func(ctx context.Context, msg string) error {
		sseHandle.Publish(msg)
		return wsHandle.Broadcast(ctx, msg)
	}); err != nil {
		return nil, err
	}
	checks := make(map[string]health.CheckFunc, len(a.Checks))
	for name, fn := range a.Checks {
		checks[name] = health.CheckFunc(fn)
	}

	g.GET("/metrics", gin.WrapH(a.Metrics.Handler()))

	api := g.Group("/api")
	api.GET("/health", health.Health)
	api.GET("/health/live", health.Live)
	api.GET("/health/ready", health.Ready(checks))
	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	{
		v1 := api.Group("/v1")
		h := inventory.NewHandle(a.Service)

		invRouter := v1.Group("/inventory")
		invRouter.POST("/create", h.Create)
		invRouter.POST("/outbound", h.Outbound)
		invRouter.POST("/restock", h.Restock)
		invRouter.POST("/dispose", h.Dispose)
		invRouter.PUT("/update", h.Update)
		invRouter.POST("/borrow", h.Borrow)
		invRouter.POST("/return", h.Return)
		invRouter.POST("/export", h.Export)
		invRouter.POST("/sweep", h.Sweep)
		invRouter.GET("/query", h.Query)
		invRouter.GET("/detail/:id", h.Detail)
		invRouter.GET("/summary", h.Summary)
		invRouter.GET("/cabinets", h.Cabinets)
		invRouter.GET("/allocate", h.Allocate)
		invRouter.GET("/autofill", h.Autofill)
		invRouter.GET("/catalog", h.Catalog)

		wsRouter := v1.Group("/ws")
		wsRouter.GET("/inventory", wsHandle.Connect)

		sseRouter := v1.Group("/sse")
		sseRouter.GET("/inventory", sseHandle.Notify)
	}

	return func() {
		sseHandle.Close()
		wsHandle.Close(ctx)
	}, nil
}
