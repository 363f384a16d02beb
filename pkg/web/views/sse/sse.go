package sse

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alphadose/haxmap"
	"github.com/gin-gonic/gin"

	"github.com/scienceol/labstock/pkg/core/notify"
	"github.com/scienceol/labstock/pkg/middleware/logger"
)

const (
	bufferSize = 64
	keepAlive  = 20 * time.Second

	// EventReady is sent once the subscription is live.
	EventReady = "ready"
	EventPing  = "ping"
)

// Handle streams inventory changes as server-sent events for clients that
// cannot hold a websocket.
type Handle struct {
	subs   *haxmap.Map[uint64, chan string]
	nextID atomic.Uint64
	done   chan struct{}
	once   sync.Once
}

func NewHandle() *Handle {
	return &Handle{
		subs: haxmap.New[uint64, chan string](),
		done: make(chan struct{}),
	}
}

// Notify godoc
// @Summary  Inventory change feed as server-sent events
// @Tags     sse
// @Produce  text/event-stream
// @Router   /v1/sse/inventory [get]
func (h *Handle) Notify(ctx *gin.Context) {
	ctx.Writer.Header().Set("Content-Type", "text/event-stream")
	ctx.Writer.Header().Set("Cache-Control", "no-cache")
	ctx.Writer.Header().Set("Connection", "keep-alive")
	ctx.Writer.Header().Set("X-Accel-Buffering", "no")

	id, ch := h.subscribe()
	defer h.subs.Del(id)
	logger.Infof(ctx, "inventory sse connect, subscribers: %d", h.subs.Len())

	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	ctx.SSEvent(EventReady, "")
	ctx.Writer.Flush()
	ctx.Stream(func(io.Writer) bool {
		select {
		case <-ctx.Request.Context().Done():
			return false
		case <-h.done:
			return false
		case msg := <-ch:
			ctx.SSEvent(string(notify.InventoryModify), msg)
			return true
		case <-ticker.C:
			ctx.SSEvent(EventPing, "")
			return true
		}
	})
	logger.Infof(ctx, "inventory sse disconnected")
}

func (h *Handle) subscribe() (uint64, chan string) {
	id := h.nextID.Add(1)
	ch := make(chan string, bufferSize)
	h.subs.Set(id, ch)
	return id, ch
}

// Publish hands msg to every subscriber. A subscriber whose buffer is full
// misses the message; Seq lets it notice the gap.
func (h *Handle) Publish(msg string) {
	h.subs.ForEach(func(_ uint64, ch chan string) bool {
		select {
		case ch <- msg:
		default:
		}
		return true
	})
}

func (h *Handle) Subscribers() int {
	return int(h.subs.Len())
}

// Close ends every open stream.
func (h *Handle) Close() {
	h.once.Do(func() { close(h.done) })
}
