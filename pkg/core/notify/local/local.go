package local

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/alphadose/haxmap"
	"github.com/panjf2000/ants/v2"
	"github.com/scienceol/labstock/pkg/common/code"
	"github.com/scienceol/labstock/pkg/common/uuid"
	"github.com/scienceol/labstock/pkg/core/notify"
	"github.com/scienceol/labstock/pkg/middleware/logger"
)

// Hub is the single-process MsgCenter. Handlers run on an ants pool, so
// delivery order across messages is not guaranteed; SendMsg.Seq orders them.
type Hub struct {
	handlers *haxmap.Map[notify.Action, notify.HandleFunc]
	pool     *ants.Pool
	closed   atomic.Bool
}

func New(ctx context.Context, poolSize int) *Hub {
	if poolSize <= 0 {
		poolSize = ants.DefaultAntsPoolSize
	}
	pool, err := ants.NewPool(poolSize, ants.WithPanicHandler(func(p any) {
		logger.Errorf(ctx, "notify handler panic: %+v", p)
	}))
	if err != nil {
		logger.Errorf(ctx, "failed to create ants pool, using default: %+v", err)
		pool, _ = ants.NewPool(ants.DefaultAntsPoolSize)
	}
	return &Hub{
		handlers: haxmap.New[notify.Action, notify.HandleFunc](),
		pool:     pool,
	}
}

func (h *Hub) Registry(_ context.Context, msgName notify.Action, handleFunc notify.HandleFunc) error {
	if _, loaded := h.handlers.GetOrSet(msgName, handleFunc); loaded {
		return code.NotifyActionAlreadyRegistryErr.WithMsg(string(msgName))
	}
	return nil
}

func (h *Hub) Broadcast(ctx context.Context, msg *notify.SendMsg) error {
	if h.closed.Load() {
		return code.NotifySendMsgErr.WithMsg("hub closed")
	}
	msg.Timestamp = time.Now().Unix()
	if msg.UUID.IsNil() {
		msg.UUID = uuid.NewV4()
	}
	fn, ok := h.handlers.Get(msg.Channel)
	if !ok {
		return nil
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return code.NotifySendMsgErr.WithErr(err)
	}

	// handlers outlive the request that triggered them
	hctx := context.WithoutCancel(ctx)
	if err := h.pool.Submit(func() {
		if err := fn(hctx, string(data)); err != nil {
			logger.Errorf(hctx, "handle msg fail name: %s, err: %+v", msg.Channel, err)
		}
	}); err != nil {
		return code.NotifySendMsgErr.WithErr(err)
	}
	return nil
}

// Close stops accepting messages and waits for running handlers.
func (h *Hub) Close(_ context.Context) error {
	if h.closed.Swap(true) {
		return nil
	}
	return h.pool.ReleaseTimeout(5 * time.Second)
}
