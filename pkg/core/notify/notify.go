package notify

import (
	"context"

	"github.com/scienceol/labstock/pkg/common/uuid"
)

type Action string

const (
	InventoryModify Action = "inventory-modify"
)

type SendMsg struct {
	Channel Action    `json:"action"`
	Op      string    `json:"op"`
	Seq     uint64    `json:"seq"`
	Data    any       `json:"data"`
	UUID    uuid.UUID `json:"uuid"`
	// Timestamp is unix seconds, filled on broadcast.
	Timestamp int64 `json:"timestamp"`
}

type HandleFunc func(ctx context.Context, msg string) error

type MsgCenter interface {
	Registry(ctx context.Context, msgName Action, handleFunc HandleFunc) error
	Broadcast(ctx context.Context, msg *SendMsg) error
	Close(ctx context.Context) error
}
