package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/olahol/melody"

	"github.com/scienceol/labstock/pkg/common/code"
	core "github.com/scienceol/labstock/pkg/core/inventory"
	"github.com/scienceol/labstock/pkg/middleware/logger"
)

const maxMessageSize = 4 << 10

type Action string

const (
	// FetchAll asks for the full record list; the reply action is Snapshot.
	FetchAll Action = "fetch_all"
	Ping     Action = "ping"

	Snapshot Action = "snapshot"
	Pong     Action = "pong"
	Error    Action = "error"
)

// Msg is the client frame; replies echo ID and fill Data.
type Msg struct {
	Action Action `json:"action"`
	ID     string `json:"id,omitempty"`
	Data   any    `json:"data,omitempty"`
}

type Handle struct {
	svc      core.Service
	wsClient *melody.Melody
}

func NewHandle(svc core.Service) *Handle {
	wsClient := melody.New()
	wsClient.Config.MaxMessageSize = maxMessageSize
	wsClient.Upgrader = &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(*http.Request) bool { return true },
	}

	h := &Handle{svc: svc, wsClient: wsClient}
	h.initWebSocket()
	return h
}

// Connect godoc
// @Summary  Inventory change feed
// @Tags     ws
// @Router   /v1/ws/inventory [get]
func (h *Handle) Connect(ctx *gin.Context) {
	if err := h.wsClient.HandleRequestWithKeys(ctx.Writer, ctx.Request, map[string]any{
		"ctx": context.WithoutCancel(ctx.Request.Context()),
	}); err != nil {
		logger.Errorf(ctx, "inventory HandleRequestWithKeys err: %+v", err)
	}
}

func (h *Handle) Sessions() int {
	return h.wsClient.Len()
}

func (h *Handle) Close(ctx context.Context) {
	if err := h.wsClient.Close(); err != nil && !errors.Is(err, melody.ErrClosed) {
		logger.Errorf(ctx, "close inventory ws err: %+v", err)
	}
}

// Broadcast forwards an encoded notify message verbatim to every session.
func (h *Handle) Broadcast(_ context.Context, msg string) error {
	if err := h.wsClient.Broadcast([]byte(msg)); err != nil && !errors.Is(err, melody.ErrClosed) {
		return err
	}
	return nil
}

func sessionCtx(s *melody.Session) context.Context {
	if v, ok := s.Get("ctx"); ok {
		if ctx, ok := v.(context.Context); ok {
			return ctx
		}
	}
	return context.Background()
}

func (h *Handle) initWebSocket() {
	h.wsClient.HandleConnect(func(s *melody.Session) {
		logger.Infof(sessionCtx(s), "inventory ws connect, sessions: %d", h.wsClient.Len())
	})

	h.wsClient.HandleDisconnect(func(s *melody.Session) {
		logger.Infof(sessionCtx(s), "inventory ws disconnected")
	})

	h.wsClient.HandleError(func(s *melody.Session, err error) {
		if errors.Is(err, melody.ErrMessageBufferFull) {
			return
		}
		var closeErr *websocket.CloseError
		if errors.As(err, &closeErr) && closeErr.Code == websocket.CloseGoingAway {
			return
		}
		logger.Errorf(sessionCtx(s), "inventory ws err: %+v", err)
	})

	h.wsClient.HandleMessage(func(s *melody.Session, b []byte) {
		ctx := sessionCtx(s)
		reply, err := h.onMsg(ctx, b)
		if err != nil {
			logger.Warnf(ctx, "inventory ws msg err: %+v", err)
			reply = &Msg{Action: Error, Data: err.Error()}
		}
		data, err := json.Marshal(reply)
		if err != nil {
			logger.Errorf(ctx, "marshal ws reply err: %+v", err)
			return
		}
		if err := s.Write(data); err != nil {
			logger.Warnf(ctx, "write ws reply err: %+v", err)
		}
	})
}

func (h *Handle) onMsg(ctx context.Context, b []byte) (*Msg, error) {
	msg := &Msg{}
	if err := json.Unmarshal(b, msg); err != nil {
		return nil, code.UnmarshalWSDataErr.WithErr(err)
	}

	switch msg.Action {
	case FetchAll:
		list, err := h.svc.List(ctx)
		if err != nil {
			return nil, err
		}
		return &Msg{Action: Snapshot, ID: msg.ID, Data: list}, nil
	case Ping:
		return &Msg{Action: Pong, ID: msg.ID}, nil
	}
	return nil, code.UnknownWSActionErr.WithMsgf("action %q", msg.Action)
}
