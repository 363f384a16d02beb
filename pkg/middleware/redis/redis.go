package redis

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/extra/rediscmd/v9"
	r "github.com/redis/go-redis/v9"
	"github.com/scienceol/labstock/pkg/middleware/logger"
)

type Redis struct {
	Host     string
	Port     int
	Password string
	DB       int
}

var redisClient *r.Client

func InitRedis(ctx context.Context, conf *Redis) {
	var err error
	redisClient, err = initRedis(ctx, conf)
	if err != nil {
		logger.Fatalf(ctx, "init redis fail err: %+v", err)
	}
}

func initRedis(ctx context.Context, conf *Redis) (*r.Client, error) {
	client := r.NewClient(&r.Options{
		Addr:         fmt.Sprintf("%s:%d", conf.Host, conf.Port),
		Password:     conf.Password,
		DB:           conf.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	client.AddHook(slowHook{threshold: 200 * time.Millisecond})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func CloseRedis(ctx context.Context) {
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Errorf(ctx, "close redis err: %+v", err)
		}
		redisClient = nil
	}
}

// GetClient returns the shared client, nil before InitRedis.
func GetClient() *r.Client {
	return redisClient
}

// slowHook logs commands that fail or exceed threshold.
type slowHook struct {
	threshold time.Duration
}

func (h slowHook) DialHook(next r.DialHook) r.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := next(ctx, network, addr)
		if err != nil {
			logger.Warnf(ctx, "redis dial %s err: %+v", addr, err)
		}
		return conn, err
	}
}

func (h slowHook) ProcessHook(next r.ProcessHook) r.ProcessHook {
	return func(ctx context.Context, cmd r.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		h.report(ctx, rediscmd.CmdString(cmd), time.Since(start), err)
		return err
	}
}

func (h slowHook) ProcessPipelineHook(next r.ProcessPipelineHook) r.ProcessPipelineHook {
	return func(ctx context.Context, cmds []r.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		summary, _ := rediscmd.CmdsString(cmds)
		h.report(ctx, summary, time.Since(start), err)
		return err
	}
}

func (h slowHook) report(ctx context.Context, stmt string, cost time.Duration, err error) {
	switch {
	case err != nil && err != r.Nil:
		logger.Errorf(ctx, "redis cmd %s err: %+v", stmt, err)
	case cost > h.threshold:
		logger.Warnf(ctx, "redis slow cmd %s cost %s", stmt, cost)
	}
}
