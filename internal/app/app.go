package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/scienceol/labstock/internal/config"
	"github.com/scienceol/labstock/pkg/common/code"
	"github.com/scienceol/labstock/pkg/core/cabinet"
	"github.com/scienceol/labstock/pkg/core/catalog"
	"github.com/scienceol/labstock/pkg/core/inventory"
	impl "github.com/scienceol/labstock/pkg/core/inventory/inventory"
	"github.com/scienceol/labstock/pkg/core/notify"
	"github.com/scienceol/labstock/pkg/core/notify/events"
	"github.com/scienceol/labstock/pkg/core/notify/local"
	"github.com/scienceol/labstock/pkg/core/seed"
	"github.com/scienceol/labstock/pkg/core/status"
	"github.com/scienceol/labstock/pkg/core/store"
	"github.com/scienceol/labstock/pkg/middleware/db"
	"github.com/scienceol/labstock/pkg/middleware/logger"
	"github.com/scienceol/labstock/pkg/middleware/metrics"
	"github.com/scienceol/labstock/pkg/middleware/redis"
	"github.com/scienceol/labstock/pkg/repo/pubchem"
	reagentRepo "github.com/scienceol/labstock/pkg/repo/reagent"
	"github.com/scienceol/labstock/pkg/repo/snapshot"
	"github.com/scienceol/labstock/pkg/repo/sqlite"
)

// CheckFunc reports whether one backend is reachable.
type CheckFunc func(ctx context.Context) error

// App is everything one process needs to serve the inventory.
type App struct {
	Store     *store.Store
	Service   inventory.Service
	MsgCenter notify.MsgCenter
	Metrics   *metrics.Metrics
	// Checks holds a readiness probe per configured backend.
	Checks map[string]CheckFunc

	closers []func(ctx context.Context)
}

func DBConfig(conf *config.GlobalConfig) *db.Config {
	return &db.Config{
		Host:    conf.Database.Host,
		Port:    conf.Database.Port,
		User:    conf.Database.User,
		PW:      conf.Database.Password,
		DBName:  conf.Database.Name,
		LogConf: db.LogConf{Level: conf.Database.LogLevel},
	}
}

func RedisConfig(conf *config.GlobalConfig) *redis.Redis {
	return &redis.Redis{
		Host:     conf.Redis.Host,
		Port:     conf.Redis.Port,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	}
}

func Thresholds(conf *config.GlobalConfig) status.Thresholds {
	return status.Thresholds{
		ExpiringDays:  conf.Status.ExpiringDays,
		CriticalRatio: conf.Status.CriticalRatio,
		LowRatio:      conf.Status.LowRatio,
	}
}

// New loads topology and catalog, opens the configured backend, hydrates
// the store and seeds it when empty.
func New(ctx context.Context, conf *config.GlobalConfig) (*App, error) {
	a := &App{Checks: map[string]CheckFunc{}}
	if err := a.build(ctx, conf); err != nil {
		a.Close(ctx)
		return nil, err
	}
	return a, nil
}

func (a *App) build(ctx context.Context, conf *config.GlobalConfig) error {
	topology := cabinet.DefaultTopology()
	if path := conf.Inventory.TopologyFile; path != "" {
		t, err := cabinet.LoadTopology(path)
		if err != nil {
			return err
		}
		topology = t
	}
	cat := catalog.Default()
	if path := conf.Inventory.CatalogFile; path != "" {
		c, err := catalog.Load(path)
		if err != nil {
			return err
		}
		cat = c
	}

	opts := []store.Option{store.WithCatalogFallback(conf.Inventory.CatalogFallback)}
	switch conf.Inventory.Backend {
	case config.BackendMemory, "":
	case config.BackendPostgres:
		db.InitPostgres(ctx, DBConfig(conf))
		a.closers = append(a.closers, db.ClosePostgres)
		a.Checks["postgres"] = func(ctx context.Context) error {
			sqlDB, err := db.DB().DBIns().DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
		opts = append(opts, store.WithRepo(reagentRepo.NewReagentRepo(db.DB())))
	case config.BackendSQLite:
		s, err := sqlite.Open(ctx, conf.Inventory.SQLitePath)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func(context.Context) { _ = s.Close() })
		a.Checks["sqlite"] = s.Ping
		opts = append(opts, store.WithRepo(s))
	default:
		return fmt.Errorf("unknown inventory backend %q", conf.Inventory.Backend)
	}

	a.Store = store.New(cat, cabinet.NewAllocator(topology), opts...)
	if err := a.Store.Load(ctx); err != nil {
		return err
	}
	if a.Store.Len() == 0 && conf.Seed.Count > 0 {
		g := seed.NewGenerator(conf.Seed.Count, conf.Seed.Random, conf.Status.ExpiringDays)
		out, err := g.Seed(ctx, a.Store)
		switch {
		case errors.Is(err, code.NoCapacityErr):
			logger.Warnf(ctx, "seed stopped after %d records: %+v", len(out), err)
		case err != nil:
			return err
		default:
			logger.Infof(ctx, "seeded %d records", len(out))
		}
	}

	switch conf.Inventory.NotifyBackend {
	case config.NotifyRedis:
		redis.InitRedis(ctx, RedisConfig(conf))
		a.MsgCenter = events.New(redis.GetClient())
		a.closers = append(a.closers, redis.CloseRedis)
		a.Checks["redis"] = func(ctx context.Context) error {
			return redis.GetClient().Ping(ctx).Err()
		}
	default:
		a.MsgCenter = local.New(ctx, conf.Inventory.NotifyPoolSize)
	}
	a.closers = append(a.closers, func(ctx context.Context) { _ = a.MsgCenter.Close(ctx) })

	svcOpts := []impl.Option{impl.WithMsgCenter(a.MsgCenter)}
	if !conf.RPC.PubChem.Disabled {
		svcOpts = append(svcOpts, impl.WithPubChem(pubchem.NewPubChemRepo(conf.RPC.PubChem.Addr, conf.RPC.PubChem.Timeout)))
	}
	if exportConf, err := snapshot.LoadConfig(ctx); err != nil {
		logger.Warnf(ctx, "load export config err: %+v", err)
	} else if target, err := snapshot.New(ctx, exportConf); err != nil {
		logger.Warnf(ctx, "export disabled: %+v", err)
	} else {
		svcOpts = append(svcOpts, impl.WithSnapshot(target))
	}

	var svc inventory.Service
	a.Metrics = metrics.New(func() map[string]int { return impl.StatusCounts(svc)() })
	svcOpts = append(svcOpts, impl.WithMetrics(a.Metrics))
	svc = impl.New(ctx, a.Store, status.NewClassifier(Thresholds(conf)), svcOpts...)
	a.Service = svc
	a.closers = append(a.closers, func(ctx context.Context) { _ = svc.Close(ctx) })
	return nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i](ctx)
	}
	a.closers = nil
}
