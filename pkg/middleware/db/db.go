package db

import (
	"context"
	"fmt"
	"time"

	"github.com/scienceol/labstock/pkg/middleware/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

type LogConf struct {
	Level string
}

type Config struct {
	Host    string
	Port    int
	User    string
	PW      string
	DBName  string
	LogConf LogConf
}

type Datastore struct {
	db *gorm.DB
}

var store *Datastore

func gormLevel(l string) gormlogger.LogLevel {
	switch l {
	case "debug":
		return gormlogger.Info
	case "warn":
		return gormlogger.Warn
	case "error":
		return gormlogger.Error
	}
	return gormlogger.Silent
}

func InitPostgres(ctx context.Context, conf *Config) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		conf.Host, conf.Port, conf.User, conf.PW, conf.DBName)
	d, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormLevel(conf.LogConf.Level)),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		logger.Fatalf(ctx, "connect postgres err: %+v", err)
	}
	if err := d.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		logger.Errorf(ctx, "gorm tracing plugin err: %+v", err)
	}

	sqlDB, err := d.DB()
	if err != nil {
		logger.Fatalf(ctx, "postgres pool err: %+v", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	store = &Datastore{db: d}
	logger.Infof(ctx, "postgres connected %s:%d/%s", conf.Host, conf.Port, conf.DBName)
}

func ClosePostgres(ctx context.Context) {
	if store == nil {
		return
	}
	if sqlDB, err := store.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Errorf(ctx, "close postgres err: %+v", err)
		}
	}
	store = nil
}

// DB returns the shared datastore, nil before InitPostgres.
func DB() *Datastore {
	return store
}

// New wraps an existing connection; tests use it with other dialects.
func New(d *gorm.DB) *Datastore {
	return &Datastore{db: d}
}

func (d *Datastore) DBIns() *gorm.DB {
	return d.db
}

func (d *Datastore) DBWithContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return d.db.WithContext(ctx)
}

type txKey struct{}

// ExecTx runs fn in one transaction; DBWithContext(ctx) inside fn returns the tx.
func (d *Datastore) ExecTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}
