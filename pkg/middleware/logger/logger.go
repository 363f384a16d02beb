package logger

import (
	"context"
	"os"
	"strings"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type ServiceEnv struct {
	Platform string
	Service  string
	Env      string
}

type LogConfig struct {
	Path       string
	LogLevel   string
	ServiceEnv ServiceEnv
}

var (
	logger = otelzap.New(zap.NewNop()).Sugar()
	rotate *lumberjack.Logger
)

func parseLevel(l string) zapcore.Level {
	level, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(l)))
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// Init replaces the package logger. Lines go to stdout and, when a path is
// set, to a rotated JSON file.
func Init(conf *LogConfig) {
	level := zap.NewAtomicLevelAt(parseLevel(conf.LogLevel))

	encConf := zap.NewProductionEncoderConfig()
	encConf.EncodeTime = zapcore.ISO8601TimeEncoder
	encConf.TimeKey = "time"

	consoleConf := encConf
	consoleConf.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleConf), zapcore.Lock(os.Stdout), level),
	}
	if conf.Path != "" {
		rotate = &lumberjack.Logger{
			Filename:   conf.Path,
			MaxSize:    100,
			MaxBackups: 7,
			MaxAge:     30,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encConf), zapcore.AddSync(rotate), level))
	}

	z := zap.New(zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddCallerSkip(2),
		zap.AddStacktrace(zapcore.ErrorLevel),
	).With(
		zap.String("platform", conf.ServiceEnv.Platform),
		zap.String("service", conf.ServiceEnv.Service),
		zap.String("env", conf.ServiceEnv.Env),
	)

	logger = otelzap.New(z,
		otelzap.WithMinLevel(level.Level()),
		otelzap.WithErrorStatusLevel(zapcore.ErrorLevel),
	).Sugar()
}

// withTrace adds the trace and span ids of ctx's span to the line.
func withTrace(ctx context.Context) otelzap.SugaredLoggerWithCtx {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return logger.Ctx(ctx)
	}
	return logger.With("trace_id", sc.TraceID().String(), "span_id", sc.SpanID().String()).Ctx(ctx)
}

func Close() {
	_ = logger.Sync()
	if rotate != nil {
		_ = rotate.Close()
	}
}

func Debugf(ctx context.Context, format string, args ...any) {
	withTrace(ctx).Debugf(format, args...)
}

func Infof(ctx context.Context, format string, args ...any) {
	withTrace(ctx).Infof(format, args...)
}

func Warnf(ctx context.Context, format string, args ...any) {
	withTrace(ctx).Warnf(format, args...)
}

func Errorf(ctx context.Context, format string, args ...any) {
	withTrace(ctx).Errorf(format, args...)
}

func Fatalf(ctx context.Context, format string, args ...any) {
	withTrace(ctx).Fatalf(format, args...)
}
