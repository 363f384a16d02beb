package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel(" warn "))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel(""))
}

func TestInitWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labstock.log")
	Init(&LogConfig{Path: path, LogLevel: "info", ServiceEnv: ServiceEnv{Platform: "lab", Service: "test", Env: "ci"}})
	defer Close()

	Debugf(context.Background(), "hidden %d", 1)
	Infof(context.Background(), "visible %d", 2)
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "visible 2")
	assert.NotContains(t, string(data), "hidden 1")
	assert.Contains(t, string(data), `"service":"test"`)
}

func TestLinesCarryTraceIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labstock.log")
	Init(&LogConfig{Path: path, LogLevel: "info", ServiceEnv: ServiceEnv{Service: "test"}})
	defer Close()

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x4b, 0xf9, 0x2f, 0x35, 0x77, 0xb3, 0x4d, 0xa6, 0xa3, 0xce, 0x92, 0x9d, 0x0e, 0x0e, 0x47, 0x36},
		SpanID:     trace.SpanID{0x00, 0xf0, 0x67, 0xaa, 0x0b, 0xa9, 0x02, 0xb7},
		TraceFlags: trace.FlagsSampled,
	})
	Infof(trace.ContextWithSpanContext(context.Background(), sc), "traced %d", 1)
	Infof(context.Background(), "untraced %d", 2)
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"trace_id":"4bf92f3577b34da6a3ce929d0e0e4736"`)
	assert.Contains(t, string(data), `"span_id":"00f067aa0ba902b7"`)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.NotContains(t, lines[1], "trace_id")
}

func TestLogWithWriter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	g.Use(LogWithWriter())
	g.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok?x=1", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
