package snapshot

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scienceol/labstock/pkg/common/code"
)

func TestLoadConfig(t *testing.T) {
	conf, err := loadConfig(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)
	assert.Equal(t, TargetFile, conf.Target)
	assert.Equal(t, "./exports", conf.Dir)
	assert.Equal(t, "us-east-1", conf.Region)

	conf, err = loadConfig(context.Background(), envconfig.MapLookuper(map[string]string{
		"EXPORT_TARGET":        "s3",
		"EXPORT_S3_BUCKET":     "lab",
		"EXPORT_S3_PATH_STYLE": "true",
	}))
	require.NoError(t, err)
	assert.Equal(t, TargetS3, conf.Target)
	assert.Equal(t, "lab", conf.Bucket)
	assert.True(t, conf.PathStyle)
}

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	r, err := New(context.Background(), &Config{Target: TargetFile, Dir: dir})
	require.NoError(t, err)

	where, err := r.PutSnapshot(context.Background(), "inventory-1.json", []byte(`{"a":1}`))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "inventory-1.json"), where)
	data, err := os.ReadFile(where)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))

	where, err = r.PutSnapshot(context.Background(), "../../escape.json", []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "escape.json"), where)

	_, err = r.PutSnapshot(context.Background(), "", []byte(`{}`))
	assert.True(t, errors.Is(err, code.ParamErr))
}

func TestUnknownTarget(t *testing.T) {
	_, err := New(context.Background(), &Config{Target: "ftp"})
	assert.Error(t, err)
	_, err = New(context.Background(), &Config{Target: TargetS3})
	assert.Error(t, err)
}

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if req.Method != http.MethodPut {
		return &http.Response{StatusCode: http.StatusNotImplemented, Body: io.NopCloser(strings.NewReader("")), Header: http.Header{}, Request: req}, nil
	}
	body, _ := io.ReadAll(req.Body)
	key := strings.TrimPrefix(req.URL.Path, "/")
	f.objects[key] = body
	f.types[key] = req.Header.Get("Content-Type")
	h := http.Header{}
	h.Set("ETag", `"etag"`)
	return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader("")), Header: h, Request: req}, nil
}

func TestS3Store(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
	r, err := NewS3Store(context.Background(), &Config{
		Target:    TargetS3,
		Bucket:    "lab",
		Prefix:    "snapshots",
		Region:    "us-east-1",
		Endpoint:  "https://s3.mock.local",
		AccessKey: "AKIA",
		SecretKey: "SECRET",
		PathStyle: true,
	}, func(o *s3.Options) { o.HTTPClient = &http.Client{Transport: fake} })
	require.NoError(t, err)

	where, err := r.PutSnapshot(context.Background(), "inv.json", []byte(`[1,2]`))
	require.NoError(t, err)
	assert.Equal(t, "s3://lab/snapshots/inv.json", where)
	assert.Equal(t, []byte(`[1,2]`), fake.objects["lab/snapshots/inv.json"])
	assert.Equal(t, "application/json", fake.types["lab/snapshots/inv.json"])
}
