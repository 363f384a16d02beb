package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/scienceol/labstock/pkg/common/code"
)

type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) PutSnapshot(_ context.Context, key string, body []byte) (string, error) {
	name := filepath.Base(filepath.Clean("/" + key))
	if name == "/" || strings.HasPrefix(name, ".") {
		return "", code.ParamErr.WithMsgf("bad snapshot key %q", key)
	}
	path := filepath.Join(f.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, body, 0o640); err != nil {
		return "", code.ExportErr.WithErr(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", code.ExportErr.WithErr(err)
	}
	return path, nil
}
