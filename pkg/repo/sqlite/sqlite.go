package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/scienceol/labstock/pkg/common/code"
	"github.com/scienceol/labstock/pkg/core/reagent"
	"github.com/scienceol/labstock/pkg/middleware/logger"
	"github.com/scienceol/labstock/pkg/repo"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Store keeps one row per record with the record itself as a JSON payload.
// The location columns are duplicated out of the payload for the unique index.
type Store struct {
	db   *sql.DB
	path string
}

var _ repo.ReagentRepo = (*Store)(nil)

func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = "labstock.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one writer; sqlite serialises anyway and this avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS reagent (
		id TEXT PRIMARY KEY,
		cabinet_id TEXT NOT NULL,
		shelf INTEGER NOT NULL,
		position INTEGER NOT NULL,
		payload BLOB NOT NULL,
		UNIQUE(cabinet_id, shelf, position)
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create reagent table: %w", err)
	}
	logger.Infof(ctx, "sqlite inventory at %s", path)
	return &Store{db: db, path: path}, nil
}

func (s *Store) ListReagents(ctx context.Context) ([]*reagent.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM reagent ORDER BY id`)
	if err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	defer func() { _ = rows.Close() }()

	var out []*reagent.Record
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, code.QueryRecordErr.WithErr(err)
		}
		r := &reagent.Record{}
		if err := json.Unmarshal(payload, r); err != nil {
			return nil, code.QueryRecordErr.WithErr(fmt.Errorf("decode reagent: %w", err))
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return out, nil
}

func (s *Store) SaveReagent(ctx context.Context, r *reagent.Record) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return code.UpdateDataErr.WithErr(err)
	}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO reagent(id, cabinet_id, shelf, position, payload) VALUES(?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET cabinet_id=excluded.cabinet_id, shelf=excluded.shelf,
		position=excluded.position, payload=excluded.payload`,
		r.ID, r.CabinetID, r.Slot.Shelf, r.Slot.Position, payload); err != nil {
		logger.Errorf(ctx, "sqlite save %s err: %+v", r.ID, err)
		return code.UpdateDataErr.WithErr(err)
	}
	return nil
}

func (s *Store) DeleteReagent(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reagent WHERE id = ?`, id)
	if err != nil {
		return code.DeleteDataErr.WithErr(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return code.RecordNotFound.WithMsg(id)
	}
	return nil
}

// Ping is used by the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Path() string { return s.path }
