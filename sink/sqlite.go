package sink

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/intakeflow/intakeflow/types"
)

const createSubmissionsTable = `
CREATE TABLE IF NOT EXISTS submissions (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	data TEXT NOT NULL,
	metadata TEXT NOT NULL
)`

// SQLite stores submissions as JSON payloads in a local database.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(createSubmissionsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Save(ctx context.Context, fields map[string]*types.CollectedValue, meta Metadata) (string, error) {
	data, err := sonic.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("marshal data: %w", err)
	}
	metaJSON, err := sonic.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("marshal metadata: %w", err)
	}
	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO submissions (id, created_at, data, metadata) VALUES (?, ?, ?, ?)",
		id, time.Now().Format(time.RFC3339), string(data), string(metaJSON))
	if err != nil {
		return "", fmt.Errorf("insert submission: %w", err)
	}
	return id, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

var _ Sink = (*SQLite)(nil)
