package kv

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implementa Store sobre una tabla kv en un archivo sqlite.
// Es el backend por defecto para instalaciones de un solo negocio.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS kv (
	k TEXT PRIMARY KEY,
	v BLOB NOT NULL,
	expires_at INTEGER
);
`

// NewSQLiteStore abre (o crea) el archivo y asegura el esquema.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// El driver es puro Go; una sola conexión evita SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	var expiresAt sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT v, expires_at FROM kv WHERE k = ?`, key,
	).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if expiresAt.Valid && time.Now().UTC().Unix() > expiresAt.Int64 {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM kv WHERE k = ?`, key)
		return nil, ErrNotFound
	}
	return value, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (k, v, expires_at) VALUES (?, ?, NULL)
		 ON CONFLICT(k) DO UPDATE SET v = excluded.v, expires_at = NULL`,
		key, value,
	)
	return err
}

func (s *SQLiteStore) SetTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	expiresAt := time.Now().UTC().Add(ttl).Unix()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (k, v, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(k) DO UPDATE SET v = excluded.v, expires_at = excluded.expires_at`,
		key, value, expiresAt,
	)
	return err
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE k = ?`, key)
	return err
}

func (s *SQLiteStore) ListByPrefix(ctx context.Context, prefix string) (map[string][]byte, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT k, v, expires_at FROM kv WHERE k LIKE ? || '%'`, prefix,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	now := time.Now().UTC().Unix()
	out := make(map[string][]byte)
	for rows.Next() {
		var key string
		var value []byte
		var expiresAt sql.NullInt64
		if err := rows.Scan(&key, &value, &expiresAt); err != nil {
			return nil, err
		}
		if expiresAt.Valid && now > expiresAt.Int64 {
			continue
		}
		out[key] = value
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
