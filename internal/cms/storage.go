package cms

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Storage is a key/value document store. Get reports found=false for unknown keys.
type Storage interface {
	Get(ctx context.Context, key string) (data []byte, found bool, err error)
	Put(ctx context.Context, key string, data []byte) error
}

// FileStorage keeps one <key>.json file per key under Dir.
type FileStorage struct {
	fs  afero.Fs
	dir string
}

func NewFileStorage(fs afero.Fs, dir string) *FileStorage {
	return &FileStorage{fs: fs, dir: dir}
}

func (s *FileStorage) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

func (s *FileStorage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, false, err
	}
	data, err := afero.ReadFile(s.fs, p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", p, err)
	}
	return data, true, nil
}

func (s *FileStorage) Put(ctx context.Context, key string, data []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create storage dir: %w", err)
	}

	tmp := p + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := s.fs.Rename(tmp, p); err != nil {
		return fmt.Errorf("failed to replace %s: %w", p, err)
	}
	return nil
}

const (
	selectDocumentSQL = `SELECT body FROM cms_documents WHERE doc_key = ?`
	upsertDocumentSQL = `INSERT INTO cms_documents (doc_key, body) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE body = VALUES(body), updated_at = CURRENT_TIMESTAMP`
)

// SQLStorage keeps documents in the cms_documents table.
type SQLStorage struct {
	db *sql.DB
}

func NewSQLStorage(db *sql.DB) *SQLStorage {
	return &SQLStorage{db: db}
}

func (s *SQLStorage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx, selectDocumentSQL, key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load document %s: %w", key, err)
	}
	return body, true, nil
}

func (s *SQLStorage) Put(ctx context.Context, key string, data []byte) error {
	if _, err := s.db.ExecContext(ctx, upsertDocumentSQL, key, data); err != nil {
		return fmt.Errorf("failed to store document %s: %w", key, err)
	}
	return nil
}

var (
	_ Storage = (*FileStorage)(nil)
	_ Storage = (*SQLStorage)(nil)
)
