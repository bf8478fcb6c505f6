package library

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"ledproj/internal/config"
	"ledproj/internal/logging"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current catalog schema version. Bump this when the
// schema changes; stale databases are rebuilt by deleting them or running
// 'ledproj library reindex' after removal.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// ErrNotFound indicates no catalog entry exists for the requested ID.
var ErrNotFound = errors.New("pattern not found in library")

// Store manages the pattern catalog backed by SQLite.
type Store struct {
	db     *sql.DB
	path   string
	lock   *flock.Flock
	logger *slog.Logger
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
	lockRetryInterval       = 100 * time.Millisecond
)

// Open acquires the catalog file lock and initializes or connects to the
// library database.
func Open(cfg *config.Config, logger *slog.Logger) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.Library.DatabasePath
	lock := flock.New(dbPath + ".lock")
	lockCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Library.LockTimeoutSeconds)*time.Second)
	defer cancel()

	locked, err := lock.TryLockContext(lockCtx, lockRetryInterval)
	if err != nil {
		return nil, fmt.Errorf("acquire library lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("library at %s is locked by another process", dbPath)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{
		db:     db,
		path:   dbPath,
		lock:   lock,
		logger: logging.NewComponentLogger(logger, "library"),
	}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}
	return store, nil
}

// Close closes the database connection and releases the file lock.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var err error
	if s.db != nil {
		err = s.db.Close()
	}
	if s.lock != nil {
		if unlockErr := s.lock.Unlock(); unlockErr != nil && err == nil {
			err = unlockErr
		}
	}
	return err
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s and reindex)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}

// Upsert records or refreshes a catalog entry keyed by pattern ID.
func (s *Store) Upsert(ctx context.Context, entry Entry) error {
	tags := entry.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	ctx = ensureContext(ctx)

	// A rewritten project file keeps its path but may carry a fresh pattern
	// ID; the old row must go or the unique path index rejects the insert.
	if err := s.execWithRetry(ctx,
		"DELETE FROM patterns WHERE path = ? AND id <> ?", entry.Path, entry.ID); err != nil {
		return fmt.Errorf("clear stale entry at %s: %w", entry.Path, err)
	}

	err = s.execWithRetry(ctx,
		`INSERT INTO patterns (
            id, name, path, width, height, frame_count, layout_type, tags_json, created_at, modified_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            name = excluded.name,
            path = excluded.path,
            width = excluded.width,
            height = excluded.height,
            frame_count = excluded.frame_count,
            layout_type = excluded.layout_type,
            tags_json = excluded.tags_json,
            modified_at = excluded.modified_at`,
		entry.ID,
		entry.Name,
		entry.Path,
		entry.Width,
		entry.Height,
		entry.FrameCount,
		entry.LayoutType,
		string(tagsJSON),
		entry.CreatedAt.UTC().Format(time.RFC3339),
		entry.ModifiedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert pattern %s: %w", entry.ID, err)
	}
	return nil
}

// GetByID returns the catalog entry for a pattern ID.
func (s *Store) GetByID(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT id, name, path, width, height, frame_count, layout_type, tags_json, created_at, modified_at
         FROM patterns WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get pattern %s: %w", id, err)
	}
	return entry, nil
}

// List returns all catalog entries ordered by name. A non-empty nameFilter
// restricts results to names containing it, case-insensitively.
func (s *Store) List(ctx context.Context, nameFilter string) ([]Entry, error) {
	query := `SELECT id, name, path, width, height, frame_count, layout_type, tags_json, created_at, modified_at
              FROM patterns`
	var args []any
	if strings.TrimSpace(nameFilter) != "" {
		query += " WHERE name LIKE ? COLLATE NOCASE"
		args = append(args, "%"+strings.TrimSpace(nameFilter)+"%")
	}
	query += " ORDER BY name COLLATE NOCASE, id"

	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list patterns: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pattern: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list patterns: %w", err)
	}
	return entries, nil
}

// Remove deletes a catalog entry. Removing an unknown ID is not an error.
func (s *Store) Remove(ctx context.Context, id string) error {
	if err := s.execWithRetry(ensureContext(ctx), "DELETE FROM patterns WHERE id = ?", id); err != nil {
		return fmt.Errorf("remove pattern %s: %w", id, err)
	}
	return nil
}

// Reindex rebuilds the catalog from every .ledproj file under dir. Files
// that fail to load are logged and skipped; entries whose files vanished are
// dropped.
func (s *Store) Reindex(ctx context.Context, dir string, load func(path string) (Entry, error)) (int, error) {
	ctx = ensureContext(ctx)

	existing, err := s.List(ctx, "")
	if err != nil {
		return 0, err
	}
	stale := make(map[string]string, len(existing))
	for _, entry := range existing {
		stale[entry.ID] = entry.Path
	}

	indexed := 0
	walkErr := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".ledproj") {
			return nil
		}
		entry, loadErr := load(path)
		if loadErr != nil {
			s.logger.Warn("skipping unreadable project",
				logging.String("path", path),
				logging.Error(loadErr))
			return nil
		}
		if upsertErr := s.Upsert(ctx, entry); upsertErr != nil {
			return upsertErr
		}
		delete(stale, entry.ID)
		indexed++
		return nil
	})
	if walkErr != nil {
		return indexed, fmt.Errorf("walk %s: %w", dir, walkErr)
	}

	for id, path := range stale {
		if err := s.Remove(ctx, id); err != nil {
			return indexed, err
		}
		s.logger.Info("dropped stale catalog entry",
			logging.String("id", id),
			logging.String("path", path))
	}

	s.logger.Info("library reindexed",
		logging.String("dir", dir),
		logging.Int("patterns", indexed),
		logging.Int("dropped", len(stale)))
	return indexed, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var (
		entry      Entry
		tagsJSON   string
		createdAt  string
		modifiedAt string
	)
	err := row.Scan(
		&entry.ID,
		&entry.Name,
		&entry.Path,
		&entry.Width,
		&entry.Height,
		&entry.FrameCount,
		&entry.LayoutType,
		&tagsJSON,
		&createdAt,
		&modifiedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tagsJSON), &entry.Tags); err != nil {
		entry.Tags = nil
	}
	if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
		entry.CreatedAt = ts
	}
	if ts, err := time.Parse(time.RFC3339, modifiedAt); err == nil {
		entry.ModifiedAt = ts
	}
	return &entry, nil
}
