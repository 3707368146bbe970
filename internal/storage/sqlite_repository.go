package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sandeepkv93/habitd/internal/model"
	_ "modernc.org/sqlite"
)

const sqliteTimeLayout = time.RFC3339Nano

// Driver names accepted by OpenSQLite.
const (
	DriverCGO    = "sqlite3" // github.com/mattn/go-sqlite3
	DriverPureGo = "sqlite"  // modernc.org/sqlite
)

type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

var (
	_ Repository    = (*SQLiteRepository)(nil)
	_ SnapshotStore = (*SQLiteRepository)(nil)
)

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return &SQLiteRepository{db: db, now: time.Now}, nil
}

// OpenSQLite opens (and creates if missing) the database at path and applies migrations.
func OpenSQLite(driver, path string) (*SQLiteRepository, error) {
	switch driver {
	case "":
		driver = DriverCGO
	case DriverCGO, DriverPureGo:
	default:
		return nil, fmt.Errorf("storage: unsupported sqlite driver %q", driver)
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open(driver, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// a single connection keeps the snapshot transaction and readers serialized
	db.SetMaxOpenConns(1)
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, error) {
	return getValue(ctx, r.db, key)
}

func (r *SQLiteRepository) Put(ctx context.Context, key string, value []byte) error {
	return putValue(ctx, r.db, key, value, r.now())
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) Keys(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key FROM kv ORDER BY key ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		out = append(out, key)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) Load(ctx context.Context, defaults model.Profile) (model.Snapshot, error) {
	snap := model.Snapshot{Profile: defaults, Habits: []model.Habit{}}

	raw, err := r.Get(ctx, HabitsKey)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return model.Snapshot{}, fmt.Errorf("load habits: %w", err)
	default:
		if err := json.Unmarshal(raw, &snap.Habits); err != nil {
			return model.Snapshot{}, fmt.Errorf("decode habits: %w", err)
		}
		if snap.Habits == nil {
			snap.Habits = []model.Habit{}
		}
	}

	raw, err = r.Get(ctx, ProfileKey)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return model.Snapshot{}, fmt.Errorf("load profile: %w", err)
	default:
		// decoding over the defaults keeps every field the stored document lacks
		if err := json.Unmarshal(raw, &snap.Profile); err != nil {
			return model.Snapshot{}, fmt.Errorf("decode profile: %w", err)
		}
	}

	snap.APIKey = snap.Profile.APIKey
	raw, err = r.Get(ctx, APIKeyKey)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return model.Snapshot{}, fmt.Errorf("load api key: %w", err)
	default:
		snap.APIKey = decodeAPIKey(raw)
	}
	snap.Profile.APIKey = ""
	return snap, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, snap model.Snapshot) error {
	habits := snap.Habits
	if habits == nil {
		habits = []model.Habit{}
	}
	habitsJSON, err := json.Marshal(habits)
	if err != nil {
		return fmt.Errorf("encode habits: %w", err)
	}
	profile := snap.Profile
	profile.APIKey = ""
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := r.now()
	if err := putValue(ctx, tx, HabitsKey, habitsJSON, now); err != nil {
		return fmt.Errorf("save habits: %w", err)
	}
	if err := putValue(ctx, tx, ProfileKey, profileJSON, now); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	if snap.APIKey == "" {
		if _, err := tx.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, APIKeyKey); err != nil {
			return fmt.Errorf("clear api key: %w", err)
		}
	} else {
		keyJSON, err := json.Marshal(snap.APIKey)
		if err != nil {
			return fmt.Errorf("encode api key: %w", err)
		}
		if err := putValue(ctx, tx, APIKeyKey, keyJSON, now); err != nil {
			return fmt.Errorf("save api key: %w", err)
		}
	}
	return tx.Commit()
}

type execQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getValue(ctx context.Context, q execQuerier, key string) ([]byte, error) {
	var value string
	err := q.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return []byte(value), nil
}

func putValue(ctx context.Context, q execQuerier, key string, value []byte, at time.Time) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(value), at.UTC().Format(sqliteTimeLayout),
	)
	return err
}

// decodeAPIKey accepts both a JSON string and a bare key written by older versions.
func decodeAPIKey(raw []byte) string {
	var key string
	if err := json.Unmarshal(raw, &key); err == nil {
		return key
	}
	return string(raw)
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
