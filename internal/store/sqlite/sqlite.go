package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	sqlitedrv "modernc.org/sqlite"

	"github.com/inkwell-app/inkwell-diary/internal/model"
	"github.com/inkwell-app/inkwell-diary/internal/store"
)

// Open opens (or creates) a SQLite database at the given path and
// enables WAL journal mode. ":memory:" yields an in-memory database.
func Open(path string) (*sql.DB, error) {
	dsn := path
	if path != ":memory:" {
		// ensure parent directory exists to avoid SQLITE_CANTOPEN errors
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", path)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// The driver opens lazily; a single connection also keeps in-memory
	// databases from vanishing between pool checkouts.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a SQLite store backed by an existing connection.
func NewWithDB(db *sql.DB) store.Store { return &liteStore{db: db} }

type liteStore struct{ db *sql.DB }

func (s *liteStore) Users() store.Users     { return &users{db: s.db} }
func (s *liteStore) Diaries() store.Diaries { return &diaries{db: s.db} }

// HealthPing implements health.HealthPinger for the SQLite-backed store.
func (s *liteStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
    user_id        TEXT PRIMARY KEY,
    username       TEXT NOT NULL,
    email          TEXT NOT NULL UNIQUE,
    password_hash  TEXT NOT NULL,
    creation_time  TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS diaries (
    entry_id       TEXT PRIMARY KEY,
    owner_id       TEXT NOT NULL REFERENCES users(user_id),
    content        TEXT NOT NULL,
    mood           TEXT,
    ai_analysis    TEXT,
    creation_time  TIMESTAMP NOT NULL,
    update_time    TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS diaries_owner_created
    ON diaries (owner_id, creation_time DESC);
`

// Bootstrap applies the schema; statements are idempotent.
func Bootstrap(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}

func isUniqueViolation(err error) bool {
	var se *sqlitedrv.Error
	if errors.As(err, &se) {
		// SQLITE_CONSTRAINT_UNIQUE (2067) / SQLITE_CONSTRAINT_PRIMARYKEY (1555)
		return se.Code() == 2067 || se.Code() == 1555
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// --- Users ---

type users struct{ db *sql.DB }

func (u *users) Create(ctx context.Context, m *model.User) (*model.User, error) {
	id := m.ID
	if id == "" {
		id = uuid.New().String()
	}
	now := time.Now().UTC()
	_, err := u.db.ExecContext(ctx, `
        INSERT INTO users (user_id, username, email, password_hash, creation_time)
        VALUES (?,?,?,?,?)
    `, id, m.Username, m.Email, m.PasswordHash, now)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, model.ErrConflict
		}
		return nil, err
	}
	out := *m
	out.ID = id
	out.CreatedAt = now
	return &out, nil
}

func (u *users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return u.get(ctx, `SELECT user_id, username, email, password_hash, creation_time
        FROM users WHERE email=?`, email)
}

func (u *users) GetByID(ctx context.Context, userID string) (*model.User, error) {
	return u.get(ctx, `SELECT user_id, username, email, password_hash, creation_time
        FROM users WHERE user_id=?`, userID)
}

func (u *users) get(ctx context.Context, query, arg string) (*model.User, error) {
	var out model.User
	row := u.db.QueryRowContext(ctx, query, arg)
	if err := row.Scan(&out.ID, &out.Username, &out.Email, &out.PasswordHash, &out.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

// --- Diaries ---

type diaries struct{ db *sql.DB }

func (d *diaries) Create(ctx context.Context, e *model.DiaryEntry) (*model.DiaryEntry, error) {
	id := e.ID
	if id == "" {
		id = uuid.New().String()
	}
	analysis, err := marshalAnalysis(e.AIAnalysis)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	_, err = d.db.ExecContext(ctx, `
        INSERT INTO diaries (entry_id, owner_id, content, mood, ai_analysis, creation_time, update_time)
        VALUES (?,?,?,?,?,?,?)
    `, id, e.Owner, e.Content, nullIfEmpty(e.Mood), analysis, now, now)
	if err != nil {
		return nil, err
	}
	out := *e
	out.ID = id
	out.CreatedAt = now
	out.UpdatedAt = now
	return &out, nil
}

func (d *diaries) ListByOwner(ctx context.Context, ownerID string) ([]*model.DiaryEntry, error) {
	rows, err := d.db.QueryContext(ctx, `
        SELECT entry_id, owner_id, content, mood, ai_analysis, creation_time, update_time
        FROM diaries WHERE owner_id=? ORDER BY creation_time DESC, entry_id DESC
    `, ownerID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []*model.DiaryEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

func (d *diaries) GetByID(ctx context.Context, ownerID, entryID string) (*model.DiaryEntry, error) {
	row := d.db.QueryRowContext(ctx, `
        SELECT entry_id, owner_id, content, mood, ai_analysis, creation_time, update_time
        FROM diaries WHERE entry_id=? AND owner_id=?
    `, entryID, ownerID)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (d *diaries) Update(ctx context.Context, req model.UpdateDiaryRequest) (*model.DiaryEntry, error) {
	row := d.db.QueryRowContext(ctx, `
        UPDATE diaries SET content=?, mood=?, update_time=?
        WHERE entry_id=? AND owner_id=?
        RETURNING entry_id, owner_id, content, mood, ai_analysis, creation_time, update_time
    `, req.Content, nullIfEmpty(req.Mood), time.Now().UTC(), req.EntryID, req.Owner)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (d *diaries) Delete(ctx context.Context, ownerID, entryID string) error {
	res, err := d.db.ExecContext(ctx, `
        DELETE FROM diaries WHERE entry_id=? AND owner_id=?
    `, entryID, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// --- helpers ---

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (*model.DiaryEntry, error) {
	var out model.DiaryEntry
	var mood sql.NullString
	var analysis sql.NullString
	if err := row.Scan(&out.ID, &out.Owner, &out.Content, &mood, &analysis, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, err
	}
	if mood.Valid {
		out.Mood = mood.String
	}
	if analysis.Valid && analysis.String != "" {
		var a model.AIAnalysis
		if err := json.Unmarshal([]byte(analysis.String), &a); err != nil {
			return nil, fmt.Errorf("decode ai_analysis: %w", err)
		}
		out.AIAnalysis = &a
	}
	return &out, nil
}

func marshalAnalysis(a *model.AIAnalysis) (interface{}, error) {
	if a == nil {
		return nil, nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encode ai_analysis: %w", err)
	}
	return string(b), nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
