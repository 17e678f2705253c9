package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/inkwell-app/inkwell-diary/internal/model"
	"github.com/inkwell-app/inkwell-diary/internal/store"
)

// Open opens a PostgreSQL connection using the pgx stdlib driver and verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a Postgres store backed directly by database/sql.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Users() store.Users     { return &users{db: s.db} }
func (s *pgStore) Diaries() store.Diaries { return &diaries{db: s.db} }

// HealthPing implements health.HealthPinger for the Postgres-backed store.
func (s *pgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
    user_id        TEXT PRIMARY KEY,
    username       TEXT NOT NULL,
    email          TEXT NOT NULL UNIQUE,
    password_hash  TEXT NOT NULL,
    creation_time  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS diaries (
    entry_id       TEXT PRIMARY KEY,
    owner_id       TEXT NOT NULL REFERENCES users(user_id),
    content        TEXT NOT NULL,
    mood           TEXT,
    ai_analysis    JSONB,
    creation_time  TIMESTAMPTZ NOT NULL DEFAULT now(),
    update_time    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS diaries_owner_created
    ON diaries (owner_id, creation_time DESC);
`

// Bootstrap applies the schema. Statements are idempotent, so running
// it on every startup is safe.
func Bootstrap(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// --- Users ---

type users struct{ db *sql.DB }

func (u *users) Create(ctx context.Context, m *model.User) (*model.User, error) {
	id := m.ID
	if id == "" {
		id = uuid.New().String()
	}
	var created time.Time
	row := u.db.QueryRowContext(ctx, `
        INSERT INTO users (user_id, username, email, password_hash)
        VALUES ($1,$2,$3,$4)
        RETURNING creation_time
    `, id, m.Username, m.Email, m.PasswordHash)
	if err := row.Scan(&created); err != nil {
		if isUniqueViolation(err) {
			return nil, model.ErrConflict
		}
		return nil, err
	}
	out := *m
	out.ID = id
	out.CreatedAt = created
	return &out, nil
}

func (u *users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return u.get(ctx, `SELECT user_id, username, email, password_hash, creation_time
        FROM users WHERE email=$1`, email)
}

func (u *users) GetByID(ctx context.Context, userID string) (*model.User, error) {
	return u.get(ctx, `SELECT user_id, username, email, password_hash, creation_time
        FROM users WHERE user_id=$1`, userID)
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
	var created, updated time.Time
	row := d.db.QueryRowContext(ctx, `
        INSERT INTO diaries (entry_id, owner_id, content, mood, ai_analysis)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING creation_time, update_time
    `, id, e.Owner, e.Content, nullIfEmpty(e.Mood), analysis)
	if err := row.Scan(&created, &updated); err != nil {
		return nil, err
	}
	out := *e
	out.ID = id
	out.CreatedAt = created
	out.UpdatedAt = updated
	return &out, nil
}

func (d *diaries) ListByOwner(ctx context.Context, ownerID string) ([]*model.DiaryEntry, error) {
	rows, err := d.db.QueryContext(ctx, `
        SELECT entry_id, owner_id, content, mood, ai_analysis, creation_time, update_time
        FROM diaries WHERE owner_id=$1 ORDER BY creation_time DESC
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
        FROM diaries WHERE entry_id=$1 AND owner_id=$2
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

// Update rewrites content and mood in a single statement scoped to the
// owner; ai_analysis is never part of the SET list.
func (d *diaries) Update(ctx context.Context, req model.UpdateDiaryRequest) (*model.DiaryEntry, error) {
	row := d.db.QueryRowContext(ctx, `
        UPDATE diaries SET content=$1, mood=$2, update_time=now()
        WHERE entry_id=$3 AND owner_id=$4
        RETURNING entry_id, owner_id, content, mood, ai_analysis, creation_time, update_time
    `, req.Content, nullIfEmpty(req.Mood), req.EntryID, req.Owner)
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
        DELETE FROM diaries WHERE entry_id=$1 AND owner_id=$2
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
	var analysis []byte
	if err := row.Scan(&out.ID, &out.Owner, &out.Content, &mood, &analysis, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, err
	}
	if mood.Valid {
		out.Mood = mood.String
	}
	if len(analysis) > 0 {
		var a model.AIAnalysis
		if err := json.Unmarshal(analysis, &a); err != nil {
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
	return b, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
