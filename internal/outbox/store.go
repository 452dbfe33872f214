// Package outbox queues check-ins and journal entries written while the API
// is unreachable and replays them later.
package outbox

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
	_ "github.com/mattn/go-sqlite3"
	"github.com/mindwell/moodboard/internal/api"
)

type Kind string

const (
	KindCheckIn Kind = "checkin"
	KindJournal Kind = "journal"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusRejected Status = "rejected"
)

type Item struct {
	ID        string
	Kind      Kind
	UserID    int64
	Payload   json.RawMessage
	CreatedAt time.Time
	Attempt   int
	LastError string
	Status    Status
}

// createdAtLayout is fixed width so created_at sorts lexically in time order.
// RFC3339Nano trims trailing zeros and would put .15 before .1.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

type Store struct {
	db  *sql.DB
	now func() time.Time
}

// DefaultPath puts the queue under the XDG state dir.
func DefaultPath() (string, error) {
	if base := strings.TrimSpace(os.Getenv("XDG_STATE_HOME")); base != "" {
		return filepath.Join(base, "moodboard", "outbox.db"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("outbox: resolve home dir: %w", err)
	}
	return filepath.Join(home, ".local", "state", "moodboard", "outbox.db"), nil
}

func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("outbox: creating DB dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("outbox: opening DB: %w", err)
	}
	if err := configureSQLiteConnection(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("outbox: configure DB: %w", err)
	}

	store := NewStore(db)
	if err := store.Init(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Init(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS outbox_items (
			item_id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			user_id INTEGER NOT NULL,
			payload TEXT NOT NULL,
			created_at TEXT NOT NULL,
			attempt INTEGER NOT NULL DEFAULT 0,
			last_error TEXT,
			status TEXT NOT NULL DEFAULT 'pending'
		);`,
		`CREATE INDEX IF NOT EXISTS idx_outbox_items_pending ON outbox_items(status, created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("outbox: init schema: %w", err)
		}
	}
	return nil
}

func (s *Store) EnqueueCheckIn(ctx context.Context, req api.CheckInRequest) (string, error) {
	return s.Enqueue(ctx, KindCheckIn, req.UserID, req)
}

func (s *Store) EnqueueJournal(ctx context.Context, req api.JournalRequest) (string, error) {
	return s.Enqueue(ctx, KindJournal, req.UserID, req)
}

// Enqueue stores payload as JSON and returns the new item id.
func (s *Store) Enqueue(ctx context.Context, kind Kind, userID int64, payload any) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("outbox: marshal %s: %w", kind, err)
	}
	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO outbox_items (item_id, kind, user_id, payload, created_at, status) VALUES (?, ?, ?, ?, ?, ?)`,
		id, string(kind), userID, string(data), s.now().UTC().Format(createdAtLayout), string(StatusPending),
	)
	if err != nil {
		return "", fmt.Errorf("outbox: insert %s: %w", kind, err)
	}
	return id, nil
}

// Pending returns pending items oldest first. limit <= 0 means no limit.
func (s *Store) Pending(ctx context.Context, limit int) ([]Item, error) {
	return s.list(ctx, StatusPending, limit)
}

func (s *Store) Rejected(ctx context.Context) ([]Item, error) {
	return s.list(ctx, StatusRejected, 0)
}

func (s *Store) list(ctx context.Context, status Status, limit int) ([]Item, error) {
	query := `SELECT item_id, kind, user_id, payload, created_at, attempt, COALESCE(last_error, ''), status
		FROM outbox_items WHERE status = ? ORDER BY created_at ASC, rowid ASC`
	args := []any{string(status)}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("outbox: query %s: %w", status, err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var (
			it        Item
			kind      string
			payload   string
			createdAt string
			st        string
		)
		if err := rows.Scan(&it.ID, &kind, &it.UserID, &payload, &createdAt, &it.Attempt, &it.LastError, &st); err != nil {
			return nil, fmt.Errorf("outbox: scan item: %w", err)
		}
		it.Kind = Kind(kind)
		it.Payload = json.RawMessage(payload)
		it.Status = Status(st)
		if ts, err := time.Parse(createdAtLayout, createdAt); err == nil {
			it.CreatedAt = ts
		} else if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			it.CreatedAt = ts
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM outbox_items WHERE status = ?`, string(StatusPending)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("outbox: count: %w", err)
	}
	return n, nil
}

// MarkDone removes a delivered item.
func (s *Store) MarkDone(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM outbox_items WHERE item_id = ?`, id); err != nil {
		return fmt.Errorf("outbox: delete %s: %w", id, err)
	}
	return nil
}

// MarkFailed bumps the attempt counter and records the error. A rejected item
// is kept for inspection but no longer replayed.
func (s *Store) MarkFailed(ctx context.Context, id string, cause error, reject bool) error {
	status := StatusPending
	if reject {
		status = StatusRejected
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE outbox_items SET attempt = attempt + 1, last_error = ?, status = ? WHERE item_id = ?`,
		truncateErr("", cause), string(status), id,
	)
	if err != nil {
		return fmt.Errorf("outbox: mark failed %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("outbox: mark failed %s: %w", id, ErrNotFound)
	}
	return nil
}

var ErrNotFound = errors.New("outbox item not found")

func truncateErr(prefix string, err error) string {
	if err == nil {
		return prefix
	}
	msg := strings.TrimSpace(err.Error())
	if len(msg) > 400 {
		msg = msg[:397] + "..."
	}
	if prefix == "" {
		return msg
	}
	return prefix + ": " + msg
}
