package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"wellness/internal/models"
	"wellness/internal/tasks"
)

// ErrNotFound is returned when a row addressed by id does not exist for the
// requesting owner.
var ErrNotFound = errors.New("not found")

// Store wraps access to the SQLite database and exposes high level helpers.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open initializes a new SQLite store and runs the required migrations.
func Open(dbPath string, logger *slog.Logger) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("empty database path")
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if err := ensureDir(dbPath); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=ON", dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(0)

	s := &Store{db: conn, logger: logger}
	if err := s.migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return s, nil
}

// Close releases the database resources.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping checks the connection for the readiness endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func ensureDir(dbPath string) error {
	dir := filepath.Dir(dbPath)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            owner TEXT NOT NULL,
            title TEXT NOT NULL,
            category TEXT NOT NULL DEFAULT '',
            description TEXT NOT NULL DEFAULT '',
            time TEXT NOT NULL DEFAULT '',
            start_date TEXT NOT NULL,
            end_date TEXT NOT NULL,
            status TEXT NOT NULL DEFAULT 'To-do',
            position INTEGER NOT NULL DEFAULT 0,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            CHECK (start_date <= end_date)
        );`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_owner ON tasks(owner);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_owner_dates ON tasks(owner, start_date, end_date);`,
		`CREATE TABLE IF NOT EXISTS reviews (
            owner TEXT NOT NULL,
            subject TEXT NOT NULL,
            employee_id TEXT NOT NULL,
            reviewed INTEGER NOT NULL,
            updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            PRIMARY KEY (owner, subject, employee_id)
        );`,
		`CREATE TABLE IF NOT EXISTS chat_messages (
            id TEXT PRIMARY KEY,
            owner TEXT NOT NULL,
            contact_id INTEGER NOT NULL,
            kind TEXT NOT NULL,
            text TEXT NOT NULL,
            sent_at DATETIME NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS idx_chat_owner ON chat_messages(owner, sent_at);`,
		`CREATE TRIGGER IF NOT EXISTS trg_tasks_updated
            AFTER UPDATE ON tasks
            FOR EACH ROW BEGIN
                UPDATE tasks SET updated_at = CURRENT_TIMESTAMP WHERE id = OLD.id;
            END;`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

const taskColumns = `id, owner, title, category, description, time, start_date, end_date, status, position`

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (models.Task, error) {
	var (
		t          models.Task
		start, end string
		status     string
	)
	if err := row.Scan(&t.ID, &t.Owner, &t.Title, &t.Category, &t.Description, &t.Time, &start, &end, &status, &t.Position); err != nil {
		return models.Task{}, err
	}
	var err error
	if t.StartDate, err = models.ParseDate(start); err != nil {
		return models.Task{}, err
	}
	if t.EndDate, err = models.ParseDate(end); err != nil {
		return models.Task{}, err
	}
	t.Status = models.TaskStatus(status)
	return t, nil
}

// ListTasks returns the owner's tasks ordered by start date and position.
func (s *Store) ListTasks(ctx context.Context, owner string) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+taskColumns+`
        FROM tasks WHERE owner = ? ORDER BY start_date, position, id`, owner)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	out := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// TasksBetween returns the owner's tasks overlapping the inclusive range.
func (s *Store) TasksBetween(ctx context.Context, owner string, from, to models.Date) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+taskColumns+`
        FROM tasks WHERE owner = ? AND start_date <= ? AND end_date >= ?
        ORDER BY start_date, position, id`, owner, to.String(), from.String())
	if err != nil {
		return nil, fmt.Errorf("tasks between: %w", err)
	}
	defer rows.Close()

	out := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// CreateTask inserts a new task for t.Owner. An empty status defaults to To-do.
func (s *Store) CreateTask(ctx context.Context, t models.Task) (models.Task, error) {
	t.Title = strings.TrimSpace(t.Title)
	t.Description = strings.TrimSpace(t.Description)
	if t.Status == "" {
		t.Status = models.StatusTodo
	}
	if err := tasks.Validate(t); err != nil {
		return models.Task{}, err
	}

	pos, err := s.nextPosition(ctx, t.Owner, t.StartDate)
	if err != nil {
		return models.Task{}, err
	}

	res, err := s.db.ExecContext(ctx, `INSERT INTO tasks(owner, title, category, description, time, start_date, end_date, status, position)
        VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Owner, t.Title, t.Category, t.Description, t.Time, t.StartDate.String(), t.EndDate.String(), string(t.Status), pos)
	if err != nil {
		return models.Task{}, fmt.Errorf("insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Task{}, fmt.Errorf("task id: %w", err)
	}
	return s.GetTask(ctx, t.Owner, id)
}

// GetTask retrieves one of the owner's tasks by id.
func (s *Store) GetTask(ctx context.Context, owner string, id int64) (models.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ? AND owner = ?`, id, owner)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// TaskChanges lists the fields of an update; nil leaves a field unchanged.
type TaskChanges struct {
	Title       *string
	Category    *string
	Description *string
	Time        *string
	StartDate   *models.Date
	EndDate     *models.Date
	Status      *models.TaskStatus
}

// UpdateTask applies changes and re-validates the date range.
func (s *Store) UpdateTask(ctx context.Context, owner string, id int64, changes TaskChanges) (models.Task, error) {
	current, err := s.GetTask(ctx, owner, id)
	if err != nil {
		return models.Task{}, err
	}

	next := current
	if changes.Title != nil && strings.TrimSpace(*changes.Title) != "" {
		next.Title = strings.TrimSpace(*changes.Title)
	}
	if changes.Category != nil {
		next.Category = *changes.Category
	}
	if changes.Description != nil {
		next.Description = strings.TrimSpace(*changes.Description)
	}
	if changes.Time != nil {
		next.Time = *changes.Time
	}
	if changes.StartDate != nil {
		next.StartDate = *changes.StartDate
	}
	if changes.EndDate != nil {
		next.EndDate = *changes.EndDate
	}
	if changes.Status != nil {
		next.Status = *changes.Status
	}
	if err := tasks.Validate(next); err != nil {
		return models.Task{}, err
	}

	if !next.StartDate.Equal(current.StartDate) {
		pos, err := s.nextPosition(ctx, owner, next.StartDate)
		if err != nil {
			return models.Task{}, err
		}
		next.Position = pos
	}

	_, err = s.db.ExecContext(ctx, `UPDATE tasks SET title = ?, category = ?, description = ?, time = ?, start_date = ?, end_date = ?, status = ?, position = ?, updated_at = CURRENT_TIMESTAMP
        WHERE id = ? AND owner = ?`,
		next.Title, next.Category, next.Description, next.Time, next.StartDate.String(), next.EndDate.String(), string(next.Status), next.Position, id, owner)
	if err != nil {
		return models.Task{}, fmt.Errorf("update task: %w", err)
	}
	return s.GetTask(ctx, owner, id)
}

// DeleteTask removes one of the owner's tasks.
func (s *Store) DeleteTask(ctx context.Context, owner string, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ? AND owner = ?`, id, owner)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Store) nextPosition(ctx context.Context, owner string, start models.Date) (int64, error) {
	var position sql.NullInt64
	err := s.db.QueryRowContext(ctx, `SELECT MAX(position) FROM tasks WHERE owner = ? AND start_date = ?`, owner, start.String()).Scan(&position)
	if err != nil {
		return 0, fmt.Errorf("select position: %w", err)
	}
	if position.Valid {
		return position.Int64 + 1, nil
	}
	return 0, nil
}
