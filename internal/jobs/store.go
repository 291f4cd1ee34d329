package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/config"
)

// Store manages job history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the job database under the config state directory.
func Open(cfg *config.Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.DatabasePath())
}

// OpenPath opens the database at an explicit location.
func OpenPath(dbPath string) (*Store, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, errors.New("database path required")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
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
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Create inserts job, assigning an ID, pending status, and timestamps when unset.
func (s *Store) Create(ctx context.Context, job *Job) error {
	if job == nil {
		return errors.New("job is nil")
	}
	if strings.TrimSpace(job.Mode) == "" {
		return errors.New("job mode required")
	}
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.Status == "" {
		job.Status = StatusPending
	}
	now := time.Now().UTC()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	job.UpdatedAt = now

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO jobs (
            id, status, mode, title, output_path, subtitle_path,
            audio_seconds, video_seconds, sections, placeholders, clips,
            error_kind, error_message, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID.String(),
		job.Status,
		job.Mode,
		nullableString(job.Title),
		nullableString(job.OutputPath),
		nullableString(job.SubtitlePath),
		job.AudioSeconds,
		job.VideoSeconds,
		job.Sections,
		job.Placeholders,
		job.Clips,
		nullableString(job.ErrorKind),
		nullableString(job.ErrorMessage),
		job.CreatedAt.UTC().Format(timestampLayout),
		job.UpdatedAt.Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

// Update persists changes to an existing job.
func (s *Store) Update(ctx context.Context, job *Job) error {
	if job == nil {
		return errors.New("job is nil")
	}
	job.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE jobs
         SET status = ?, mode = ?, title = ?, output_path = ?, subtitle_path = ?,
             audio_seconds = ?, video_seconds = ?, sections = ?, placeholders = ?, clips = ?,
             error_kind = ?, error_message = ?, updated_at = ?
         WHERE id = ?`,
		job.Status,
		job.Mode,
		nullableString(job.Title),
		nullableString(job.OutputPath),
		nullableString(job.SubtitlePath),
		job.AudioSeconds,
		job.VideoSeconds,
		job.Sections,
		job.Placeholders,
		job.Clips,
		nullableString(job.ErrorKind),
		nullableString(job.ErrorMessage),
		job.UpdatedAt.Format(timestampLayout),
		job.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update job %s: no such job", job.ID)
	}
	return nil
}

// Get fetches a job by identifier. A missing job returns (nil, nil).
func (s *Store) Get(ctx context.Context, id uuid.UUID) (*Job, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id.String())
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// FindByPrefix resolves a job from a unique ID prefix, as printed by ShortID.
func (s *Store) FindByPrefix(ctx context.Context, prefix string) (*Job, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return nil, errors.New("job id prefix required")
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id LIKE ? ORDER BY created_at DESC LIMIT 2`, prefix+"%")
	if err != nil {
		return nil, fmt.Errorf("find job: %w", err)
	}
	defer rows.Close()
	jobs, err := collectJobs(rows)
	if err != nil {
		return nil, err
	}
	switch len(jobs) {
	case 0:
		return nil, nil
	case 1:
		return jobs[0], nil
	default:
		return nil, fmt.Errorf("job id prefix %q is ambiguous", prefix)
	}
}

// List returns the most recent jobs first, optionally filtered by status.
// A limit of zero or less returns every match.
func (s *Store) List(ctx context.Context, limit int, statuses ...Status) ([]*Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs`
	args := make([]any, 0, len(statuses)+1)
	if len(statuses) > 0 {
		query += ` WHERE status IN (` + makePlaceholders(len(statuses)) + `)`
		for _, status := range statuses {
			args = append(args, status)
		}
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()
	return collectJobs(rows)
}

// Stats returns the number of jobs per status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM jobs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("job stats: %w", err)
	}
	defer rows.Close()
	stats := make(map[Status]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		stats[Status(status)] = count
	}
	return stats, rows.Err()
}

// Clear removes jobs in terminal states and returns the number deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	terminal := []Status{StatusCompleted, StatusFailed, StatusTimedOut, StatusRejected}
	args := make([]any, 0, len(terminal))
	for _, status := range terminal {
		args = append(args, status)
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM jobs WHERE status IN (`+makePlaceholders(len(terminal))+`)`, args...)
	if err != nil {
		return 0, fmt.Errorf("clear jobs: %w", err)
	}
	return res.RowsAffected()
}

// MarkInterrupted moves jobs left running by a crashed process to failed.
func (s *Store) MarkInterrupted(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE jobs SET status = ?, error_kind = ?, error_message = ?, updated_at = ?
         WHERE status IN (?, ?)`,
		StatusFailed,
		"interrupted",
		"process exited before the job finished",
		time.Now().UTC().Format(timestampLayout),
		StatusPending,
		StatusRunning,
	)
	if err != nil {
		return 0, fmt.Errorf("mark interrupted: %w", err)
	}
	return res.RowsAffected()
}

func collectJobs(rows *sql.Rows) ([]*Job, error) {
	var jobs []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return jobs, nil
}
