package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrProjectNotFound is returned for keys missing from the project table.
var ErrProjectNotFound = errors.New("project not found")

// Timestamps are stored as UTC text in SQLite's own format so DATE() and
// datetime() comparisons work on them.
const timeLayout = "2006-01-02 15:04:05"

const schema = `
CREATE TABLE IF NOT EXISTS projects (
	key TEXT PRIMARY KEY,
	position INTEGER NOT NULL,
	image TEXT NOT NULL,
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	tools TEXT NOT NULL,
	link TEXT NOT NULL DEFAULT '',
	static_preview TEXT NOT NULL DEFAULT '',
	animated_preview TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS visitors (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hashed_ip TEXT NOT NULL,  -- salted hash, never the raw IP
	user_agent TEXT,
	path TEXT,
	timestamp TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS visitors_timestamp ON visitors(timestamp);

CREATE TABLE IF NOT EXISTS project_views (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	project_key TEXT NOT NULL,
	hashed_ip TEXT NOT NULL,
	timestamp TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS project_views_key ON project_views(project_key);
`

// Store keeps projects, visitor metrics and project views in SQLite.
type Store struct {
	db *sql.DB
}

// OpenStore opens (or creates) the database at path and applies the schema.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SeedProjects replaces the project table with projects, keeping their order.
func (s *Store) SeedProjects(ctx context.Context, projects []Project) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM projects`); err != nil {
		return fmt.Errorf("clearing projects: %w", err)
	}
	for i, p := range projects {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO projects (key, position, image, title, description, tools, link, static_preview, animated_preview)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, p.Key, i, p.Image, p.Title, p.Description, p.Tools, p.Link, p.StaticPreview, p.AnimatedPreview)
		if err != nil {
			return fmt.Errorf("inserting project %s: %w", p.Key, err)
		}
	}
	return tx.Commit()
}

const projectColumns = `key, position, image, title, description, tools, link, static_preview, animated_preview`

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (Project, error) {
	var p Project
	err := row.Scan(&p.Key, &p.Position, &p.Image, &p.Title, &p.Description, &p.Tools, &p.Link, &p.StaticPreview, &p.AnimatedPreview)
	return p, err
}

// Projects lists all projects in gallery order.
func (s *Store) Projects(ctx context.Context) ([]Project, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// Project looks up one project by key.
func (s *Store) Project(ctx context.Context, key string) (Project, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE key = ?`, key)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Project{}, ErrProjectNotFound
	}
	return p, err
}

// RecordVisit stores one page view.
func (s *Store) RecordVisit(ctx context.Context, v VisitorMetric) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO visitors (hashed_ip, user_agent, path, timestamp)
		VALUES (?, ?, ?, ?)
	`, v.HashedIP, v.UserAgent, v.Path, v.Timestamp.UTC().Format(timeLayout))
	return err
}

// RecordProjectView stores one modal open.
func (s *Store) RecordProjectView(ctx context.Context, key, hashedIP string, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO project_views (project_key, hashed_ip, timestamp)
		VALUES (?, ?, ?)
	`, key, hashedIP, at.UTC().Format(timeLayout))
	return err
}

// Visitors returns the most recent visits, newest first.
func (s *Store) Visitors(ctx context.Context, limit int) ([]VisitorMetric, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), timestamp
		FROM visitors
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var visitors []VisitorMetric
	for rows.Next() {
		var v VisitorMetric
		var ts string
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &ts); err != nil {
			continue
		}
		v.Timestamp, _ = time.Parse(timeLayout, ts)
		visitors = append(visitors, v)
	}
	return visitors, rows.Err()
}

// Stats aggregates the admin dashboard figures relative to now.
func (s *Store) Stats(ctx context.Context, now time.Time) (*AdminStats, error) {
	stats := &AdminStats{}
	now = now.UTC()
	today := now.Format("2006-01-02")
	weekAgo := now.Add(-7 * 24 * time.Hour).Format(timeLayout)

	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&stats.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE DATE(timestamp) = ?`, []any{today}},
		{&stats.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{weekAgo}},
		{&stats.TotalProjects, `SELECT COUNT(*) FROM projects`, nil},
		{&stats.TotalProjectViews, `SELECT COUNT(*) FROM project_views`, nil},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, err
		}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.key, p.title, COUNT(v.id) AS views
		FROM projects p
		LEFT JOIN project_views v ON v.project_key = p.key
		GROUP BY p.key
		ORDER BY views DESC, p.position
		LIMIT 10
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var ps ProjectStat
		if err := rows.Scan(&ps.Key, &ps.Title, &ps.Views); err != nil {
			continue
		}
		stats.TopProjects = append(stats.TopProjects, ps)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	stats.RecentVisitors, err = s.Visitors(ctx, 50)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// DailyVisitors counts visits for each of the last days days, oldest first,
// ending with the day of now.
func (s *Store) DailyVisitors(ctx context.Context, now time.Time, days int) ([]float64, error) {
	if days <= 0 {
		return nil, nil
	}
	now = now.UTC()
	first := now.AddDate(0, 0, -(days - 1))
	rows, err := s.db.QueryContext(ctx, `
		SELECT DATE(timestamp) AS day, COUNT(*)
		FROM visitors
		WHERE DATE(timestamp) >= ?
		GROUP BY day
	`, first.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	perDay := make(map[string]float64)
	for rows.Next() {
		var day string
		var n int64
		if err := rows.Scan(&day, &n); err != nil {
			return nil, err
		}
		perDay[day] = float64(n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	series := make([]float64, days)
	for i := range series {
		series[i] = perDay[first.AddDate(0, 0, i).Format("2006-01-02")]
	}
	return series, nil
}

// CleanupVisitors deletes visits and project views recorded before cutoff.
func (s *Store) CleanupVisitors(ctx context.Context, cutoff time.Time) (int64, error) {
	ts := cutoff.UTC().Format(timeLayout)
	result, err := s.db.ExecContext(ctx, `DELETE FROM visitors WHERE timestamp < ?`, ts)
	if err != nil {
		return 0, err
	}
	n, _ := result.RowsAffected()
	if _, err := s.db.ExecContext(ctx, `DELETE FROM project_views WHERE timestamp < ?`, ts); err != nil {
		return n, err
	}
	return n, nil
}
