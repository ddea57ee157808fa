// SQLite persistence for the athlete's memory.
//
// Information Hiding:
// - SQLite connection management hidden behind Store
// - Schema and migration details encapsulated
// - Thread-safe via sql.DB's built-in connection pooling

package athlete

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Store persists the athlete profile, beliefs, and activities.
type Store struct {
	db *sql.DB
}

// OpenStore opens or creates a SQLite database at the given path.
// Creates parent directories if they don't exist.
func OpenStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	store := &Store{db: db}
	if err := store.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// OpenStoreInMemory creates an in-memory store (useful for testing).
func OpenStoreInMemory() (*Store, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory SQLite: %w", err)
	}

	store := &Store{db: db}
	if err := store.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS profile (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			data TEXT NOT NULL,
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS beliefs (
			id TEXT PRIMARY KEY,
			statement TEXT NOT NULL,
			category TEXT NOT NULL,
			confidence REAL NOT NULL,
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_beliefs_category
		ON beliefs(category, created_at DESC);

		CREATE TABLE IF NOT EXISTS activities (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			sport TEXT NOT NULL,
			start_time TEXT NOT NULL,
			duration_minutes REAL NOT NULL,
			distance_km REAL,
			avg_hr INTEGER,
			notes TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_activities_start
		ON activities(start_time DESC);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// LoadProfile reads the stored profile. Returns the zero Profile when
// none has been saved yet.
func (s *Store) LoadProfile() (Profile, error) {
	var data string
	err := s.db.QueryRow("SELECT data FROM profile WHERE id = 1").Scan(&data)
	if err == sql.ErrNoRows {
		return Profile{}, nil
	}
	if err != nil {
		return Profile{}, fmt.Errorf("failed to load profile: %w", err)
	}

	var profile Profile
	if err := json.Unmarshal([]byte(data), &profile); err != nil {
		return Profile{}, fmt.Errorf("failed to decode profile: %w", err)
	}
	return profile, nil
}

// SaveProfile writes the profile as the single stored row.
func (s *Store) SaveProfile(profile Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO profile (id, data, updated_at) VALUES (1, ?, datetime('now'))
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// GetMeta reads a metadata value. Returns empty string when unset.
func (s *Store) GetMeta(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM meta WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read meta %q: %w", key, err)
	}
	return value, nil
}

// SetMeta writes a metadata value.
func (s *Store) SetMeta(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write meta %q: %w", key, err)
	}
	return nil
}

// AddBelief stores a belief, assigning it a fresh id and timestamp.
func (s *Store) AddBelief(statement, category string, confidence float64) (Belief, error) {
	belief := Belief{
		ID:         uuid.New().String(),
		Statement:  statement,
		Category:   category,
		Confidence: confidence,
		CreatedAt:  time.Now().Format("2006-01-02T15:04:05"),
	}

	_, err := s.db.Exec(
		"INSERT INTO beliefs (id, statement, category, confidence, created_at) VALUES (?, ?, ?, ?, ?)",
		belief.ID, belief.Statement, belief.Category, belief.Confidence, belief.CreatedAt,
	)
	if err != nil {
		return Belief{}, fmt.Errorf("failed to store belief: %w", err)
	}
	return belief, nil
}

// ListBeliefs returns beliefs, newest first, optionally filtered by
// category. Empty category means all.
func (s *Store) ListBeliefs(category string) ([]Belief, error) {
	query := "SELECT id, statement, category, confidence, created_at FROM beliefs"
	var args []interface{}
	if category != "" {
		query += " WHERE category = ?"
		args = append(args, category)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list beliefs: %w", err)
	}
	defer rows.Close()

	var beliefs []Belief
	for rows.Next() {
		var b Belief
		if err := rows.Scan(&b.ID, &b.Statement, &b.Category, &b.Confidence, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan belief: %w", err)
		}
		beliefs = append(beliefs, b)
	}
	return beliefs, rows.Err()
}

// AddActivity appends one training session to the log.
func (s *Store) AddActivity(activity Activity) (int64, error) {
	if activity.StartTime == "" {
		activity.StartTime = time.Now().Format("2006-01-02T15:04:05")
	}

	result, err := s.db.Exec(
		"INSERT INTO activities (sport, start_time, duration_minutes, distance_km, avg_hr, notes) VALUES (?, ?, ?, ?, ?, ?)",
		activity.Sport, activity.StartTime, activity.DurationMinutes,
		nullFloat(activity.DistanceKM), nullInt(activity.AvgHR), nullString(activity.Notes),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to store activity: %w", err)
	}
	return result.LastInsertId()
}

// ListActivities returns activities, most recent first. Sport filters by
// exact sport when non-empty; days limits to the last N days when
// positive; limit caps the result when positive.
func (s *Store) ListActivities(limit int, sport string, days int) ([]Activity, error) {
	query := "SELECT id, sport, start_time, duration_minutes, COALESCE(distance_km, 0), COALESCE(avg_hr, 0), COALESCE(notes, '') FROM activities"
	var clauses []string
	var args []interface{}

	if sport != "" {
		clauses = append(clauses, "LOWER(sport) = LOWER(?)")
		args = append(args, sport)
	}
	if days > 0 {
		cutoff := time.Now().AddDate(0, 0, -days).Format("2006-01-02T15:04:05")
		clauses = append(clauses, "start_time > ?")
		args = append(args, cutoff)
	}
	for i, clause := range clauses {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}
	query += " ORDER BY start_time DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var activities []Activity
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.Sport, &a.StartTime, &a.DurationMinutes, &a.DistanceKM, &a.AvgHR, &a.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

func nullFloat(v float64) interface{} {
	if v == 0 {
		return nil
	}
	return v
}

func nullInt(v int) interface{} {
	if v == 0 {
		return nil
	}
	return v
}

func nullString(v string) interface{} {
	if v == "" {
		return nil
	}
	return v
}
