package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sprintforge/sprintforge/pkg/models"
)

// SQLite persists the collections in a single SQLite database. Save replaces
// every row inside one transaction, which keeps the whole-collection
// contract: the database always holds exactly the last snapshot.
type SQLite struct {
	conn *sql.DB
	path string
}

// OpenSQLite opens (or creates) the database at path and applies pending
// schema migrations. WAL mode is enabled for concurrent reads.
func OpenSQLite(path string) (*SQLite, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	db := &SQLite{conn: conn, path: path}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection.
func (db *SQLite) Close() error {
	return db.conn.Close()
}

// Path returns the path to the database file.
func (db *SQLite) Path() string {
	return db.path
}

// migrate applies all pending schema migrations.
func (db *SQLite) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	var currentVersion int
	row := db.conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("get schema version: %w", err)
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migrationV1Users},
		{2, migrationV2Tasks},
		{3, migrationV3Sprints},
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}

		tx, err := db.conn.Begin()
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return fmt.Errorf("apply migration v%d: %w", m.version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration v%d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration v%d: %w", m.version, err)
		}
	}
	return nil
}

const migrationV1Users = `
CREATE TABLE IF NOT EXISTS users (
	username TEXT PRIMARY KEY,
	password TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'User',
	position INTEGER NOT NULL DEFAULT 0
);
`

const migrationV2Tasks = `
CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	type TEXT NOT NULL,
	description TEXT,
	priority TEXT NOT NULL,
	story_point INTEGER NOT NULL,
	stage TEXT NOT NULL,
	tags TEXT NOT NULL DEFAULT '[]',
	assign_to TEXT,
	sprint_id INTEGER,
	status TEXT NOT NULL DEFAULT 'Not Started',
	history TEXT NOT NULL DEFAULT '[]',
	contributions TEXT NOT NULL DEFAULT '[]',
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_sprint_id ON tasks(sprint_id);
CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
`

const migrationV3Sprints = `
CREATE TABLE IF NOT EXISTS sprints (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	start_date DATETIME NOT NULL,
	end_date DATETIME NOT NULL,
	duration INTEGER NOT NULL DEFAULT 0,
	product_owner TEXT NOT NULL,
	scrum_master TEXT NOT NULL,
	developers TEXT NOT NULL DEFAULT '[]',
	status TEXT NOT NULL DEFAULT 'Inactive',
	backlog_returned INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sprints_status ON sprints(status);
`

// Load reads all three collections.
func (db *SQLite) Load() (*Collections, error) {
	cols := &Collections{}

	rows, err := db.conn.Query("SELECT username, password, role FROM users ORDER BY position, username")
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.Username, &u.Password, &u.Role); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan user: %w", err)
		}
		cols.Users = append(cols.Users, u)
	}
	if err := rows.Close(); err != nil {
		return nil, fmt.Errorf("close user rows: %w", err)
	}

	if cols.Tasks, err = db.loadTasks(); err != nil {
		return nil, err
	}
	if cols.Sprints, err = db.loadSprints(); err != nil {
		return nil, err
	}
	return cols, nil
}

func (db *SQLite) loadTasks() ([]models.Task, error) {
	rows, err := db.conn.Query(`
		SELECT id, name, type, description, priority, story_point, stage,
		       tags, assign_to, sprint_id, status, history, contributions, created_at
		FROM tasks ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		var tags, history, contributions, createdAt string
		var sprintID sql.NullInt64
		err := rows.Scan(&t.ID, &t.Name, &t.Type, &t.Description, &t.Priority,
			&t.StoryPoint, &t.Stage, &tags, &t.AssignTo, &sprintID,
			&t.Status, &history, &contributions, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		if err := json.Unmarshal([]byte(tags), &t.Tags); err != nil {
			return nil, fmt.Errorf("decode tags for task %d: %w", t.ID, err)
		}
		if err := json.Unmarshal([]byte(history), &t.History); err != nil {
			return nil, fmt.Errorf("decode history for task %d: %w", t.ID, err)
		}
		if err := json.Unmarshal([]byte(contributions), &t.Contributions); err != nil {
			return nil, fmt.Errorf("decode contributions for task %d: %w", t.ID, err)
		}
		if sprintID.Valid {
			id := int(sprintID.Int64)
			t.SprintID = &id
		}
		if t.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at for task %d: %w", t.ID, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (db *SQLite) loadSprints() ([]models.Sprint, error) {
	rows, err := db.conn.Query(`
		SELECT id, name, start_date, end_date, duration, product_owner,
		       scrum_master, developers, status, backlog_returned, created_at
		FROM sprints ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("load sprints: %w", err)
	}
	defer rows.Close()

	var sprints []models.Sprint
	for rows.Next() {
		var s models.Sprint
		var startDate, endDate, createdAt, developers string
		err := rows.Scan(&s.ID, &s.Name, &startDate, &endDate, &s.Duration,
			&s.ProductOwner, &s.ScrumMaster, &developers, &s.Status,
			&s.BacklogReturned, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("scan sprint: %w", err)
		}
		if err := json.Unmarshal([]byte(developers), &s.Developers); err != nil {
			return nil, fmt.Errorf("decode developers for sprint %d: %w", s.ID, err)
		}
		if s.StartDate, err = parseTime(startDate); err != nil {
			return nil, fmt.Errorf("parse start_date for sprint %d: %w", s.ID, err)
		}
		if s.EndDate, err = parseTime(endDate); err != nil {
			return nil, fmt.Errorf("parse end_date for sprint %d: %w", s.ID, err)
		}
		if s.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at for sprint %d: %w", s.ID, err)
		}
		sprints = append(sprints, s)
	}
	return sprints, rows.Err()
}

// Save replaces all rows with the given collections in one transaction.
func (db *SQLite) Save(cols *Collections) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := saveAll(tx, cols); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func saveAll(tx *sql.Tx, cols *Collections) error {
	for _, table := range []string{"users", "tasks", "sprints"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for i, u := range cols.Users {
		_, err := tx.Exec(
			"INSERT INTO users (username, password, role, position) VALUES (?, ?, ?, ?)",
			u.Username, u.Password, string(u.Role), i)
		if err != nil {
			return fmt.Errorf("insert user %s: %w", u.Username, err)
		}
	}

	for i := range cols.Tasks {
		t := &cols.Tasks[i]
		tags, err := json.Marshal(t.Tags)
		if err != nil {
			return fmt.Errorf("encode tags for task %d: %w", t.ID, err)
		}
		history, err := json.Marshal(t.History)
		if err != nil {
			return fmt.Errorf("encode history for task %d: %w", t.ID, err)
		}
		contributions, err := json.Marshal(t.Contributions)
		if err != nil {
			return fmt.Errorf("encode contributions for task %d: %w", t.ID, err)
		}
		var sprintID any
		if t.SprintID != nil {
			sprintID = *t.SprintID
		}
		_, err = tx.Exec(`
			INSERT INTO tasks (id, name, type, description, priority, story_point,
				stage, tags, assign_to, sprint_id, status, history, contributions, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, t.ID, t.Name, string(t.Type), t.Description, string(t.Priority),
			t.StoryPoint, string(t.Stage), string(tags), t.AssignTo, sprintID,
			string(t.Status), string(history), string(contributions),
			formatTime(t.CreatedAt))
		if err != nil {
			return fmt.Errorf("insert task %d: %w", t.ID, err)
		}
	}

	for i := range cols.Sprints {
		s := &cols.Sprints[i]
		developers, err := json.Marshal(s.Developers)
		if err != nil {
			return fmt.Errorf("encode developers for sprint %d: %w", s.ID, err)
		}
		_, err = tx.Exec(`
			INSERT INTO sprints (id, name, start_date, end_date, duration,
				product_owner, scrum_master, developers, status, backlog_returned, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, s.ID, s.Name, formatTime(s.StartDate), formatTime(s.EndDate),
			s.Duration, s.ProductOwner, s.ScrumMaster, string(developers),
			string(s.Status), s.BacklogReturned, formatTime(s.CreatedAt))
		if err != nil {
			return fmt.Errorf("insert sprint %d: %w", s.ID, err)
		}
	}
	return nil
}

// formatTime formats a time.Time for SQLite storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// parseTime parses a time string from SQLite.
func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
