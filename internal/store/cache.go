// Package store keeps a small local sqlite cache of the last good snapshot
// so the dashboard has something to show before the first fetch resolves or
// when the API is unreachable, plus the UI state needed to restore the last
// screen on relaunch.
//
// Everything here is best effort: the API stays the source of truth, the
// cache is never written back to the server, and a missing or corrupt cache
// must never block the dashboard.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"

	"taskdash/internal/model"

	_ "modernc.org/sqlite"
)

type Cache struct {
	db *sql.DB
}

// DefaultPath returns ~/.taskdash/cache.sqlite, creating the directory on
// demand.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".taskdash")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "cache.sqlite"), nil
}

func Open(ctx context.Context, path string) (*Cache, error) {
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	c := &Cache{db: db}
	if err := c.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) Close() error { return c.db.Close() }

func (c *Cache) migrate(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS users (
  id  INTEGER PRIMARY KEY,
  ord INTEGER NOT NULL,
  doc TEXT    NOT NULL
);
CREATE TABLE IF NOT EXISTS tasks (
  id  INTEGER PRIMARY KEY,
  ord INTEGER NOT NULL,
  doc TEXT    NOT NULL
);
CREATE TABLE IF NOT EXISTS ui_state (
  k TEXT PRIMARY KEY,
  v TEXT NOT NULL
);
`)
	return err
}

// SaveUsers replaces the cached user list. Rows keep the API's ordering via
// the ord column, since "first user" is position-sensitive.
func (c *Cache) SaveUsers(ctx context.Context, users []model.User) error {
	return c.replace(ctx, "users", len(users), func(i int) (int, any) {
		return users[i].ID, users[i]
	})
}

func (c *Cache) Users(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := c.scanDocs(ctx, "users", func(doc []byte) error {
		var u model.User
		if err := json.Unmarshal(doc, &u); err != nil {
			return err
		}
		users = append(users, u)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// SaveTasks replaces the cached task snapshot (the tasks for the last
// (selection, filter) pair that settled).
func (c *Cache) SaveTasks(ctx context.Context, tasks []model.Task) error {
	return c.replace(ctx, "tasks", len(tasks), func(i int) (int, any) {
		return tasks[i].ID, tasks[i]
	})
}

func (c *Cache) Tasks(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	err := c.scanDocs(ctx, "tasks", func(doc []byte) error {
		var t model.Task
		if err := json.Unmarshal(doc, &t); err != nil {
			return err
		}
		tasks = append(tasks, t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Cache) replace(ctx context.Context, table string, n int, row func(i int) (int, any)) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		id, v := row(i)
		doc, err := json.Marshal(v)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO "+table+" (id, ord, doc) VALUES (?, ?, ?)", id, i, string(doc)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (c *Cache) scanDocs(ctx context.Context, table string, each func(doc []byte) error) error {
	rows, err := c.db.QueryContext(ctx, "SELECT doc FROM "+table+" ORDER BY ord")
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return err
		}
		if err := each([]byte(doc)); err != nil {
			return err
		}
	}
	return rows.Err()
}
