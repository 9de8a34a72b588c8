package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"taskdash/internal/model"
)

const uiStateKey = "ui"

// UIState stores small, user-facing state for restoring the last screen on
// relaunch. Intentionally best effort: callers should tolerate missing or
// invalid data.
type UIState struct {
	Version int `json:"version"`

	SelectedUserID int          `json:"selectedUserId,omitempty"`
	Filter         model.Filter `json:"filter,omitempty"`

	// Variant is the task rendering variant: "grid" or "list".
	Variant string `json:"variant,omitempty"`
}

func (c *Cache) LoadUIState(ctx context.Context) (*UIState, error) {
	var doc string
	err := c.db.QueryRowContext(ctx, "SELECT v FROM ui_state WHERE k = ?", uiStateKey).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return &UIState{Version: 1}, nil
	}
	if err != nil {
		return nil, err
	}
	var st UIState
	if err := json.Unmarshal([]byte(doc), &st); err != nil {
		// Corrupted: treat as missing.
		return &UIState{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return &st, nil
}

func (c *Cache) SaveUIState(ctx context.Context, st *UIState) error {
	if st == nil {
		return nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	doc, err := json.Marshal(st)
	if err != nil {
		return err
	}
	_, err = c.db.ExecContext(ctx,
		"INSERT INTO ui_state (k, v) VALUES (?, ?) ON CONFLICT(k) DO UPDATE SET v = excluded.v",
		uiStateKey, string(doc))
	return err
}
