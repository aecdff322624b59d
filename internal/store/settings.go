package store

import (
	"context"
	"time"

	"github.com/NjCayao/misistema-sub002/internal/model"
)

const upsertSetting = `
INSERT INTO settings (key, value, grp, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, grp = excluded.grp, updated_at = excluded.updated_at`

// UpsertSetting writes a setting value, creating the key when absent.
func (q *Queries) UpsertSetting(ctx context.Context, key, value, group string, updatedAt time.Time) error {
	_, err := q.db.ExecContext(ctx, upsertSetting, key, value, group, updatedAt)
	return err
}

const getSetting = `SELECT key, value, grp, updated_at FROM settings WHERE key = ?`

// GetSetting fetches a single setting.
func (q *Queries) GetSetting(ctx context.Context, key string) (model.Setting, error) {
	var s model.Setting
	err := q.db.QueryRowContext(ctx, getSetting, key).Scan(&s.Key, &s.Value, &s.Group, &s.UpdatedAt)
	return s, err
}

const listSettingsByGroup = `SELECT key, value, grp, updated_at FROM settings WHERE grp = ? ORDER BY key ASC`

// ListSettingsByGroup returns all settings of a group ordered by key.
func (q *Queries) ListSettingsByGroup(ctx context.Context, group string) ([]model.Setting, error) {
	rows, err := q.db.QueryContext(ctx, listSettingsByGroup, group)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []model.Setting
	for rows.Next() {
		var s model.Setting
		if err := rows.Scan(&s.Key, &s.Value, &s.Group, &s.UpdatedAt); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}
