package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"skillrise/api/models"
)

// SQLiteStore keeps tracking records in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tracking_records (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			page TEXT NOT NULL,
			path TEXT NOT NULL,
			duration INTEGER NOT NULL,
			recorded_at_ms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tracking_records_user ON tracking_records(user_id, recorded_at_ms);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate tracking store: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) InsertRecord(ctx context.Context, record models.TrackingRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tracking_records (id, user_id, page, path, duration, recorded_at_ms)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.UserID,
		record.Page,
		record.Path,
		record.DurationSeconds,
		record.RecordedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert tracking record: %w", err)
	}
	return nil
}

func (s *SQLiteStore) RecordsForUser(ctx context.Context, userID string) ([]models.TrackingRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, page, path, duration, recorded_at_ms
		 FROM tracking_records
		 WHERE user_id = ?
		 ORDER BY recorded_at_ms DESC, rowid DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracking records: %w", err)
	}
	defer rows.Close()

	var results []models.TrackingRecord
	for rows.Next() {
		var (
			r  models.TrackingRecord
			ms int64
		)
		if err := rows.Scan(&r.ID, &r.UserID, &r.Page, &r.Path, &r.DurationSeconds, &ms); err != nil {
			return nil, fmt.Errorf("failed to scan tracking record: %w", err)
		}
		r.RecordedAt = time.UnixMilli(ms)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tracking record rows: %w", err)
	}
	return results, nil
}
