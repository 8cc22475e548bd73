package store

import (
	"context"
	"fmt"

	"skillrise/api/database"
	"skillrise/api/models"
)

// TrackingStore keeps tracking records in ClickHouse.
type TrackingStore struct {
	DB *database.ClickHouseClient
}

func NewTrackingStore(chClient *database.ClickHouseClient) *TrackingStore {
	return &TrackingStore{
		DB: chClient,
	}
}

func (s *TrackingStore) EnsureSchema(ctx context.Context) error {
	err := s.DB.Conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS tracking_records (
			id String,
			user_id String,
			page String,
			path String,
			duration Int64,
			recorded_at DateTime64(3)
		) ENGINE = MergeTree
		ORDER BY (user_id, recorded_at)
	`)
	if err != nil {
		return fmt.Errorf("failed to create tracking_records table: %w", err)
	}
	return nil
}

func (s *TrackingStore) InsertRecord(ctx context.Context, record models.TrackingRecord) error {
	batch, err := s.DB.Conn.PrepareBatch(ctx, `
		INSERT INTO tracking_records (id, user_id, page, path, duration, recorded_at)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare batch insert: %w", err)
	}

	if err := batch.Append(
		record.ID,
		record.UserID,
		record.Page,
		record.Path,
		record.DurationSeconds,
		record.RecordedAt,
	); err != nil {
		return fmt.Errorf("failed to append tracking record %s: %w", record.ID, err)
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}
	return nil
}

func (s *TrackingStore) RecordsForUser(ctx context.Context, userID string) ([]models.TrackingRecord, error) {
	rows, err := s.DB.Conn.Query(ctx, `
		SELECT id, user_id, page, path, duration, recorded_at
		FROM tracking_records
		WHERE user_id = ?
		ORDER BY recorded_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracking records: %w", err)
	}
	defer rows.Close()

	var results []models.TrackingRecord
	for rows.Next() {
		var r models.TrackingRecord
		if err := rows.Scan(&r.ID, &r.UserID, &r.Page, &r.Path, &r.DurationSeconds, &r.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tracking record row: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tracking record rows: %w", err)
	}
	return results, nil
}
