// Package store persists tracking records and looks up course metadata.
package store

import (
	"context"

	"skillrise/api/models"
)

// RecordStore is the append-only home of tracking records.
type RecordStore interface {
	EnsureSchema(ctx context.Context) error
	InsertRecord(ctx context.Context, record models.TrackingRecord) error
	// RecordsForUser returns every record for userID, newest first.
	RecordsForUser(ctx context.Context, userID string) ([]models.TrackingRecord, error)
}

// CourseCatalog resolves course and chapter titles for the dashboard.
type CourseCatalog interface {
	LookupCourses(ctx context.Context, courseIDs []string) (map[string]models.CourseInfo, error)
}
