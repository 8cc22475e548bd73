package models

import "time"

// TrackRequest is the body of POST /api/user/track-time. Pointer fields
// distinguish a missing value from a zero value.
type TrackRequest struct {
	Page     *string  `json:"page"`
	Path     *string  `json:"path"`
	Duration *float64 `json:"duration"`
}

// TrackingRecord is one flushed dwell-time sample. Records are append-only;
// several records for the same user and page are summed, never merged.
type TrackingRecord struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	Page            string    `json:"page"`
	Path            string    `json:"path"`
	DurationSeconds int64     `json:"duration"`
	RecordedAt      time.Time `json:"date"`
}

// CourseInfo is what the course catalog knows about one course.
type CourseInfo struct {
	Title        string
	ThumbnailURL string
	Chapters     map[string]string // chapterID -> chapter title
}
