package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"skillrise/api/models"
)

// CourseStore reads course and chapter titles from the PostgreSQL catalog.
// It never writes; courses are managed elsewhere.
type CourseStore struct {
	db *sql.DB
}

// NewCourseStore creates a new CourseStore instance.
func NewCourseStore(db *sql.DB) *CourseStore {
	return &CourseStore{db: db}
}

// LookupCourses fetches every requested course and its chapters in two
// queries. Unknown IDs are simply absent from the result.
func (s *CourseStore) LookupCourses(ctx context.Context, courseIDs []string) (map[string]models.CourseInfo, error) {
	result := make(map[string]models.CourseInfo, len(courseIDs))
	if len(courseIDs) == 0 {
		return result, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, COALESCE(thumbnail_url, '')
		FROM courses
		WHERE id = ANY($1);
	`, pq.Array(courseIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		info := models.CourseInfo{Chapters: map[string]string{}}
		if err := rows.Scan(&id, &info.Title, &info.ThumbnailURL); err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		result[id] = info
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course rows: %w", err)
	}

	chRows, err := s.db.QueryContext(ctx, `
		SELECT course_id, chapter_id, chapter_title
		FROM course_chapters
		WHERE course_id = ANY($1);
	`, pq.Array(courseIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query course chapters: %w", err)
	}
	defer chRows.Close()

	for chRows.Next() {
		var courseID, chapterID, title string
		if err := chRows.Scan(&courseID, &chapterID, &title); err != nil {
			return nil, fmt.Errorf("failed to scan course chapter: %w", err)
		}
		if info, ok := result[courseID]; ok {
			info.Chapters[chapterID] = title
		}
	}
	if err := chRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course chapter rows: %w", err)
	}

	return result, nil
}
