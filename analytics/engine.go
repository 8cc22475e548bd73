// Package analytics turns a user's tracking records into the dashboard
// summary. Nothing is cached; every call reads the records again.
package analytics

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"skillrise/api/models"
	"skillrise/api/routes"
)

const (
	dailyWindowDays = 7
	dateLayout      = "2006-01-02"

	UnknownCourse  = "Unknown Course"
	UnknownChapter = "Unknown Chapter"
)

type RecordSource interface {
	RecordsForUser(ctx context.Context, userID string) ([]models.TrackingRecord, error)
}

type Catalog interface {
	LookupCourses(ctx context.Context, courseIDs []string) (map[string]models.CourseInfo, error)
}

// Engine computes AnalyticsSummary values. It holds no per-user state and
// is safe for concurrent use.
type Engine struct {
	records  RecordSource
	catalog  Catalog
	excluded map[string]struct{}
	loc      *time.Location
	now      func() time.Time
}

// NewEngine builds an engine. catalog may be nil, in which case every course
// and chapter title is a placeholder. loc is the calendar used for the daily
// series; nil means the server's local zone.
func NewEngine(records RecordSource, catalog Catalog, excludedPages []string, loc *time.Location) *Engine {
	if loc == nil {
		loc = time.Local
	}
	excluded := make(map[string]struct{}, len(excludedPages))
	for _, p := range excludedPages {
		excluded[p] = struct{}{}
	}
	return &Engine{
		records:  records,
		catalog:  catalog,
		excluded: excluded,
		loc:      loc,
		now:      time.Now,
	}
}

// Summarize reads every record for userID and aggregates them. It only fails
// when the records themselves cannot be read.
func (e *Engine) Summarize(ctx context.Context, userID string) (*models.AnalyticsSummary, error) {
	records, err := e.records.RecordsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tracking records for %s: %w", userID, err)
	}

	active := make([]models.TrackingRecord, 0, len(records))
	for _, r := range records {
		if _, skip := e.excluded[r.Page]; !skip {
			active = append(active, r)
		}
	}

	summary := &models.AnalyticsSummary{
		TotalSessions:   len(active),
		PageStats:       pageStats(active),
		DailyStats:      e.dailyStats(active),
		CourseBreakdown: e.courseBreakdown(ctx, records),
	}
	for _, r := range active {
		summary.TotalDurationSeconds += r.DurationSeconds
	}
	return summary, nil
}

// pageStats groups by page. The reported path is the first one seen, which
// is the most recent because records arrive newest first.
func pageStats(records []models.TrackingRecord) []models.PageStat {
	index := map[string]int{}
	stats := []models.PageStat{}
	for _, r := range records {
		i, ok := index[r.Page]
		if !ok {
			i = len(stats)
			index[r.Page] = i
			stats = append(stats, models.PageStat{Page: r.Page, Path: r.Path})
		}
		stats[i].TotalDurationSeconds += r.DurationSeconds
		stats[i].Visits++
	}
	sort.SliceStable(stats, func(a, b int) bool {
		return stats[a].TotalDurationSeconds > stats[b].TotalDurationSeconds
	})
	return stats
}

// dailyStats always returns seven consecutive days ending today. Records
// outside the window are ignored.
func (e *Engine) dailyStats(records []models.TrackingRecord) []models.DailyStat {
	today := e.now().In(e.loc)
	days := make([]models.DailyStat, dailyWindowDays)
	slot := make(map[string]int, dailyWindowDays)
	for i := 0; i < dailyWindowDays; i++ {
		d := time.Date(today.Year(), today.Month(), today.Day()-(dailyWindowDays-1-i), 0, 0, 0, 0, e.loc)
		key := d.Format(dateLayout)
		days[i] = models.DailyStat{Date: key}
		slot[key] = i
	}

	for _, r := range records {
		if i, ok := slot[r.RecordedAt.In(e.loc).Format(dateLayout)]; ok {
			days[i].DurationSeconds += r.DurationSeconds
		}
	}
	return days
}

type courseTotals struct {
	learningDuration int64
	learningSessions int
	chapters         map[string]*models.ChapterStat
	chapterOrder     []string
}

// courseBreakdown works on all records, excluded pages included, because
// course and chapter come from the path shape rather than the page name.
func (e *Engine) courseBreakdown(ctx context.Context, records []models.TrackingRecord) []models.CourseBreakdown {
	byCourse := map[string]*courseTotals{}
	var order []string
	course := func(id string) *courseTotals {
		c, ok := byCourse[id]
		if !ok {
			c = &courseTotals{chapters: map[string]*models.ChapterStat{}}
			byCourse[id] = c
			order = append(order, id)
		}
		return c
	}

	for _, r := range records {
		if courseID, ok := routes.PlayerCourse(r.Path); ok {
			c := course(courseID)
			c.learningDuration += r.DurationSeconds
			c.learningSessions++
			continue
		}
		if courseID, chapterID, ok := routes.QuizChapter(r.Path); ok {
			c := course(courseID)
			ch, ok := c.chapters[chapterID]
			if !ok {
				ch = &models.ChapterStat{ChapterID: chapterID}
				c.chapters[chapterID] = ch
				c.chapterOrder = append(c.chapterOrder, chapterID)
			}
			ch.QuizDurationSeconds += r.DurationSeconds
			ch.QuizSessionCount++
		}
	}

	catalog := e.lookupCourses(ctx, order)

	breakdown := make([]models.CourseBreakdown, 0, len(order))
	for _, id := range order {
		totals := byCourse[id]
		info, known := catalog[id]

		entry := models.CourseBreakdown{
			CourseID:                id,
			CourseTitle:             UnknownCourse,
			LearningDurationSeconds: totals.learningDuration,
			LearningSessionCount:    totals.learningSessions,
			Chapters:                make([]models.ChapterStat, 0, len(totals.chapterOrder)),
		}
		if known {
			if info.Title != "" {
				entry.CourseTitle = info.Title
			}
			if info.ThumbnailURL != "" {
				thumb := info.ThumbnailURL
				entry.CourseThumbnail = &thumb
			}
		}

		for _, chapterID := range totals.chapterOrder {
			ch := *totals.chapters[chapterID]
			ch.ChapterTitle = UnknownChapter
			if title := info.Chapters[chapterID]; title != "" {
				ch.ChapterTitle = title
			}
			entry.TotalQuizDurationSeconds += ch.QuizDurationSeconds
			entry.Chapters = append(entry.Chapters, ch)
		}
		sort.SliceStable(entry.Chapters, func(a, b int) bool {
			return entry.Chapters[a].QuizDurationSeconds > entry.Chapters[b].QuizDurationSeconds
		})

		breakdown = append(breakdown, entry)
	}

	sort.SliceStable(breakdown, func(a, b int) bool {
		return breakdown[a].CombinedDuration() > breakdown[b].CombinedDuration()
	})
	return breakdown
}

// lookupCourses degrades to an empty result when the catalog is missing or
// failing; titles then fall back to placeholders.
func (e *Engine) lookupCourses(ctx context.Context, courseIDs []string) map[string]models.CourseInfo {
	if e.catalog == nil || len(courseIDs) == 0 {
		return nil
	}
	info, err := e.catalog.LookupCourses(ctx, courseIDs)
	if err != nil {
		log.Printf("ERROR: course catalog lookup failed, using placeholder titles: %v", err)
		return nil
	}
	return info
}
