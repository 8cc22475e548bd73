package models

// AnalyticsSummary is computed from a user's tracking records on every read.
type AnalyticsSummary struct {
	TotalDurationSeconds int64             `json:"totalDuration"`
	TotalSessions        int               `json:"totalSessions"`
	PageStats            []PageStat        `json:"pageStats"`
	DailyStats           []DailyStat       `json:"dailyStats"`
	CourseBreakdown      []CourseBreakdown `json:"courseBreakdown"`
}

type PageStat struct {
	Page                 string `json:"page"`
	Path                 string `json:"path"`
	TotalDurationSeconds int64  `json:"totalDuration"`
	Visits               int    `json:"visits"`
}

// DailyStat is one calendar day; Date is formatted YYYY-MM-DD.
type DailyStat struct {
	Date            string `json:"date"`
	DurationSeconds int64  `json:"duration"`
}

type CourseBreakdown struct {
	CourseID                 string        `json:"courseId"`
	CourseTitle              string        `json:"courseTitle"`
	CourseThumbnail          *string       `json:"courseThumbnail"`
	LearningDurationSeconds  int64         `json:"learningDuration"`
	LearningSessionCount     int           `json:"learningSessions"`
	TotalQuizDurationSeconds int64         `json:"totalQuizDuration"`
	Chapters                 []ChapterStat `json:"chapters"`
}

type ChapterStat struct {
	ChapterID           string `json:"chapterId"`
	ChapterTitle        string `json:"chapterTitle"`
	QuizDurationSeconds int64  `json:"quizDuration"`
	QuizSessionCount    int    `json:"quizSessions"`
}

// CombinedDuration is learning plus quiz time, the course sort key.
func (c CourseBreakdown) CombinedDuration() int64 {
	return c.LearningDurationSeconds + c.TotalQuizDurationSeconds
}
