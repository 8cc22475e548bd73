// Package routes maps navigation paths to tracked page names and extracts
// course and chapter identifiers from player and quiz paths.
package routes

import "strings"

const (
	PlayerPrefix = "/player/"
	QuizPrefix   = "/quiz/"
)

// PrefixRule classifies every path that starts with Prefix as Page.
type PrefixRule struct {
	Prefix string `toml:"prefix"`
	Page   string `toml:"page"`
}

// Table is the allow-list of tracked routes. Exact matches win over prefix
// rules; prefix rules are tried in order.
type Table struct {
	Exact    map[string]string `toml:"exact"`
	Prefixes []PrefixRule      `toml:"prefix"`
}

// DefaultTable returns the routes tracked when no config file overrides them.
func DefaultTable() Table {
	return Table{
		Exact: map[string]string{
			"/community":      "Community",
			"/roadmap":        "Roadmap",
			"/ai-chat":        "SkillRise AI",
			"/my-enrollments": "My Enrollments",
		},
		Prefixes: []PrefixRule{
			{Prefix: PlayerPrefix, Page: "Learning"},
			{Prefix: QuizPrefix, Page: "Quiz"},
			{Prefix: "/community/", Page: "Community"},
		},
	}
}

// Classify returns the page name for path, or "" when the path is not tracked.
func (t Table) Classify(path string) string {
	if page, ok := t.Exact[path]; ok {
		return page
	}
	for _, rule := range t.Prefixes {
		if rule.Prefix != "" && strings.HasPrefix(path, rule.Prefix) {
			return rule.Page
		}
	}
	return ""
}

// PlayerCourse extracts the course ID from a /player/:courseId path.
func PlayerCourse(path string) (courseID string, ok bool) {
	if !strings.HasPrefix(path, PlayerPrefix) {
		return "", false
	}
	parts := strings.Split(path, "/")
	if len(parts) < 3 || parts[2] == "" {
		return "", false
	}
	return parts[2], true
}

// QuizChapter extracts the course and chapter IDs from a
// /quiz/:courseId/:chapterId path.
func QuizChapter(path string) (courseID, chapterID string, ok bool) {
	if !strings.HasPrefix(path, QuizPrefix) {
		return "", "", false
	}
	parts := strings.Split(path, "/")
	if len(parts) < 4 || parts[2] == "" || parts[3] == "" {
		return "", "", false
	}
	return parts[2], parts[3], true
}
