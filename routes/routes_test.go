package routes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	table := DefaultTable()
	tests := []struct {
		name string
		path string
		want string
	}{
		{"exact community", "/community", "Community"},
		{"community thread", "/community/posts/42", "Community"},
		{"exact roadmap", "/roadmap", "Roadmap"},
		{"ai chat", "/ai-chat", "SkillRise AI"},
		{"enrollments", "/my-enrollments", "My Enrollments"},
		{"player", "/player/C1", "Learning"},
		{"quiz", "/quiz/C1/CH1", "Quiz"},
		{"home untracked", "/", ""},
		{"course list untracked", "/course-list", ""},
		{"player root untracked", "/player", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, table.Classify(tt.path))
		})
	}
}

func TestClassify_ExactBeatsPrefix(t *testing.T) {
	table := Table{
		Exact:    map[string]string{"/player/intro": "Intro"},
		Prefixes: []PrefixRule{{Prefix: "/player/", Page: "Learning"}},
	}
	assert.Equal(t, "Intro", table.Classify("/player/intro"))
	assert.Equal(t, "Learning", table.Classify("/player/C9"))
}

func TestPlayerCourse(t *testing.T) {
	id, ok := PlayerCourse("/player/C1")
	assert.True(t, ok)
	assert.Equal(t, "C1", id)

	_, ok = PlayerCourse("/player/")
	assert.False(t, ok)

	_, ok = PlayerCourse("/quiz/C1/CH1")
	assert.False(t, ok)
}

func TestQuizChapter(t *testing.T) {
	course, chapter, ok := QuizChapter("/quiz/C1/CH1")
	assert.True(t, ok)
	assert.Equal(t, "C1", course)
	assert.Equal(t, "CH1", chapter)

	_, _, ok = QuizChapter("/quiz/C1")
	assert.False(t, ok)

	_, _, ok = QuizChapter("/quiz/C1/")
	assert.False(t, ok)
}
