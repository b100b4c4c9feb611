package formatter

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/emree-sen/idea-box-app/internal/domain"
	"github.com/stretchr/testify/assert"
)

var fixedNow = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func TestRenderTable_AlignsStyledCells(t *testing.T) {
	out := RenderTable(
		[]string{"ID", "TITLE"},
		[][]string{
			{StyleDim.Render("abc"), "Short"},
			{"abcdefgh", Bold("Longer title")},
		},
	)
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 4)

	// Widest first cell is 8 runes, plus the column gap.
	col := lipgloss.Width("abcdefgh") + colGap
	assert.Equal(t, col, strings.Index(lines[0], "TITLE"))
	assert.Equal(t, col, strings.Index(lines[2], "Short"))
	assert.Equal(t, col, strings.Index(lines[3], "Longer title"))

	assert.Empty(t, RenderTable(nil, nil))
}

func TestHumanTimestamp(t *testing.T) {
	assert.Equal(t, "Just now", HumanTimestamp(fixedNow.Add(-10*time.Second), fixedNow))
	assert.Equal(t, "5m ago", HumanTimestamp(fixedNow.Add(-5*time.Minute), fixedNow))
	assert.Equal(t, "3h ago", HumanTimestamp(fixedNow.Add(-3*time.Hour), fixedNow))
	assert.Equal(t, "Yesterday", HumanTimestamp(fixedNow.AddDate(0, 0, -1), fixedNow))
	assert.Equal(t, "Feb 1, 2026", HumanTimestamp(time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC), fixedNow))
	assert.Equal(t, "Today", HumanTimestamp(fixedNow.Add(time.Minute), fixedNow))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", Truncate("hello", 10))
	assert.Equal(t, "hel…", Truncate("hello world", 4))
	assert.Equal(t, "a b", Truncate("a\n  b", 10))
	assert.Equal(t, "çağ…", Truncate("çağrı merkezi", 4))
}

func TestRatingStyle(t *testing.T) {
	assert.Equal(t, StyleGreen.Render("x"), RatingStyle(4.2).Render("x"))
	assert.Equal(t, StyleYellow.Render("x"), RatingStyle(3.6).Render("x"))
	assert.Equal(t, StyleRed.Render("x"), RatingStyle(2.0).Render("x"))
	assert.Equal(t, StyleDim.Render("x"), RatingStyle(0).Render("x"))
}

func testProject() domain.Project {
	return domain.Project{
		ID:           "0123456789abcdef",
		Title:        "Trail Finder",
		Description:  "Finds hiking trails",
		Template:     "# Trail Finder\n\n## To-Do List\n- [ ] Offline maps",
		Category:     "Health",
		CreatedAt:    fixedNow.Add(-2 * time.Hour),
		OriginalIdea: "an app for hikers",
	}
}

func TestFormatProjectList(t *testing.T) {
	p := testProject()
	p.Stats = &domain.Stats{ExpectedRating: 4.3}
	q := testProject()
	q.ID = "ffff0000-1111"
	q.Title = "Recipe Box"
	q.Category = ""
	edited := fixedNow
	q.UpdatedAt = &edited

	out := FormatProjectList([]domain.Project{p, q}, fixedNow)

	assert.Contains(t, out, "PROJECTS (2)")
	assert.Contains(t, out, "01234567")
	assert.NotContains(t, out, "0123456789")
	assert.Contains(t, out, "Trail Finder")
	assert.Contains(t, out, "4.3")
	assert.Contains(t, out, "2h ago")
	assert.Contains(t, out, "(edited)")
	assert.Less(t, strings.Index(out, "Trail Finder"), strings.Index(out, "Recipe Box"))
}

func TestFormatProjectDetail(t *testing.T) {
	p := testProject()
	p.Stats = &domain.Stats{ExpectedInstalls: 125000, ExpectedRating: 4.1, ExpectedReviews: 3400, SuccessCategory: "High"}

	out := FormatProjectDetail(&p, fixedNow, false)

	assert.Contains(t, out, "Trail Finder")
	assert.Contains(t, out, "0123456789abcdef")
	assert.Contains(t, out, "an app for hikers")
	assert.Contains(t, out, "125,000")
	assert.Contains(t, out, "3,400")
	assert.Contains(t, out, "4.1/5.0")
	assert.Contains(t, out, "Offline maps")
	assert.Contains(t, out, "TEMPLATE")
}

func TestFormatProjectDetail_FailedPrediction(t *testing.T) {
	p := testProject()
	p.EfficiencyPrediction = &domain.PredictionResult{Success: false, Error: "timeout"}

	out := FormatProjectDetail(&p, fixedNow, false)
	assert.Contains(t, out, "unavailable")
}

func TestChatMessage(t *testing.T) {
	user := ChatMessage(domain.Message{Text: "for families", IsUser: true}, false)
	assert.True(t, strings.HasPrefix(user, "You\n"))
	assert.Contains(t, user, "  for families")

	bot := ChatMessage(domain.Message{Text: "Who is it for?\nPick one."}, false)
	assert.True(t, strings.HasPrefix(bot, "Ideabox\n"))
	assert.Contains(t, bot, "  Pick one.")

	pred := ChatMessage(domain.Message{Text: "**Forecast:**\n- Expected installs: 20,000", IsPrediction: true}, false)
	assert.True(t, strings.HasPrefix(pred, "Prediction\n"))
	assert.Contains(t, pred, "20,000")

	all := FormatTranscript([]domain.Message{{Text: "a", IsUser: true}, {Text: "b"}}, false)
	assert.Equal(t, "You\n  a\n\nIdeabox\n  b", all)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinner_StopClearsLine(t *testing.T) {
	var out syncBuffer
	stop := StartSpinner(&out, "Thinking")
	time.Sleep(250 * time.Millisecond)
	stop()
	stop()

	got := out.String()
	assert.Contains(t, got, "Thinking")
	assert.True(t, strings.HasSuffix(got, "\r\033[K"))
}
