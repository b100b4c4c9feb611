package formatter

import (
	"strings"

	"github.com/emree-sen/idea-box-app/internal/domain"
)

// ChatMessage renders one transcript entry with a speaker label.
// Prediction summaries are rendered as markdown.
func ChatMessage(m domain.Message, color bool) string {
	switch {
	case m.IsUser:
		return StyleBlue.Bold(true).Render("You") + "\n" + indent(m.Text)
	case m.IsPrediction:
		return StylePurple.Bold(true).Render("Prediction") + "\n" + RenderMarkdown(m.Text, color)
	default:
		return StyleGreen.Bold(true).Render("Ideabox") + "\n" + indent(m.Text)
	}
}

// FormatTranscript renders a whole conversation.
func FormatTranscript(msgs []domain.Message, color bool) string {
	parts := make([]string, len(msgs))
	for i, m := range msgs {
		parts[i] = ChatMessage(m, color)
	}
	return strings.Join(parts, "\n\n")
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = "  " + l
		}
	}
	return strings.Join(lines, "\n")
}
