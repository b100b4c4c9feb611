package intelligence

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/emree-sen/idea-box-app/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readyJSON(t *testing.T, tmpl domain.Template) string {
	t.Helper()
	data, err := json.Marshal(map[string]any{
		"isComplete": true,
		"message":    "Your template is ready!",
		"template":   tmpl,
	})
	require.NoError(t, err)
	return string(data)
}

func sampleTemplate() domain.Template {
	return domain.Template{
		Title:        "Plant Pal",
		Description:  "Reminds you to water plants",
		Category:     "Tools",
		FullTemplate: "# Plant Pal\n\n## To-Do List\n- [ ] Setup",
	}
}

func TestParseDecision_TemplateReadyRegardlessOfWrapping(t *testing.T) {
	body := readyJSON(t, sampleTemplate())
	wrappings := map[string]string{
		"bare":          body,
		"fenced":        "```json\n" + body + "\n```",
		"bare fence":    "```\n" + body + "\n```",
		"leading prose": "Sure, here it is: " + body,
		"both sides":    "Here:\n" + body + "\nLet me know if you need changes.",
		"padded":        "\n\n   " + body + "   \n",
	}
	for name, raw := range wrappings {
		t.Run(name, func(t *testing.T) {
			d := ParseDecision(raw)
			ready, ok := d.(TemplateReady)
			require.True(t, ok, "expected TemplateReady, got %T", d)
			assert.Equal(t, sampleTemplate(), ready.Template)
			assert.Equal(t, "Your template is ready!", ready.Text())
		})
	}
}

func TestParseDecision_Question(t *testing.T) {
	d := ParseDecision(`{"isComplete":false,"message":"Who is the target audience?"}`)
	q, ok := d.(Question)
	require.True(t, ok)
	assert.Equal(t, "Who is the target audience?", q.Message)
}

func TestParseDecision_QuestionInsideProse(t *testing.T) {
	d := ParseDecision("Thinking...\n```json\n{\"isComplete\": false, \"message\": \"iOS or Android?\"}\n```")
	assert.Equal(t, Question{Message: "iOS or Android?"}, d)
}

func TestParseDecision_NonJSONFallsBackToTrimmedText(t *testing.T) {
	cases := []string{
		"  What platforms should it support?  ",
		"",
		"{",
		"}{",
		"{not json at all}",
		"[1,2,3]",
		"null",
	}
	for _, raw := range cases {
		assert.NotPanics(t, func() {
			d := ParseDecision(raw)
			q, ok := d.(Question)
			require.True(t, ok, "input %q", raw)
			assert.Equal(t, strings.TrimSpace(raw), q.Message)
		})
	}
}

func TestParseDecision_CompleteWithoutTemplateIsFailure(t *testing.T) {
	raw := `{"isComplete":true,"message":"done"}`
	assert.Equal(t, Question{Message: raw}, ParseDecision(raw))
}

func TestParseDecision_MissingFlagIsFailure(t *testing.T) {
	raw := `{"message":"hello"}`
	assert.Equal(t, Question{Message: raw}, ParseDecision(raw))
}

func TestParseDecision_IncompleteWithoutMessageIsFailure(t *testing.T) {
	raw := `{"isComplete":false}`
	assert.Equal(t, Question{Message: raw}, ParseDecision(raw))
}

func TestParseDecision_FencedExampleWithProse(t *testing.T) {
	raw := "Here you go:\n```json\n{\"isComplete\":true,\"message\":\"ok\",\"template\":{\"title\":\"X\",\"description\":\"Y\",\"category\":\"TOOLS\",\"fullTemplate\":\"# X\"}}\n```\nEnjoy!"

	d := ParseDecision(raw)
	ready, ok := d.(TemplateReady)
	require.True(t, ok)
	assert.Equal(t, "ok", ready.Message)
	assert.Equal(t, domain.Template{Title: "X", Description: "Y", Category: "TOOLS", FullTemplate: "# X"}, ready.Template)
}

func TestParseDecision_OuterSpanSwallowsTrailingBrace(t *testing.T) {
	// Prose after the object containing '}' breaks the outermost span.
	raw := `{"isComplete":false,"message":"hi"} thanks :}`
	assert.Equal(t, Question{Message: raw}, ParseDecision(raw))
}
