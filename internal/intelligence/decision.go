package intelligence

import (
	"fmt"
	"strings"

	"github.com/emree-sen/idea-box-app/internal/domain"
	"github.com/emree-sen/idea-box-app/internal/llm"
)

// Decision is the outcome of one model turn: either another question for
// the user or a finished template. The set of implementations is closed.
type Decision interface {
	// Text is the message to show the user for this turn.
	Text() string
	isDecision()
}

// Question asks the user for more detail.
type Question struct {
	Message string
}

func (q Question) Text() string { return q.Message }
func (Question) isDecision()    {}

// TemplateReady carries a completed template.
type TemplateReady struct {
	Message  string
	Template domain.Template
}

func (r TemplateReady) Text() string { return r.Message }
func (TemplateReady) isDecision()    {}

// decisionPayload is the JSON object the model is asked to emit.
type decisionPayload struct {
	IsComplete *bool            `json:"isComplete"`
	Message    string           `json:"message"`
	Template   *domain.Template `json:"template"`
}

// ParseDecision decodes a raw model reply. It never fails: anything that is
// not a well-formed decision object becomes a Question carrying the trimmed
// reply text.
func ParseDecision(raw string) Decision {
	trimmed := strings.TrimSpace(raw)

	p, err := llm.ExtractJSON[decisionPayload](trimmed, validateDecisionPayload)
	if err != nil {
		return Question{Message: trimmed}
	}
	if *p.IsComplete {
		return TemplateReady{Message: p.Message, Template: *p.Template}
	}
	return Question{Message: p.Message}
}

func validateDecisionPayload(p decisionPayload) error {
	if p.IsComplete == nil {
		return fmt.Errorf("isComplete field is required")
	}
	if *p.IsComplete {
		if p.Template == nil {
			return fmt.Errorf("template is required when isComplete is true")
		}
		return nil
	}
	if strings.TrimSpace(p.Message) == "" {
		return fmt.Errorf("message is required when isComplete is false")
	}
	return nil
}
