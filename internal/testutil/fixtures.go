package testutil

import (
	"time"

	"github.com/emree-sen/idea-box-app/internal/domain"
	"github.com/google/uuid"
)

// ProjectOption customizes a fixture project.
type ProjectOption func(*domain.Project)

func WithTemplate(text string) ProjectOption {
	return func(p *domain.Project) {
		p.Template = text
	}
}

func WithCategory(c string) ProjectOption {
	return func(p *domain.Project) {
		p.Category = c
	}
}

func WithCreatedAt(t time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.CreatedAt = t
	}
}

func WithPrediction(r domain.PredictionResult) ProjectOption {
	return func(p *domain.Project) {
		p.EfficiencyPrediction = &r
		p.Stats = domain.StatsFromPrediction(&r)
	}
}

func WithHistory(msgs ...domain.Message) ProjectOption {
	return func(p *domain.Project) {
		p.ConversationHistory = msgs
	}
}

// NewTestProject builds a saved-shape project with a fresh id.
func NewTestProject(title string, opts ...ProjectOption) domain.Project {
	now := time.Now().UTC().Truncate(time.Second)
	p := domain.Project{
		ID:           uuid.New().String(),
		Title:        title,
		Description:  "Description of " + title,
		Template:     "# " + title + "\n\n## To-Do List\n- [ ] Setup",
		Category:     "General",
		CreatedAt:    now,
		OriginalIdea: "an app called " + title,
		ConversationHistory: []domain.Message{
			NewTestMessage("an app called "+title, true, now),
			NewTestMessage("Your template is ready!", false, now),
		},
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// NewTestMessage builds a transcript message with a fresh id.
func NewTestMessage(text string, isUser bool, at time.Time) domain.Message {
	return domain.Message{
		ID:        uuid.New().String(),
		Text:      text,
		IsUser:    isUser,
		Timestamp: at,
	}
}
