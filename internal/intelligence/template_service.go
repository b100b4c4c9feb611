package intelligence

import (
	"context"
	"fmt"
	"strings"

	"github.com/emree-sen/idea-box-app/internal/domain"
	"github.com/emree-sen/idea-box-app/internal/llm"
)

// TemplateService turns an idea and its conversation into model decisions.
// Errors are returned only when the model could not be reached; a reply
// that does not decode is reported as a Question.
type TemplateService interface {
	// FirstQuestion sends the idea alone.
	FirstQuestion(ctx context.Context, idea string) (Decision, error)

	// ProcessResponse sends the idea together with the full history,
	// including the newest user message.
	ProcessResponse(ctx context.Context, idea string, history []domain.Message) (Decision, error)
}

type templateService struct {
	client llm.LLMClient
}

// NewTemplateService creates a TemplateService backed by an LLM client.
func NewTemplateService(client llm.LLMClient) TemplateService {
	return &templateService{client: client}
}

func (s *templateService) FirstQuestion(ctx context.Context, idea string) (Decision, error) {
	return s.ask(ctx, llm.TaskFirstQuestion, firstQuestionPrompt(strings.TrimSpace(idea)))
}

func (s *templateService) ProcessResponse(ctx context.Context, idea string, history []domain.Message) (Decision, error) {
	return s.ask(ctx, llm.TaskProcessResponse, processResponsePrompt(strings.TrimSpace(idea), history))
}

func (s *templateService) ask(ctx context.Context, task llm.TaskType, prompt string) (Decision, error) {
	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:       task,
		UserPrompt: prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("llm %s failed: %w", task, err)
	}
	return ParseDecision(resp.Text), nil
}
