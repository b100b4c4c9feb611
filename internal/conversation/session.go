package conversation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/emree-sen/idea-box-app/internal/domain"
	"github.com/emree-sen/idea-box-app/internal/intelligence"
	"github.com/emree-sen/idea-box-app/internal/prediction"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Enricher attaches a success prediction to a finished template.
type Enricher interface {
	Enrich(ctx context.Context, t domain.Template) domain.PredictionResult
}

// Listener receives every appended message in append order. It is invoked
// without the session lock held, so it may call back into the session.
type Listener func(domain.Message)

// Session drives one idea from first submission to a finished template.
// At most one model call is in flight at a time; submissions made while a
// call is pending are dropped.
type Session struct {
	svc      intelligence.TemplateService
	enricher Enricher
	delay    time.Duration
	listener Listener
	now      func() time.Time
	newID    func() string
	log      zerolog.Logger

	mu         sync.Mutex
	state      State
	inFlight   bool
	idea       string
	messages   []domain.Message
	template   *domain.Template
	edited     *string
	prediction *domain.PredictionResult
	predDone   chan struct{}
}

// Option customizes a Session.
type Option func(*Session)

// WithFirstReplyDelay waits d before the first model call.
func WithFirstReplyDelay(d time.Duration) Option {
	return func(s *Session) { s.delay = d }
}

// WithListener registers a message listener.
func WithListener(l Listener) Option {
	return func(s *Session) { s.listener = l }
}

// WithEnricher enables prediction enrichment on completion.
func WithEnricher(e Enricher) Option {
	return func(s *Session) { s.enricher = e }
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Session) { s.newID = newID }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// NewSession creates a session in StateInit.
func NewSession(svc intelligence.TemplateService, opts ...Option) *Session {
	s := &Session{
		svc:   svc,
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return uuid.New().String() },
		log:   zerolog.Nop(),
		state: StateInit,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With().Str("component", "conversation").Logger()
	return s
}

// SubmitIdea starts the conversation and blocks until the first model
// turn has been handled. Cancelling ctx during the first-reply delay
// abandons the session and returns ctx.Err().
func (s *Session) SubmitIdea(ctx context.Context, idea string) error {
	idea = strings.TrimSpace(idea)

	s.mu.Lock()
	if s.state != StateInit {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	if idea == "" {
		s.mu.Unlock()
		return ErrEmptyInput
	}
	s.idea = idea
	s.inFlight = true
	welcome := s.appendLocked(fmt.Sprintf(welcomeFormat, idea), false, false)
	s.transitionLocked(StateAwaitingFirstReply)
	s.mu.Unlock()
	s.emit(welcome)

	if s.delay > 0 {
		t := time.NewTimer(s.delay)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			s.release()
			return ctx.Err()
		}
	}

	d, err := s.svc.FirstQuestion(ctx, idea)
	if err != nil {
		s.log.Warn().Err(err).Msg("first question failed, building template from idea")
		d = s.recoverFirstReply(ctx)
		if d == nil {
			s.finishFailed(creationFailedMessage)
			return nil
		}
	}
	s.apply(ctx, d)
	return nil
}

// recoverFirstReply acknowledges the idea and asks the model for a
// template directly. A reply that does not decode is replaced by the local
// fallback template. It returns nil when the model is still unreachable.
func (s *Session) recoverFirstReply(ctx context.Context) intelligence.Decision {
	s.mu.Lock()
	ack := s.appendLocked(fallbackAckMessage, false, false)
	history := s.snapshotLocked()
	s.mu.Unlock()
	s.emit(ack)

	d, err := s.svc.ProcessResponse(ctx, s.idea, history)
	if err != nil {
		s.log.Warn().Err(err).Msg("template creation failed")
		return nil
	}
	if _, ok := d.(intelligence.TemplateReady); ok {
		return d
	}
	return intelligence.TemplateReady{
		Message:  intelligence.FallbackMessage,
		Template: intelligence.FallbackTemplate(s.idea),
	}
}

// SubmitReply forwards a user answer. Blank text and submissions while a
// call is pending are ignored and report false. A transport failure is
// turned into a chat message and the session waits for input again.
func (s *Session) SubmitReply(ctx context.Context, text string) (bool, error) {
	text = strings.TrimSpace(text)

	s.mu.Lock()
	if text == "" || s.inFlight {
		s.mu.Unlock()
		return false, nil
	}
	if s.state != StateAwaitingUserInput {
		state := s.state
		s.mu.Unlock()
		return false, fmt.Errorf("%w (state %s)", ErrNotAwaitingInput, state)
	}
	s.inFlight = true
	user := s.appendLocked(text, true, false)
	s.transitionLocked(StateAwaitingModelReply)
	history := s.snapshotLocked()
	idea := s.idea
	s.mu.Unlock()
	s.emit(user)

	d, err := s.svc.ProcessResponse(ctx, idea, history)
	if err != nil {
		s.log.Warn().Err(err).Msg("reply processing failed")
		s.finishFailed(replyFailedMessage)
		return true, nil
	}
	s.apply(ctx, d)
	return true, nil
}

// apply records a decision. The in-flight flag is cleared only after the
// resulting messages have been delivered, so listeners never see a later
// user message ahead of them.
func (s *Session) apply(ctx context.Context, d intelligence.Decision) {
	s.mu.Lock()
	var out []domain.Message
	var ready *domain.Template
	switch v := d.(type) {
	case intelligence.TemplateReady:
		tmpl := v.Template
		s.template = &tmpl
		ready = &tmpl
		text := v.Message
		if strings.TrimSpace(text) == "" {
			text = defaultReadyMessage
		}
		out = append(out, s.appendLocked(text, false, false))
		s.transitionLocked(StateComplete)
		out = append(out, s.appendLocked(completeMessage, false, false))
		s.predDone = make(chan struct{})
	case intelligence.Question:
		text := v.Message
		if strings.TrimSpace(text) == "" {
			text = emptyReplyMessage
		}
		out = append(out, s.appendLocked(text, false, false))
		s.transitionLocked(StateAwaitingUserInput)
	}
	s.mu.Unlock()

	s.emit(out...)
	s.release()
	if ready != nil {
		s.startEnrichment(ctx, *ready)
	}
}

func (s *Session) finishFailed(text string) {
	s.mu.Lock()
	m := s.appendLocked(text, false, false)
	s.transitionLocked(StateAwaitingUserInput)
	s.mu.Unlock()
	s.emit(m)
	s.release()
}

func (s *Session) release() {
	s.mu.Lock()
	s.inFlight = false
	s.mu.Unlock()
}

// startEnrichment runs the prediction call in the background with a
// context that outlives the caller's.
func (s *Session) startEnrichment(ctx context.Context, tmpl domain.Template) {
	s.mu.Lock()
	done := s.predDone
	s.mu.Unlock()

	if s.enricher == nil {
		close(done)
		return
	}

	bg := context.WithoutCancel(ctx)
	go func() {
		defer close(done)
		res := s.enricher.Enrich(bg, tmpl)

		text := prediction.UnavailableNotice
		isPrediction := false
		if res.Success {
			text = prediction.Summary(res)
			isPrediction = true
		}

		s.mu.Lock()
		s.prediction = &res
		m := s.appendLocked(text, false, isPrediction)
		s.mu.Unlock()

		s.log.Debug().Bool("success", res.Success).Msg("prediction attached")
		s.emit(m)
	}()
}

// EditTemplate replaces the editable template text.
func (s *Session) EditTemplate(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateComplete {
		return ErrNotComplete
	}
	s.edited = &text
	return nil
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Busy reports whether a model call is pending.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// Idea returns the submitted idea.
func (s *Session) Idea() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idea
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Template returns the finished template, or false before completion.
func (s *Session) Template() (domain.Template, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.template == nil {
		return domain.Template{}, false
	}
	return *s.template, true
}

// TemplateText returns the edited text when present, else the model's
// fullTemplate.
func (s *Session) TemplateText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.templateTextLocked()
}

func (s *Session) templateTextLocked() string {
	if s.edited != nil {
		return *s.edited
	}
	if s.template != nil {
		return s.template.FullTemplate
	}
	return ""
}

// Prediction returns the enrichment result once it has arrived.
func (s *Session) Prediction() *domain.PredictionResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.prediction == nil {
		return nil
	}
	p := *s.prediction
	return &p
}

// AwaitPrediction blocks until enrichment has finished or ctx is done. It
// returns nil when enrichment is disabled.
func (s *Session) AwaitPrediction(ctx context.Context) (*domain.PredictionResult, error) {
	s.mu.Lock()
	done := s.predDone
	s.mu.Unlock()
	if done == nil {
		return nil, ErrNotComplete
	}
	select {
	case <-done:
		return s.Prediction(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Project derives the record to persist from the finished conversation.
func (s *Session) Project() (domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateComplete || s.template == nil {
		return domain.Project{}, ErrNotComplete
	}

	t := *s.template
	p := domain.Project{
		ID:                  s.newID(),
		Title:               firstNonEmpty(t.Title, DefaultProjectTitle),
		Description:         firstNonEmpty(t.Description, s.idea),
		Template:            firstNonEmpty(s.templateTextLocked(), MissingTemplateText),
		Category:            firstNonEmpty(t.Category, DefaultProjectCategory),
		CreatedAt:           s.now(),
		OriginalIdea:        s.idea,
		ConversationHistory: s.snapshotLocked(),
	}
	if s.prediction != nil {
		pred := *s.prediction
		p.EfficiencyPrediction = &pred
		p.Stats = domain.StatsFromPrediction(&pred)
	}
	return p, nil
}

func (s *Session) appendLocked(text string, isUser, isPrediction bool) domain.Message {
	m := domain.Message{
		ID:           s.newID(),
		Text:         text,
		IsUser:       isUser,
		Timestamp:    s.now(),
		IsPrediction: isPrediction,
	}
	s.messages = append(s.messages, m)
	return m
}

func (s *Session) snapshotLocked() []domain.Message {
	out := make([]domain.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Session) transitionLocked(next State) {
	s.log.Debug().Str("from", s.state.String()).Str("to", next.String()).Msg("state transition")
	s.state = next
}

func (s *Session) emit(msgs ...domain.Message) {
	if s.listener == nil {
		return
	}
	for _, m := range msgs {
		s.listener(m)
	}
}

func firstNonEmpty(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
