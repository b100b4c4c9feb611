package conversation

import "errors"

// State is a phase of template acquisition.
type State int

const (
	StateInit State = iota
	StateAwaitingFirstReply
	StateAwaitingUserInput
	StateAwaitingModelReply
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateAwaitingFirstReply:
		return "awaiting_first_reply"
	case StateAwaitingUserInput:
		return "awaiting_user_input"
	case StateAwaitingModelReply:
		return "awaiting_model_reply"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

var (
	// ErrEmptyInput is returned by SubmitIdea for a blank idea.
	ErrEmptyInput = errors.New("input is empty")

	// ErrAlreadyStarted is returned by SubmitIdea after the first call.
	ErrAlreadyStarted = errors.New("conversation already started")

	// ErrNotAwaitingInput is returned by SubmitReply when the session is
	// not waiting for the user (not started, or already complete).
	ErrNotAwaitingInput = errors.New("conversation is not awaiting input")

	// ErrNotComplete is returned by operations that need a finished template.
	ErrNotComplete = errors.New("template is not ready yet")
)

// Fixed system messages.
const (
	welcomeFormat = "Hi! I got your project idea: %q\n\n" +
		"I'll ask a few smart questions and quickly build a professional project template. " +
		"Minimum questions, maximum efficiency!"
	fallbackAckMessage = "Got it! Your idea is clear. Preparing your professional template right away..."
	creationFailedMessage = "Something went wrong while creating the template. Please try again."
	replyFailedMessage    = "Sorry, an error occurred. Please try again."
	completeMessage       = "Great! Your project template is ready. You can view it, edit it and save your project."
	defaultReadyMessage   = "Your template is ready!"
	emptyReplyMessage     = "I didn't get an answer from the model. Please try again."
)

// Defaults applied when a saved project lacks template fields.
const (
	DefaultProjectTitle    = "New Project"
	DefaultProjectCategory = "General"
	MissingTemplateText    = "Template could not be created"
)
