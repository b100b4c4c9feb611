package domain

import "time"

// Message is one entry of a conversation transcript. Messages are appended
// in display order and never mutated afterwards.
type Message struct {
	ID           string    `json:"id"`
	Text         string    `json:"text"`
	IsUser       bool      `json:"isUser"`
	Timestamp    time.Time `json:"timestamp"`
	IsPrediction bool      `json:"isPrediction,omitempty"`
}

// Role returns the speaker label used when a transcript is replayed into a
// model prompt.
func (m Message) Role() string {
	if m.IsUser {
		return "User"
	}
	return "Assistant"
}
