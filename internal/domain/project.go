package domain

import "time"

type Project struct {
	ID                   string            `json:"id"`
	Title                string            `json:"title"`
	Description          string            `json:"description"`
	Template             string            `json:"template"`
	Category             string            `json:"category"`
	CreatedAt            time.Time         `json:"createdAt"`
	OriginalIdea         string            `json:"originalIdea"`
	ConversationHistory  []Message         `json:"conversationHistory"`
	EfficiencyPrediction *PredictionResult `json:"efficiencyPrediction,omitempty"`
	Stats                *Stats            `json:"stats,omitempty"`
	UpdatedAt            *time.Time        `json:"updatedAt,omitempty"`
}

// DisplayID returns the first 8 characters of the id for list views.
func (p *Project) DisplayID() string {
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}

// LastModified returns UpdatedAt when set, otherwise CreatedAt.
func (p *Project) LastModified() time.Time {
	if p.UpdatedAt != nil {
		return *p.UpdatedAt
	}
	return p.CreatedAt
}
