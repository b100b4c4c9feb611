package domain

import "strings"

// Template is the structured result of an idea conversation. Only
// FullTemplate is user-editable after creation.
type Template struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	FullTemplate string `json:"fullTemplate"`
}

// IsZero reports whether no field carries content.
func (t Template) IsZero() bool {
	return strings.TrimSpace(t.Title) == "" &&
		strings.TrimSpace(t.Description) == "" &&
		strings.TrimSpace(t.Category) == "" &&
		strings.TrimSpace(t.FullTemplate) == ""
}
