package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/emree-sen/idea-box-app/internal/domain"
)

// nowUTC returns the current UTC time formatted as RFC3339.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func decodeProjects(raw string) ([]domain.Project, error) {
	if raw == "" {
		return []domain.Project{}, nil
	}
	var list []domain.Project
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, fmt.Errorf("decoding project list: %w", err)
	}
	if list == nil {
		list = []domain.Project{}
	}
	return list, nil
}

func encodeProjects(list []domain.Project) (string, error) {
	data, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("encoding project list: %w", err)
	}
	return string(data), nil
}
