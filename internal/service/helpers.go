package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/emree-sen/idea-box-app/internal/domain"
)

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// ExportFileName maps a project title to its export file name.
func ExportFileName(title string) string {
	return unsafeFileChars.ReplaceAllString(title, "_") + "_template.txt"
}

// matchPrefix returns the single project whose id equals or starts with
// prefix. An exact match wins over prefix matches.
func matchPrefix(list []domain.Project, prefix string) (*domain.Project, error) {
	var hits []int
	for i := range list {
		if list[i].ID == prefix {
			return &list[i], nil
		}
		if strings.HasPrefix(list[i].ID, prefix) {
			hits = append(hits, i)
		}
	}
	switch len(hits) {
	case 0:
		return nil, nil
	case 1:
		return &list[hits[0]], nil
	default:
		ids := make([]string, len(hits))
		for j, i := range hits {
			ids[j] = list[i].DisplayID()
		}
		return nil, fmt.Errorf("%w: %q (%s)", ErrAmbiguousID, prefix, strings.Join(ids, ", "))
	}
}
