package prediction

import (
	"strings"

	"github.com/emree-sen/idea-box-app/internal/domain"
)

// Fixed request fields; every app is sent as a free app rated for everyone.
const (
	AppTypeFree     = "Free"
	RatingEveryone  = "Everyone"
	DefaultCategory = "TOOLS"
	DefaultAppName  = "New App"
)

type keyword struct {
	word     string
	category string
}

// categoryKeywords is scanned in order; the first substring hit wins.
var categoryKeywords = []keyword{
	{"oyun", "GAME"},
	{"game", "GAME"},
	{"eğitim", "EDUCATION"},
	{"education", "EDUCATION"},
	{"eglence", "ENTERTAINMENT"},
	{"entertainment", "ENTERTAINMENT"},
	{"iş", "BUSINESS"},
	{"business", "BUSINESS"},
	{"sağlık", "MEDICAL"},
	{"health", "MEDICAL"},
	{"medical", "MEDICAL"},
	{"sosyal", "SOCIAL"},
	{"social", "SOCIAL"},
	{"alışveriş", "SHOPPING"},
	{"shopping", "SHOPPING"},
	{"finans", "FINANCE"},
	{"finance", "FINANCE"},
	{"araç", "TOOLS"},
	{"tools", "TOOLS"},
	{"yardımcı", "TOOLS"},
	{"utility", "TOOLS"},
}

type sizeGroup struct {
	words []string
	size  string
}

// sizeGroups are checked in priority order.
var sizeGroups = []sizeGroup{
	{[]string{"video", "kamera", "camera", "audio", "sound", "mikrofon", "microphone"}, "50M"},
	{[]string{"veritabanı", "database", "firebase", "api"}, "35M"},
	{[]string{"oyun", "game", "animasyon", "animation"}, "40M"},
}

const defaultSize = "25M"

// Category maps the template's category (or its title when the category is
// empty) onto the prediction service's category set.
func Category(t domain.Template) string {
	text := t.Category
	if text == "" {
		text = t.Title
	}
	lower := strings.ToLower(text)
	for _, k := range categoryKeywords {
		if strings.Contains(lower, k.word) {
			return k.category
		}
	}
	return DefaultCategory
}

// EstimateSize guesses the install size from feature keywords in the
// template body, or the description when the body is empty.
func EstimateSize(t domain.Template) string {
	text := t.FullTemplate
	if text == "" {
		text = t.Description
	}
	lower := strings.ToLower(text)
	for _, g := range sizeGroups {
		for _, w := range g.words {
			if strings.Contains(lower, w) {
				return g.size
			}
		}
	}
	return defaultSize
}

// BuildRequest derives the prediction request body from a template. It is
// a pure function of the template text.
func BuildRequest(t domain.Template) domain.AppData {
	name := t.Title
	if name == "" {
		name = DefaultAppName
	}
	return domain.AppData{
		AppName:       name,
		Category:      Category(t),
		AppType:       AppTypeFree,
		Price:         0,
		ContentRating: RatingEveryone,
		Size:          EstimateSize(t),
	}
}
