package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/emree-sen/idea-box-app/internal/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var numbers = message.NewPrinter(language.English)

// FormatProjectList renders saved projects, newest first, inside a box.
func FormatProjectList(projects []domain.Project, now time.Time) string {
	headers := []string{"ID", "TITLE", "CATEGORY", "CREATED", "RATING"}
	rows := make([][]string, 0, len(projects))

	for i := range projects {
		p := &projects[i]
		id := p.DisplayID()
		if id == "" {
			id = "--"
		}
		rating := Dim("--")
		if p.Stats != nil {
			rating = RatingStyle(p.Stats.ExpectedRating).Render(fmt.Sprintf("%.1f", p.Stats.ExpectedRating))
		}
		created := HumanTimestamp(p.CreatedAt, now)
		if p.UpdatedAt != nil {
			created += Dim(" (edited)")
		}
		rows = append(rows, []string{
			Dim(id),
			Bold(Truncate(p.Title, 40)),
			CategoryBadge(p.Category),
			created,
			rating,
		})
	}

	return RenderBox(fmt.Sprintf("Projects (%d)", len(projects)), RenderTable(headers, rows))
}

// FormatProjectDetail renders the metadata card, prediction stats and the
// markdown template of one project.
func FormatProjectDetail(p *domain.Project, now time.Time, color bool) string {
	var meta strings.Builder
	meta.WriteString(StyleBold.Render(p.Title) + "\n")
	meta.WriteString(CategoryBadge(p.Category) + "\n\n")
	fmt.Fprintf(&meta, "%s  %s\n", StyleDim.Render("ID     "), p.ID)
	fmt.Fprintf(&meta, "%s  %s\n", StyleDim.Render("CREATED"), HumanDate(p.CreatedAt, now))
	if p.UpdatedAt != nil {
		fmt.Fprintf(&meta, "%s  %s\n", StyleDim.Render("EDITED "), HumanTimestamp(*p.UpdatedAt, now))
	}
	if p.Description != "" {
		fmt.Fprintf(&meta, "\n%s\n", StyleFg.Render(p.Description))
	}
	if p.OriginalIdea != "" && p.OriginalIdea != p.Description {
		fmt.Fprintf(&meta, "\n%s %s\n", StyleDim.Render("Idea:"), Truncate(p.OriginalIdea, 120))
	}

	sections := []string{RenderBox("", strings.TrimRight(meta.String(), "\n"))}
	if s := formatStats(p); s != "" {
		sections = append(sections, s)
	}
	sections = append(sections, Header("Template"), RenderMarkdown(p.Template, color))
	return strings.Join(sections, "\n\n")
}

func formatStats(p *domain.Project) string {
	if p.Stats == nil {
		if p.EfficiencyPrediction != nil && !p.EfficiencyPrediction.Success {
			return Header("Success Prediction") + "\n" + Dim("Prediction was unavailable for this project.")
		}
		return ""
	}
	s := p.Stats
	rows := [][]string{
		{"Expected installs", numbers.Sprintf("%d", s.ExpectedInstalls)},
		{"Expected rating", RatingStyle(s.ExpectedRating).Render(fmt.Sprintf("%.1f/5.0", s.ExpectedRating))},
		{"Expected reviews", numbers.Sprintf("%d", s.ExpectedReviews)},
		{"Assessment", s.SuccessCategory},
	}
	var b strings.Builder
	b.WriteString(Header("Success Prediction"))
	for _, r := range rows {
		fmt.Fprintf(&b, "\n%s  %s", StyleDim.Render(fmt.Sprintf("%-17s", r[0])), r[1])
	}
	return b.String()
}
