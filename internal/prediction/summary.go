package prediction

import (
	"strings"

	"github.com/emree-sen/idea-box-app/internal/domain"
	"github.com/tidwall/gjson"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// UnavailableNotice is shown when the prediction call failed.
const UnavailableNotice = "Success prediction is unavailable, but your template is ready!"

var numbers = message.NewPrinter(language.English)

// Summary renders a successful prediction as a markdown chat message.
func Summary(r domain.PredictionResult) string {
	if !r.Success || len(r.Prediction) == 0 {
		return "No prediction data found."
	}

	var b strings.Builder
	b.WriteString("**Success Prediction**\n\n")

	if a := r.AppData; a != nil {
		b.WriteString("**App info:**\n")
		numbers.Fprintf(&b, "- Name: %s\n", a.AppName)
		numbers.Fprintf(&b, "- Category: %s\n", a.Category)
		numbers.Fprintf(&b, "- Size: %s\n", a.Size)
		numbers.Fprintf(&b, "- Type: %s\n\n", a.AppType)
	}

	b.WriteString("**Forecast:**\n")
	if !hasInstalls(r) {
		b.WriteString("- Result: unrecognized response format")
		return b.String()
	}

	e := r.Estimate()
	numbers.Fprintf(&b, "- Expected installs: %d\n", e.Installs)
	numbers.Fprintf(&b, "- Expected rating: %.1f/5.0\n", e.Rating)
	numbers.Fprintf(&b, "- Expected reviews: %d\n\n", e.Reviews)

	if e.SuccessCategory != "" {
		numbers.Fprintf(&b, "**Assessment:**\n%s\n\n", e.SuccessCategory)
	}

	switch {
	case e.Rating >= 4.0:
		b.WriteString("**Advice:** Excellent! A high rating is expected. This idea is worth pursuing.")
	case e.Rating >= 3.5:
		b.WriteString("**Advice:** A good start. Improving the user experience can lift the rating.")
	default:
		b.WriteString("**Advice:** Careful! The expected rating is low. Consider revisiting the idea.")
	}

	switch {
	case e.Installs > 10000:
		b.WriteString("\n\n**Popularity:** High install forecast, there is strong demand in this niche.")
	case e.Installs > 5000:
		b.WriteString("\n\n**Popularity:** Medium install forecast, good marketing can grow it.")
	default:
		b.WriteString("\n\n**Popularity:** Low install forecast, this may be a niche market or need a marketing plan.")
	}

	return b.String()
}

func hasInstalls(r domain.PredictionResult) bool {
	return gjson.GetBytes(r.Prediction, "prediction.installs").Exists() ||
		gjson.GetBytes(r.Prediction, "installs").Exists()
}
