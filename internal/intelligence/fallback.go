package intelligence

import (
	"fmt"
	"strings"

	"github.com/emree-sen/idea-box-app/internal/domain"
)

// FallbackMessage accompanies a locally built template.
const FallbackMessage = "Your template is ready!"

// FallbackTemplate builds a deterministic template from the idea alone. It
// is used when the model cannot be reached or keeps answering with text
// that does not decode.
func FallbackTemplate(idea string) domain.Template {
	idea = strings.TrimSpace(idea)
	return domain.Template{
		Title:       "Mobile App",
		Description: idea,
		Category:    "Mobile App",
		FullTemplate: fmt.Sprintf(
			"# %s\n\n## Description\n%s\n\n## Features\n- Core feature\n- User management\n\n## Technology\n- React Native\n- Firebase",
			idea, idea),
	}
}
