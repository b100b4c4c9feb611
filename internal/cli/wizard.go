package cli

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/emree-sen/idea-box-app/internal/cli/formatter"
	"github.com/spf13/cobra"
)

// errAborted is returned when the user leaves a form with Esc or Ctrl+C.
var errAborted = errors.New("aborted")

func ideaboxHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func themedForm(fields ...huh.Field) *huh.Form {
	return huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(ideaboxHuhTheme()).
		WithShowHelp(false)
}

func validateNotBlank(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("please type something")
	}
	return nil
}

// wizardIdea asks for the app idea.
func wizardIdea(result *string) *huh.Form {
	return themedForm(
		huh.NewText().
			Title("What's your app idea?").
			Description("A sentence or two is enough.").
			Placeholder("An app that ...").
			Lines(4).
			Value(result).
			Validate(validateNotBlank),
	)
}

// wizardReply asks for an answer to the model's last question.
func wizardReply(result *string) *huh.Form {
	return themedForm(
		huh.NewInput().
			Title("Your answer").
			Value(result).
			Validate(validateNotBlank),
	)
}

// wizardTemplateEditor opens the template text for editing.
func wizardTemplateEditor(result *string) *huh.Form {
	return themedForm(
		huh.NewText().
			Title("Edit template").
			Description("Ctrl+J for a new line, Enter to finish.").
			CharLimit(0).
			Lines(20).
			Value(result),
	)
}

// wizardConfirm creates a huh form for a yes/no confirmation.
func wizardConfirm(title string, result *bool) *huh.Form {
	return themedForm(
		huh.NewConfirm().
			Title(title).
			Affirmative("Yes").
			Negative("No").
			Value(result),
	)
}

// runForm runs f on the command's streams and maps a user abort to
// errAborted.
func runForm(cmd *cobra.Command, f *huh.Form) error {
	err := f.WithProgramOptions(
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return errAborted
	}
	return err
}

// confirm asks a yes/no question with a form in a terminal and a plain
// prompt otherwise.
func confirm(cmd *cobra.Command, app *App, title string) (bool, error) {
	if !app.interactive() {
		return promptYesNoIO(cmd.InOrStdin(), cmd.OutOrStdout(), title+" [y/N]: "), nil
	}
	var ok bool
	if err := runForm(cmd, wizardConfirm(title, &ok)); err != nil {
		if errors.Is(err, errAborted) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}
