package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/emree-sen/idea-box-app/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved projects, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(projects) == 0 {
				fmt.Fprintln(out, "No saved projects yet. Start one with: ideabox new")
				return nil
			}

			fmt.Fprintln(out, formatter.FormatProjectList(projects, app.now()))
			return nil
		},
	}
}

func newShowCmd(app *App) *cobra.Command {
	var raw, history bool

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show a project with its prediction and template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Projects.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if raw {
				fmt.Fprintln(out, p.Template)
				return nil
			}

			fmt.Fprintln(out, formatter.FormatProjectDetail(p, app.now(), app.Color))
			if history && len(p.ConversationHistory) > 0 {
				fmt.Fprintf(out, "\n%s\n\n%s\n", formatter.Header("Conversation"),
					formatter.FormatTranscript(p.ConversationHistory, app.Color))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print only the template text")
	cmd.Flags().BoolVar(&history, "history", false, "Include the conversation transcript")
	return cmd
}

func newEditCmd(app *App) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Replace a project's template text",
		Long: "Replace a project's template text from a file (--file, '-' for stdin)\n" +
			"or, in a terminal, with the built-in editor.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}

			var text string
			switch {
			case file == "-":
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				text = string(data)
			case file != "":
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("reading %s: %w", file, err)
				}
				text = string(data)
			case app.interactive():
				text = p.Template
				if err := runForm(cmd, wizardTemplateEditor(&text)); err != nil {
					if errors.Is(err, errAborted) {
						fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Edit cancelled."))
						return nil
					}
					return err
				}
			default:
				return fmt.Errorf("--file is required when not running in a terminal")
			}

			if text == p.Template {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Template unchanged."))
				return nil
			}
			if err := app.Projects.UpdateTemplate(ctx, p.ID, text); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated template of %s\n", formatter.Bold(p.Title))
			return nil
		},
	}

	addTemplateFileFlag(cmd.Flags(), &file)
	return cmd
}

func newDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a saved project",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}

			if !yes {
				ok, err := confirm(cmd, app, fmt.Sprintf("Delete %q?", p.Title))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}

			if err := app.Projects.Delete(ctx, p.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", formatter.Bold(p.Title))
			return nil
		},
	}

	addYesFlag(cmd.Flags(), &yes)
	return cmd
}

func newClearCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all saved projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !yes {
				ok, err := confirm(cmd, app, "Delete ALL saved projects? This cannot be undone.")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}

			if err := app.Projects.ClearAll(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All projects deleted.")
			return nil
		},
	}

	addYesFlag(cmd.Flags(), &yes)
	return cmd
}

func newExportCmd(app *App) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "export ID",
		Short: "Write a project's template to a text file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}

			if dir == "" {
				dir = app.ExportDir
			}
			path, err := app.Projects.Export(ctx, p.ID, dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", formatter.Bold(p.Title), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Directory to write into (default from config)")
	return cmd
}
