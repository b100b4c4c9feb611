package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/emree-sen/idea-box-app/internal/cli/formatter"
	"github.com/emree-sen/idea-box-app/internal/conversation"
	"github.com/emree-sen/idea-box-app/internal/domain"
	"github.com/spf13/cobra"
)

// errConversationEnded is returned when input runs out before a template
// is ready.
var errConversationEnded = errors.New("conversation ended before the template was ready")

// chatPrinter writes transcript messages as they are appended. In a
// terminal it animates a spinner while the model is working.
type chatPrinter struct {
	mu       sync.Mutex
	out      io.Writer
	color    bool
	animate  bool
	session  *conversation.Session
	stopSpin func()
	closed   bool
}

func (p *chatPrinter) print(m domain.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.stopLocked()
	fmt.Fprintf(p.out, "%s\n\n", formatter.ChatMessage(m, p.color))

	if !p.animate || p.session == nil {
		return
	}
	switch p.session.State() {
	case conversation.StateAwaitingFirstReply, conversation.StateAwaitingModelReply:
		p.stopSpin = formatter.StartSpinner(p.out, "Thinking...")
	}
}

func (p *chatPrinter) spin(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	if p.animate {
		p.stopSpin = formatter.StartSpinner(p.out, message)
	}
}

func (p *chatPrinter) stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

// close drops messages that arrive after the command has finished.
func (p *chatPrinter) close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	p.closed = true
}

func (p *chatPrinter) stopLocked() {
	if p.stopSpin != nil {
		p.stopSpin()
		p.stopSpin = nil
	}
}

func newNewCmd(app *App) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "new [idea...]",
		Short: "Turn an idea into a project template through a short conversation",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.NewSession == nil {
				return fmt.Errorf("conversation is not configured")
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			idea := strings.TrimSpace(strings.Join(args, " "))
			if idea == "" {
				var err error
				if idea, err = askIdea(cmd, app); err != nil {
					return err
				}
			}
			if idea == "" {
				return fmt.Errorf("an idea is required")
			}

			printer := &chatPrinter{out: out, color: app.Color, animate: app.interactive()}
			sess, err := app.NewSession(conversation.WithListener(printer.print))
			if err != nil {
				return err
			}
			printer.session = sess
			defer printer.close()

			if err := runConversation(ctx, cmd, app, sess, idea); err != nil {
				return err
			}

			printer.spin("Estimating success...")
			err = awaitPrediction(ctx, sess, app.predictionWait())
			printer.stop()
			if errors.Is(err, errPredictionPending) {
				fmt.Fprintln(out, formatter.Dim("Success prediction is still running, continuing without it."))
			} else if err != nil {
				return err
			}

			fmt.Fprintf(out, "%s\n\n%s\n\n", formatter.Header("Template"),
				formatter.RenderMarkdown(sess.TemplateText(), app.Color))

			return offerSave(ctx, cmd, app, sess, save)
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "Save the project without asking")
	return cmd
}

var errPredictionPending = errors.New("prediction still pending")

// awaitPrediction waits at most d for enrichment. It reports
// errPredictionPending when d runs out while ctx is still live.
func awaitPrediction(ctx context.Context, sess *conversation.Session, d time.Duration) error {
	waitCtx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	_, err := sess.AwaitPrediction(waitCtx)
	if err != nil && ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
		return errPredictionPending
	}
	return err
}

// runConversation submits the idea and keeps answering questions until
// the template is ready.
func runConversation(ctx context.Context, cmd *cobra.Command, app *App, sess *conversation.Session, idea string) error {
	if err := sess.SubmitIdea(ctx, idea); err != nil {
		return err
	}
	for sess.State() != conversation.StateComplete {
		reply, err := askReply(cmd, app)
		if errors.Is(err, io.EOF) || errors.Is(err, errAborted) {
			return errConversationEnded
		}
		if err != nil {
			return err
		}
		if _, err := sess.SubmitReply(ctx, reply); err != nil {
			return err
		}
	}
	return nil
}

func askIdea(cmd *cobra.Command, app *App) (string, error) {
	if !app.interactive() {
		idea, err := promptLine(cmd.InOrStdin(), cmd.OutOrStdout(), "Your idea: ")
		if errors.Is(err, io.EOF) {
			return "", nil
		}
		return idea, err
	}
	var idea string
	if err := runForm(cmd, wizardIdea(&idea)); err != nil {
		return "", err
	}
	return strings.TrimSpace(idea), nil
}

func askReply(cmd *cobra.Command, app *App) (string, error) {
	if !app.interactive() {
		return promptLine(cmd.InOrStdin(), cmd.OutOrStdout(), "> ")
	}
	var reply string
	if err := runForm(cmd, wizardReply(&reply)); err != nil {
		return "", err
	}
	return reply, nil
}

// offerSave lets the user edit the template and then saves the project.
// Without a terminal the project is saved only with --save.
func offerSave(ctx context.Context, cmd *cobra.Command, app *App, sess *conversation.Session, save bool) error {
	out := cmd.OutOrStdout()

	if !save && app.interactive() {
		edit, err := confirm(cmd, app, "Edit the template before saving?")
		if err != nil {
			return err
		}
		if edit {
			text := sess.TemplateText()
			if err := runForm(cmd, wizardTemplateEditor(&text)); err != nil && !errors.Is(err, errAborted) {
				return err
			}
			if err := sess.EditTemplate(text); err != nil {
				return err
			}
		}
		if save, err = confirm(cmd, app, "Save this project?"); err != nil {
			return err
		}
	}
	if !save {
		fmt.Fprintln(out, formatter.Dim("Project not saved."))
		return nil
	}

	p, err := sess.Project()
	if err != nil {
		return err
	}
	if err := app.Projects.Save(ctx, p); err != nil {
		return fmt.Errorf("saving project: %w", err)
	}
	fmt.Fprintf(out, "%s %s %s\n", formatter.StyleGreen.Render("Saved"), formatter.Bold(p.Title), formatter.Dim("["+p.DisplayID()+"]"))
	return nil
}
