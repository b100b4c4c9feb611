package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/emree-sen/idea-box-app/internal/cli"
	"github.com/emree-sen/idea-box-app/internal/config"
	"github.com/emree-sen/idea-box-app/internal/conversation"
	"github.com/emree-sen/idea-box-app/internal/db"
	"github.com/emree-sen/idea-box-app/internal/intelligence"
	"github.com/emree-sen/idea-box-app/internal/llm"
	"github.com/emree-sen/idea-box-app/internal/logger"
	"github.com/emree-sen/idea-box-app/internal/metrics"
	"github.com/emree-sen/idea-box-app/internal/prediction"
	"github.com/emree-sen/idea-box-app/internal/repository"
	"github.com/emree-sen/idea-box-app/internal/service"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

func main() {
	rt := &runtime{}
	app := &cli.App{
		IsInteractive: func() bool {
			return isTerminal(os.Stdin) && isTerminal(os.Stdout)
		},
		Color: isTerminal(os.Stdout),
		Setup: rt.setup,
	}

	err := cli.NewRootCmd(app).Execute()
	rt.close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// runtime owns the resources opened for one command run.
type runtime struct {
	closers []func()
}

func (r *runtime) close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
	r.closers = nil
}

func (r *runtime) setup(app *cli.App, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, logCloser, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
		File:   cfg.Log.File,
	})
	if err != nil {
		return err
	}
	r.closers = append(r.closers, func() { logCloser.Close() })

	recorder := metrics.NewRecorder()
	if cfg.Metrics.Addr != "" {
		if err := r.serveMetrics(cfg.Metrics.Addr, recorder, log); err != nil {
			return err
		}
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	r.closers = append(r.closers, func() { database.Close() })
	log.Debug().Str("db", cfg.DBPath).Msg("database ready")

	store := repository.NewSQLiteProjectStore(db.NewSQLiteUnitOfWork(database))
	app.Projects = service.NewProjectService(store, service.NewLogUseCaseObserver(log), recorder)
	app.ExportDir = cfg.ExportDir
	app.NewSession = sessionFactory(cfg, log, recorder)
	return nil
}

// sessionFactory builds conversation sessions. The model client is created
// on first use so commands that never chat need no API key.
func sessionFactory(cfg config.Config, log zerolog.Logger, recorder *metrics.Recorder) func(...conversation.Option) (*conversation.Session, error) {
	var templates intelligence.TemplateService

	return func(opts ...conversation.Option) (*conversation.Session, error) {
		if templates == nil {
			if err := cfg.ValidateChat(); err != nil {
				return nil, err
			}
			observers := llm.MultiObserver{recorder}
			if cfg.LLM.LogCalls {
				observers = append(observers, llm.NewLogObserver(log))
			}
			client, err := llm.NewClient(context.Background(), cfg.LLM, observers)
			if err != nil {
				return nil, fmt.Errorf("creating model client: %w", err)
			}
			llm.Preflight(context.Background(), client, log)
			templates = intelligence.NewTemplateService(client)
		}

		base := []conversation.Option{
			conversation.WithFirstReplyDelay(cfg.FirstReplyDelay()),
			conversation.WithLogger(log),
		}
		if cfg.Prediction.Enabled {
			enricher := prediction.NewClient(cfg.Prediction, prediction.MultiObserver{
				prediction.NewLogObserver(log),
				recorder,
			})
			base = append(base, conversation.WithEnricher(enricher))
		}
		return conversation.NewSession(templates, append(base, opts...)...), nil
	}
}

func (r *runtime) serveMetrics(addr string, recorder *metrics.Recorder, log zerolog.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics listener: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", recorder.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server stopped")
		}
	}()
	log.Info().Str("addr", ln.Addr().String()).Msg("serving metrics")

	r.closers = append(r.closers, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return nil
}
