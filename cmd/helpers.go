package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/philipobrien-sdm/StratOS/internal/audit"
	"github.com/philipobrien-sdm/StratOS/internal/config"
	"github.com/philipobrien-sdm/StratOS/internal/db"
	"github.com/philipobrien-sdm/StratOS/internal/events"
	"github.com/philipobrien-sdm/StratOS/internal/llm"
	"github.com/philipobrien-sdm/StratOS/internal/project"
	"github.com/philipobrien-sdm/StratOS/internal/reasoner"
	"github.com/philipobrien-sdm/StratOS/internal/session"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `stratos init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// createLLMProviderFromConfig creates an LLM provider based on config
// settings, throttled to the configured rate and, when max_retries is set,
// retried on transient failures.
func createLLMProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	p, err := llm.NewProvider(string(cfg.Provider), cfg.Model)
	if err != nil {
		return nil, err
	}
	p = llm.NewRateLimitedProvider(p, cfg.RequestsPerMinute)

	var retryLog io.Writer
	if verbose {
		retryLog = os.Stderr
	}
	return llm.NewRetryProvider(p, cfg.MaxRetries, llm.DefaultRetryBaseDelay, retryLog), nil
}

// app is everything one stratos process needs to serve a session.
type app struct {
	session *session.Session
	audit   *audit.Store
	db      *db.DB
}

func (a *app) Close() error {
	return a.db.Close()
}

// newApp wires provider, reasoner, audit trail and session together.
// Events go to the audit trail and to every extra sink.
func newApp(cfg *config.Config, seed *project.Inputs, sinks ...events.Sink) (*app, error) {
	provider, err := createLLMProviderFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating LLM provider: %w", err)
	}

	database, err := db.OpenMemory()
	if err != nil {
		return nil, fmt.Errorf("opening audit database: %w", err)
	}
	store := audit.NewStore(database)

	client := reasoner.New(provider, reasoner.Options{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		OnCall: func(ctx context.Context, c reasoner.Call) {
			store.ObserveCall(ctx, c)
			if verbose {
				logCall(c)
			}
		},
	})

	sink := events.Fanout(append([]events.Sink{store}, sinks...))
	sess := session.New(client, session.Options{
		SchemaVersion: cfg.SchemaVersion,
		Sink:          sink,
		Inputs:        seed,
	})
	return &app{session: sess, audit: store, db: database}, nil
}

func logCall(c reasoner.Call) {
	status := "ok"
	if c.Err != nil {
		status = c.Err.Error()
	}
	fmt.Fprintf(os.Stderr, "llm: %s via %s/%s: %d in / %d out tokens, $%.4f, %s (%s)\n",
		c.Operation, c.Provider, c.Model, c.InputTokens, c.OutputTokens, c.CostUSD,
		c.Duration.Round(time.Millisecond), status)
}
