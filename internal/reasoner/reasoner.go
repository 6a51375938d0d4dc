// Package reasoner is the client side of the analysis request contract: it
// builds prompts, calls an llm.Provider with a fixed response schema, and
// validates the reply before anything else sees it.
package reasoner

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/philipobrien-sdm/StratOS/internal/analysis"
	"github.com/philipobrien-sdm/StratOS/internal/llm"
	"github.com/philipobrien-sdm/StratOS/internal/project"
)

// Operation names recorded for each call.
const (
	OpAnalysis   = "analysis"
	OpExtraction = "extraction"
	OpActionPlan = "action_plan"
)

// Call describes one completed or failed request to the provider.
type Call struct {
	Operation    string
	Provider     string
	Model        string
	InputTokens  int
	OutputTokens int
	CostUSD      float64
	Duration     time.Duration
	Err          error
}

// Options tune the requests a Client sends.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
	// OnCall, if set, is invoked after every provider call.
	OnCall func(ctx context.Context, c Call)
}

// Client issues analysis, extraction and action-plan requests.
type Client struct {
	provider llm.Provider
	opts     Options
	now      func() time.Time
}

// New creates a Client over provider.
func New(provider llm.Provider, opts Options) *Client {
	return &Client{provider: provider, opts: opts, now: time.Now}
}

// RequestAnalysis asks for a full analysis of in. prev is advisory context
// for deltas and may be nil on a first run.
func (c *Client) RequestAnalysis(ctx context.Context, in *project.Inputs, prev *analysis.Result) (*analysis.Result, error) {
	if in == nil {
		in = project.New()
	}
	msgs, err := buildAnalysisMessages(in, prev)
	if err != nil {
		return nil, err
	}
	content, err := c.complete(ctx, OpAnalysis, msgs, analysis.ResultSchema, "analysis_result")
	if err != nil {
		return nil, err
	}
	return analysis.DecodeResult(content)
}

// RequestExtraction turns free text into draft records of one category.
// An unknown category fails before any provider call.
func (c *Client) RequestExtraction(ctx context.Context, category string, text string) (*analysis.Extraction, error) {
	cat, err := analysis.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	schema, err := analysis.ExtractionSchema(cat)
	if err != nil {
		return nil, err
	}
	content, err := c.complete(ctx, OpExtraction, buildExtractionMessages(cat, text, c.now()), schema, "extraction")
	if err != nil {
		return nil, err
	}
	return analysis.DecodeExtraction(cat, content)
}

// RequestActionPlan asks for a plan reaching target from the current analysis.
// A nil analysis is rejected with analysis.ErrPrecondition.
func (c *Client) RequestActionPlan(ctx context.Context, target string, res *analysis.Result, in *project.Inputs) (*analysis.ActionPlan, error) {
	if res == nil {
		return nil, analysis.ErrPrecondition
	}
	if in == nil {
		in = project.New()
	}
	msgs, err := buildPlanMessages(target, res, in)
	if err != nil {
		return nil, err
	}
	content, err := c.complete(ctx, OpActionPlan, msgs, analysis.ActionPlanSchema, "action_plan")
	if err != nil {
		return nil, err
	}
	return analysis.DecodeActionPlan(content, target)
}

func (c *Client) complete(ctx context.Context, op string, msgs []llm.Message, schema json.RawMessage, name string) (string, error) {
	start := c.now()
	resp, err := c.provider.Complete(ctx, llm.CompletionRequest{
		Model:       c.opts.Model,
		Messages:    msgs,
		MaxTokens:   c.opts.MaxTokens,
		Temperature: c.opts.Temperature,
		Schema:      schema,
		SchemaName:  name,
	})

	call := Call{
		Operation: op,
		Provider:  c.provider.Name(),
		Model:     c.opts.Model,
		Duration:  c.now().Sub(start),
		Err:       err,
	}
	if resp != nil {
		if resp.Model != "" {
			call.Model = resp.Model
		}
		call.InputTokens = resp.InputTokens
		call.OutputTokens = resp.OutputTokens
		call.CostUSD = llm.EstimateCost(call.Model, resp.InputTokens, resp.OutputTokens)
	}
	if c.opts.OnCall != nil {
		c.opts.OnCall(ctx, call)
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("%s request: %w", op, err)
	}
	if resp == nil {
		return "", analysis.ErrEmptyResponse
	}
	return resp.Content, nil
}
