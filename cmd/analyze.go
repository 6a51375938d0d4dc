package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/philipobrien-sdm/StratOS/internal/events"
	"github.com/philipobrien-sdm/StratOS/internal/progress"
	"github.com/philipobrien-sdm/StratOS/internal/project"
	"github.com/philipobrien-sdm/StratOS/internal/report"
)

var (
	analyzeInputs string
	analyzeSample bool
	analyzeOut    string
	analyzeHTML   bool
	analyzePlan   string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run one analysis and print the strategy report",
	Long: `Analyzes a project definition read from a YAML or JSON file (or the
bundled sample project) and prints the Markdown report. With --plan, an
action plan toward the given outcome is generated and included.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if (analyzeInputs == "") == !analyzeSample {
			return fmt.Errorf("exactly one of --inputs or --sample is required")
		}

		var in *project.Inputs
		if analyzeSample {
			in = project.Sample()
		} else {
			var err error
			if in, err = readInputs(analyzeInputs); err != nil {
				return err
			}
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		reporter := progress.NewReporter(os.Stderr)
		onEvent := events.SinkFunc(func(_ context.Context, e events.Event) {
			if e.Summary != "" {
				reporter.Update(fmt.Sprintf("%s: %s", e.Type, e.Summary))
			}
		})

		a, err := newApp(cfg, in, onEvent)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		org := in.Organization
		if strings.TrimSpace(org) == "" {
			org = "project"
		}
		reporter.Start(fmt.Sprintf("Analyzing %s with %s", org, cfg.Model))
		v, err := a.session.RunAnalysis(ctx)
		if err != nil {
			reporter.Finish("")
			return fmt.Errorf("analysis failed: %w", err)
		}
		reporter.Finish(fmt.Sprintf("Created version %d", v.Number))

		if analyzePlan != "" {
			reporter.Start(fmt.Sprintf("Planning toward %q", analyzePlan))
			_, err := a.session.GenerateActionPlan(ctx, analyzePlan)
			if err != nil {
				reporter.Finish("")
				return fmt.Errorf("action plan failed: %w", err)
			}
			reporter.Finish("Action plan ready")
		}

		out, err := report.Compose(a.session, v)
		if err != nil {
			return err
		}
		if analyzeHTML {
			if out, err = report.HTML(report.Title(v), out); err != nil {
				return err
			}
		}

		if analyzeOut == "" {
			fmt.Print(out)
		} else {
			if err := os.WriteFile(analyzeOut, []byte(out), 0644); err != nil {
				return fmt.Errorf("writing report: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Report written to %s\n", analyzeOut)
		}

		if verbose {
			if u, err := a.audit.Usage(ctx); err == nil {
				fmt.Fprintf(os.Stderr, "Usage: %d calls, %d in / %d out tokens, $%.4f\n",
					u.Calls, u.InputTokens, u.OutputTokens, u.CostUSD)
			}
		}
		return nil
	},
}

// readInputs loads a project definition. Files ending in .json are read as
// JSON; anything else as YAML.
func readInputs(path string) (*project.Inputs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading inputs: %w", err)
	}

	in := project.New()
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, in)
	} else {
		err = yaml.Unmarshal(data, in)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing inputs %s: %w", path, err)
	}
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("inputs %s: %w", path, err)
	}
	return in, nil
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeInputs, "inputs", "", "project definition file (.yaml, .yml or .json)")
	analyzeCmd.Flags().BoolVar(&analyzeSample, "sample", false, "analyze the bundled sample project")
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "write the report to this file instead of stdout")
	analyzeCmd.Flags().BoolVar(&analyzeHTML, "html", false, "render the report as HTML")
	analyzeCmd.Flags().StringVar(&analyzePlan, "plan", "", "also generate an action plan toward this outcome")
	rootCmd.AddCommand(analyzeCmd)
}
