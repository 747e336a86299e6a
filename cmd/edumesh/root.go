package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/edumesh"
	"github.com/hupe1980/edumesh/config"
	"github.com/hupe1980/edumesh/engine"
	"github.com/hupe1980/edumesh/metrics"
)

var (
	configPath  string
	jsonOutput  bool
	logLevel    string
	logFormat   string
	metricsFile string
)

var rootCmd = &cobra.Command{
	Use:   "edumesh [goal...]",
	Short: "Multi-agent learning path planner",
	Long: `edumesh turns a learning goal into a validated learning path.

A Planner decomposes the goal into topics, a Worker finds, extracts and
summarizes one resource per topic, and an Evaluator scores the resources.
Resources that pass the quality threshold form the learning path.

Without API keys every capability runs on its offline implementation.
Credentials are read from the config file, EDUMESH_* variables or the
service variables GOOGLE_API_KEY, GOOGLE_CX_ID, BRAVE_API_KEY,
SERPER_API_KEY, HUGGINGFACE_API_KEY, OPENAI_API_KEY and ANTHROPIC_API_KEY.`,
	Example: `  edumesh "I want to learn advanced JavaScript"
  edumesh --json --log-level debug learn python`,
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return runPlan(ctx, strings.Join(args, " "))
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printStatus("✗", err.Error(), colorError)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ./edumesh.yaml or $XDG_CONFIG_HOME/edumesh/edumesh.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: json, text")
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the terminal payload as JSON")
	rootCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this file after the run")

	rootCmd.AddCommand(configCmd)
}

// loadConfig reads the configuration and applies the command line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	if metricsFile != "" {
		cfg.Metrics.Textfile = metricsFile
	}
	return cfg, cfg.Validate()
}

func runPlan(ctx context.Context, goal string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}

	caps, err := buildCapabilities(cfg, logger)
	if err != nil {
		return err
	}

	collector := metrics.New()
	callbacks := engine.NewCallbackManager()
	collector.Register(callbacks)

	mesh, err := edumesh.New(func(o *edumesh.Options) {
		o.EngineConfig.MaxSteps = cfg.Engine.MaxSteps
		o.EngineConfig.OrchestratorName = cfg.Engine.OrchestratorName
		o.Decomposer = caps.Decomposer
		o.Searcher = caps.Searcher
		o.Extractor = caps.Extractor
		o.Summarizer = caps.Summarizer
		o.SearchFallbackOnEmpty = cfg.Search.FallbackOnEmpty
		o.OnFallback = collector.FallbackHook()
		o.WorkerParallelism = cfg.Worker.Parallelism
		o.ScoringPolicy = cfg.Scoring
		o.Callbacks = callbacks
		o.Logger = logger
	})
	if err != nil {
		return err
	}

	out, runErr := mesh.Submit(ctx, goal)

	if cfg.Metrics.Textfile != "" {
		if err := collector.WriteToTextfile(cfg.Metrics.Textfile); err != nil {
			logger.Warn("writing metrics failed", "path", cfg.Metrics.Textfile, "error", err)
		}
	}

	if runErr != nil {
		return fmt.Errorf("run failed: %w", runErr)
	}

	if jsonOutput {
		if err := printJSON(os.Stdout, out); err != nil {
			return err
		}
	} else {
		printOutcome(out, cfg.Scoring.PassThreshold)
	}

	if out.Failed() {
		return fmt.Errorf("run ended with error: %s", out.ErrorMessage())
	}
	return nil
}
