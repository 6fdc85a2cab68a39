package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/jbalzer/daiacheck/internal/client"
	"github.com/jbalzer/daiacheck/internal/config"
	"github.com/jbalzer/daiacheck/internal/coverage"
	"github.com/jbalzer/daiacheck/internal/history"
	"github.com/jbalzer/daiacheck/internal/report"
	"github.com/jbalzer/daiacheck/internal/runner"
	"github.com/jbalzer/daiacheck/internal/suite"
)

// runCheck is the RunE of the root command: it resolves test cases, runs the
// availability or coverage assertions, and maps failures to the exit code.
func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}

	from, _ := cmd.Flags().GetString("from")
	coverageMode, _ := cmd.Flags().GetBool("coverage")
	noColor, _ := cmd.Flags().GetBool("no-color")

	if coverageMode && from == "" {
		return usageError(cmd, "--coverage requires --from")
	}
	if from == "" && len(args) == 0 {
		return usageError(cmd, "no test cases: provide --from, an ISIL and PPN, or a full identifier")
	}

	httpClient := client.New(cfg.Timeout, cfg.UserAgent)
	ctx := cmd.Context()

	// --coverage works off the suite alone; direct arguments are ignored.
	var cases []suite.Case
	source := from
	switch {
	case from != "":
		cases, err = suite.Load(ctx, from, httpClient.Fetch)
		if err != nil {
			return err
		}
	case len(args) == 2:
		cases = []suite.Case{{ISIL: args[0], PPN: args[1]}}
	default:
		cases = []suite.Case{{FullID: args[0]}}
	}

	useColor := !noColor && isatty.IsTerminal(os.Stdout.Fd())
	rep := report.New(cmd.OutOrStdout(), report.WithTAP(cfg.TAP), report.WithColor(useColor))

	start := time.Now()
	mode := "availability"
	if coverageMode {
		mode = "coverage"
		coverage.Check(ctx, httpClient, cfg.RegistryURL, cases, rep)
	} else {
		delay := cfg.Delay
		if from == "" {
			// A single direct case is not a batch; no pacing needed.
			delay = 0
		}
		run := runner.New(httpClient, cfg.BaseURL, delay, rep)
		if err := run.RunAll(ctx, cases); err != nil {
			return err
		}
	}

	rep.Summary()
	recordRun(cmd, cfg, mode, source, rep, time.Since(start))

	if code := rep.ExitCode(cfg.FailCode); code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}

// loadConfig resolves the --config flag and loads the YAML configuration.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	explicit := cmd.Flags().Changed("config")
	if configPath == "" {
		configPath = config.DefaultPath
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if explicit {
		if _, statErr := os.Stat(configPath); os.IsNotExist(statErr) {
			return nil, fmt.Errorf("config file not found: %s", configPath)
		}
	}
	return cfg, nil
}

// applyFlags overrides configuration values with explicitly set CLI flags.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("base") {
		cfg.BaseURL, _ = cmd.Flags().GetString("base")
	}
	if cmd.Flags().Changed("tap") {
		cfg.TAP, _ = cmd.Flags().GetBool("tap")
	}
	if cmd.Flags().Changed("code") {
		cfg.FailCode, _ = cmd.Flags().GetInt("code")
	}
	if cmd.Flags().Changed("delay") {
		delayStr, _ := cmd.Flags().GetString("delay")
		delay, err := time.ParseDuration(delayStr)
		if err != nil {
			return usageError(cmd, fmt.Sprintf("invalid --delay %q", delayStr))
		}
		cfg.Delay = delay
	}
	return nil
}

// usageError prints the usage text and returns the reserved usage exit code.
func usageError(cmd *cobra.Command, message string) error {
	fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
	return &ExitError{Code: CodeUsage, Message: message}
}

// recordRun appends the run to the history database when enabled. History
// failures never change the outcome of a check; they surface as warnings.
func recordRun(cmd *cobra.Command, cfg *config.Config, mode, source string, rep *report.Reporter, elapsed time.Duration) {
	if !cfg.History.Enabled {
		return
	}

	store, err := history.NewStore(cfg.History.DBPath)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: history disabled: %v\n", err)
		return
	}
	defer store.Close()

	run := &history.Run{
		Mode:       mode,
		Source:     source,
		Total:      rep.Total(),
		Failed:     rep.Failed(),
		DurationMS: elapsed.Milliseconds(),
	}
	if err := store.RecordRun(cmd.Context(), run); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: record run: %v\n", err)
		return
	}
	if cfg.History.KeepRuns > 0 {
		if _, err := store.Prune(cmd.Context(), cfg.History.KeepRuns); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: prune history: %v\n", err)
		}
	}
}
