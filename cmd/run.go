// File: cmd/run.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pagepilot/internal/browser"
	"github.com/xkilldash9x/pagepilot/internal/config"
	"github.com/xkilldash9x/pagepilot/internal/harness"
	"github.com/xkilldash9x/pagepilot/internal/observability"
	"github.com/xkilldash9x/pagepilot/internal/reporting"
	"github.com/xkilldash9x/pagepilot/internal/scenarios"
)

// ErrScenariosFailed is returned by run when at least one scenario hard-failed.
var ErrScenariosFailed = errors.New("scenarios failed")

// sessionProvider creates the session factory a run uses. Tests inject an
// in-memory one instead of launching Chrome.
type sessionProvider interface {
	// Create returns a factory and a cleanup function that releases it.
	Create(ctx context.Context, cfg config.Interface) (browser.SessionFactory, func(), error)
}

// chromeProvider starts sessions in a local Chrome through chromedp.
type chromeProvider struct{}

// NewSessionProvider returns the production, Chrome-backed provider.
func NewSessionProvider() sessionProvider {
	return &chromeProvider{}
}

func (p *chromeProvider) Create(ctx context.Context, cfg config.Interface) (browser.SessionFactory, func(), error) {
	logger := observability.GetLogger()
	path, err := browser.FindChrome(cfg.Browser())
	if err != nil {
		return nil, nil, fmt.Errorf("cannot start browser: %w", err)
	}
	logger.Debug("Using Chrome executable.", zap.String("path", path))

	manager := browser.NewManager(ctx, cfg.Browser(), logger)
	cleanup := func() {
		shutdownCtx, cancel := context.WithTimeout(browser.Detach(ctx), 15*time.Second)
		defer cancel()
		if err := manager.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Error during browser manager shutdown", zap.Error(err))
		}
	}
	return manager, cleanup, nil
}

// runFlagBindings maps run flags onto configuration keys.
var runFlagBindings = map[string]string{
	"env":        "run.env",
	"scope":      "run.scope",
	"data":       "run.data_file",
	"run":        "run.filter",
	"headless":   "browser.headless",
	"report-dir": "report.dir",
	"format":     "report.formats",
}

func newRunCmd(provider sessionProvider) *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Runs the registered scenarios and writes the report",
		Long: `Runs every registered scenario (or those selected with --run) in a browser session
opened on the environment's base_url, then writes a timestamped report to the report
directory. Exits non-zero when any scenario fails.`,
		Args: cobra.NoArgs,
		// Flags are bound here, after the root command has built the viper instance,
		// and the configuration is rebuilt so they take precedence.
		PreRunE: func(cmd *cobra.Command, args []string) error {
			v, err := getViperFromContext(cmd.Context())
			if err != nil {
				return err
			}
			for flag, key := range runFlagBindings {
				if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
					return err
				}
			}
			cfg, err := config.NewConfigFromViper(v)
			if err != nil {
				return fmt.Errorf("invalid configuration after flag overrides: %w", err)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), configKey, cfg))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := getConfigFromContext(ctx)
			if err != nil {
				return err
			}
			return runSuite(ctx, cmd.OutOrStdout(), observability.GetLogger(), cfg, provider, time.Now)
		},
	}

	runCmd.Flags().StringP("env", "e", "", "Configuration environment to run against (falls back to 'default')")
	runCmd.Flags().Bool("headless", false, "Run the browser without a window")
	runCmd.Flags().String("scope", "", "Session scope: 'suite' shares one browser, 'scenario' starts one per scenario")
	runCmd.Flags().String("report-dir", "", "Directory for reports and screenshots")
	runCmd.Flags().StringSliceP("format", "f", nil, "Report formats to write (html, json, junit)")
	runCmd.Flags().String("data", "", "Dataset file (json, csv, yaml, xlsx) for data-driven autosuggestion scenarios")
	runCmd.Flags().String("run", "", "Comma-separated name fragments or tags selecting scenarios")

	return runCmd
}

// runSuite contains the core, testable logic of the run command.
func runSuite(
	ctx context.Context,
	out io.Writer,
	logger *zap.Logger,
	cfg config.Interface,
	provider sessionProvider,
	now func() time.Time,
) error {
	all, err := scenarios.Registry(cfg.Run().DataFile)
	if err != nil {
		return fmt.Errorf("failed to load scenarios: %w", err)
	}
	selected := harness.Select(all, cfg.Run().Filter)
	if len(selected) == 0 {
		return fmt.Errorf("no scenarios match %q", cfg.Run().Filter)
	}

	factory, cleanup, err := provider.Create(ctx, cfg)
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}

	reportCfg := cfg.Report()
	artifacts := reporting.NewArtifactWriter(screenshotDir(reportCfg), logger)
	runner := harness.NewRunner(factory, cfg, artifacts, logger)

	report, runErr := runner.Run(ctx, selected)
	for i, c := range report.Cases {
		if c.Screenshot == "" {
			continue
		}
		if rel, err := filepath.Rel(reportCfg.Dir, c.Screenshot); err == nil {
			report.Cases[i].Screenshot = filepath.ToSlash(rel)
		}
	}
	if len(report.Cases) > 0 {
		paths, err := reporting.WriteAll(browser.Detach(ctx), reportCfg.Dir, reportCfg.Formats, report, now())
		if err != nil {
			logger.Error("Failed to write reports", zap.Error(err))
			if runErr == nil {
				runErr = err
			}
		}
		printSummary(out, report, paths)
	}
	// Failures seen before an interruption still fail the run.
	if n := report.HardFailures(); n > 0 {
		return errors.Join(runErr, fmt.Errorf("%w: %d of %d", ErrScenariosFailed, n, len(report.Cases)))
	}
	return runErr
}

// screenshotDir places a relative screenshot directory under the report directory
// so report links stay valid when the directory is moved.
func screenshotDir(cfg config.ReportConfig) string {
	dir := cfg.ScreenshotDir
	if dir == "" {
		dir = "screenshots"
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(cfg.Dir, dir)
}

func printSummary(out io.Writer, report *reporting.RunReport, paths []string) {
	s := report.Summary()
	fmt.Fprintf(out, "\nRun %s (%s, env %s)\n", report.ID, report.Duration().Round(time.Millisecond), report.Env)
	for _, c := range report.Cases {
		fmt.Fprintf(out, "  %-8s %s\n", c.Status, c.Name)
	}
	fmt.Fprintf(out, "%d passed, %d failed, %d skipped, %d xfailed, %d xpassed\n",
		s.Passed, s.Failed, s.Skipped, s.XFailed, s.XPassed)
	for _, p := range paths {
		fmt.Fprintf(out, "Report: %s\n", p)
	}
}
