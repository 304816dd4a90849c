package harness

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pagepilot/internal/browser"
	"github.com/xkilldash9x/pagepilot/internal/config"
	"github.com/xkilldash9x/pagepilot/internal/reporting"
)

// BaseURLKey is the environment key every session opens on.
const BaseURLKey = "base_url"

const (
	screenshotTimeout = 15 * time.Second
	cleanupTimeout    = 10 * time.Second
)

// Runner executes scenarios one after another.
type Runner struct {
	factory   browser.SessionFactory
	cfg       config.Interface
	artifacts *reporting.ArtifactWriter
	logger    *zap.Logger
	now       func() time.Time
}

// NewRunner builds a runner. artifacts may be nil to disable failure screenshots.
func NewRunner(factory browser.SessionFactory, cfg config.Interface, artifacts *reporting.ArtifactWriter, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		factory:   factory,
		cfg:       cfg,
		artifacts: artifacts,
		logger:    logger.Named("runner"),
		now:       time.Now,
	}
}

// sessionHolder owns the session for the configured scope.
type sessionHolder struct {
	r       *Runner
	scope   string
	baseURL string
	current browser.SessionContext
}

// acquire returns a session on the base URL. In suite scope the session is reused
// and refreshed; any dialog a previous scenario left open is dismissed first.
func (h *sessionHolder) acquire(ctx context.Context) (browser.SessionContext, error) {
	if h.current != nil && h.scope == config.ScopeSuite {
		if a, err := h.current.SwitchToAlert(ctx); err == nil {
			h.r.logger.Warn("Dismissing dialog left open by the previous scenario.", zap.String("text", a.Text()))
			if err := a.Dismiss(ctx); err != nil {
				return nil, fmt.Errorf("failed to dismiss leftover dialog: %w", err)
			}
		}
		if err := h.current.Refresh(ctx); err != nil {
			return nil, fmt.Errorf("failed to refresh session: %w", err)
		}
		return h.current, nil
	}

	s, err := h.r.factory.NewSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start browser session: %w", err)
	}
	if err := s.Navigate(ctx, h.baseURL); err != nil {
		h.close(ctx, s)
		return nil, fmt.Errorf("failed to open %s: %w", h.baseURL, err)
	}
	h.current = s
	return s, nil
}

// release closes the session unless the suite keeps it.
func (h *sessionHolder) release(ctx context.Context) {
	if h.scope == config.ScopeSuite || h.current == nil {
		return
	}
	h.close(ctx, h.current)
	h.current = nil
}

func (h *sessionHolder) shutdown(ctx context.Context) {
	if h.current != nil {
		h.close(ctx, h.current)
		h.current = nil
	}
}

func (h *sessionHolder) close(ctx context.Context, s browser.SessionContext) {
	cctx, cancel := context.WithTimeout(browser.Detach(ctx), cleanupTimeout)
	defer cancel()
	if err := s.Close(cctx); err != nil {
		h.r.logger.Warn("Failed to close browser session.", zap.String("session_id", s.ID()), zap.Error(err))
	}
}

// Run executes scenarios in order and returns the run report. The error is non-nil
// only when the run could not be set up or ctx ended it early; the report is
// always returned and holds every scenario seen.
func (r *Runner) Run(ctx context.Context, scenarios []Scenario) (*reporting.RunReport, error) {
	runCfg := r.cfg.Run()
	report := &reporting.RunReport{
		ID:    uuid.NewString(),
		Title: r.cfg.Report().Title,
		Env:   runCfg.Env,
		Scope: runCfg.Scope,
		Start: r.now(),
		Cases: make([]reporting.CaseResult, 0, len(scenarios)),
	}
	logger := r.logger.With(zap.String("run_id", report.ID))
	defer func() { report.End = r.now() }()

	baseURL, err := r.cfg.Lookup(runCfg.Env, BaseURLKey)
	if err != nil {
		return report, err
	}

	holder := &sessionHolder{r: r, scope: runCfg.Scope, baseURL: baseURL}
	defer holder.shutdown(ctx)

	logger.Info("Starting run.",
		zap.Int("scenarios", len(scenarios)),
		zap.String("env", runCfg.Env),
		zap.String("scope", runCfg.Scope),
		zap.String("base_url", baseURL),
	)

	for i, sc := range scenarios {
		if err := ctx.Err(); err != nil {
			for _, rest := range scenarios[i:] {
				report.Cases = append(report.Cases, reporting.CaseResult{
					Name: rest.Name, Tags: rest.Tags, Status: reporting.StatusSkipped, Reason: "run canceled",
				})
			}
			return report, err
		}
		result := r.runOne(ctx, holder, sc, logger)
		report.Cases = append(report.Cases, result)
	}

	sum := report.Summary()
	logger.Info("Run complete.",
		zap.Int("passed", sum.Passed),
		zap.Int("failed", sum.Failed),
		zap.Int("skipped", sum.Skipped),
		zap.Int("xfailed", sum.XFailed),
		zap.Int("xpassed", sum.XPassed),
	)
	return report, nil
}

func (r *Runner) runOne(ctx context.Context, holder *sessionHolder, sc Scenario, logger *zap.Logger) (result reporting.CaseResult) {
	result = reporting.CaseResult{Name: sc.Name, Tags: sc.Tags}
	logger = logger.With(zap.String("scenario", sc.Name))

	if sc.Skip != "" {
		result.Status = reporting.StatusSkipped
		result.Reason = sc.Skip
		logger.Warn("Scenario skipped.", zap.String("reason", sc.Skip))
		return result
	}

	start := r.now()
	defer func() { result.Duration = r.now().Sub(start) }()

	session, err := holder.acquire(ctx)
	var t *T
	if err == nil {
		defer holder.release(ctx)
		t = &T{
			name:    sc.Name,
			env:     r.cfg.Run().Env,
			session: session,
			policy:  browser.PolicyFromConfig(r.cfg.Browser()),
			logger:  logger,
			lookup:  r.cfg.Lookup,
		}
		err = execute(ctx, sc, t)
	}

	failed := err != nil || (t != nil && t.Failed())
	if !failed {
		if sc.ExpectFailure != "" {
			result.Status = reporting.StatusXPassed
			result.Reason = sc.ExpectFailure
			logger.Warn("Scenario passed unexpectedly.", zap.String("reason", sc.ExpectFailure))
			return result
		}
		result.Status = reporting.StatusPassed
		logger.Info("Scenario passed.")
		return result
	}

	result.Error = failureText(err, t)
	if sc.ExpectFailure != "" {
		result.Status = reporting.StatusXFailed
		result.Reason = sc.ExpectFailure
		logger.Warn("Scenario failed as expected.", zap.String("reason", sc.ExpectFailure), zap.String("error", result.Error))
		return result
	}

	result.Status = reporting.StatusFailed
	logger.Error("Scenario failed.", zap.String("error", result.Error))
	if session != nil && r.artifacts != nil {
		result.Screenshot = r.capture(ctx, session, sc.Name, logger)
	}
	return result
}

// execute runs the scenario, turning FailNow and panics into a result.
func execute(ctx context.Context, sc Scenario, t *T) (err error) {
	defer func() {
		if p := recover(); p != nil {
			if _, ok := p.(failNowSignal); ok {
				return
			}
			err = fmt.Errorf("scenario panicked: %v", p)
		}
	}()
	if sc.Run == nil {
		return errors.New("scenario has no body")
	}
	return sc.Run(ctx, t)
}

func (r *Runner) capture(ctx context.Context, session browser.SessionContext, name string, logger *zap.Logger) string {
	cctx, cancel := context.WithTimeout(browser.Detach(ctx), screenshotTimeout)
	defer cancel()
	path, err := r.artifacts.CaptureFailure(cctx, session, name)
	if err != nil {
		logger.Warn("Could not capture failure screenshot.", zap.Error(err))
		return ""
	}
	return path
}

func failureText(err error, t *T) string {
	var msg string
	if t != nil {
		msg = t.failure()
	}
	if err == nil {
		if msg == "" {
			return "scenario failed"
		}
		return msg
	}
	if msg == "" {
		return err.Error()
	}
	return msg + "\n" + err.Error()
}
