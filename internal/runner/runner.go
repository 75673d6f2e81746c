// File: internal/runner/runner.go
//
// The runner executes test scripts against live browser sessions. Scripts
// are independent and run concurrently, one session each; the steps inside a
// script are strictly sequential because they mutate one shared page.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/lancet-cli/internal/browser/dom"
	"github.com/xkilldash9x/lancet-cli/internal/config"
	"github.com/xkilldash9x/lancet-cli/internal/reporting"
	"github.com/xkilldash9x/lancet-cli/internal/resolve"
)

// Browser is the per-script collaborator the runner drives: the resolution
// engine's page surface plus navigation and artifact capture.
type Browser interface {
	resolve.Page
	Navigate(ctx context.Context, url string) error
	Screenshot(ctx context.Context) ([]byte, error)
	Close()
}

// BrowserFactory opens a fresh browser for one script. Production wires
// session.New; tests substitute an in-memory fake.
type BrowserFactory func(ctx context.Context) (Browser, error)

// Runner executes scripts and assembles a report.
type Runner struct {
	cfg        config.Interface
	logger     *zap.Logger
	newBrowser BrowserFactory
	version    string
}

// New creates a Runner.
func New(cfg config.Interface, logger *zap.Logger, newBrowser BrowserFactory, version string) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{cfg: cfg, logger: logger, newBrowser: newBrowser, version: version}
}

// Run executes all scripts with the configured concurrency and returns the
// combined report. Script failures are recorded in the report, not returned
// as an error; the error return is for infrastructure failures and
// cancellation.
func (r *Runner) Run(ctx context.Context, scripts []*Script) (*reporting.Report, error) {
	report := &reporting.Report{
		ID:      uuid.New().String(),
		Tool:    "lancet-cli",
		Version: r.version,
		Started: time.Now(),
		Scripts: make([]reporting.ScriptResult, len(scripts)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Runner().Concurrency)

	var mu sync.Mutex
	for i, script := range scripts {
		g.Go(func() error {
			result := r.runScript(gctx, script)
			mu.Lock()
			report.Scripts[i] = result
			mu.Unlock()
			if gctx.Err() != nil {
				return gctx.Err()
			}
			return nil
		})
	}
	err := g.Wait()
	report.Finished = time.Now()
	if err != nil {
		return report, err
	}
	return report, nil
}

// runScript executes one script in its own browser session.
func (r *Runner) runScript(ctx context.Context, script *Script) reporting.ScriptResult {
	log := r.logger.With(zap.String("script", script.Name))
	started := time.Now()
	result := reporting.ScriptResult{
		Name:   script.Name,
		File:   script.File,
		Status: reporting.StatusPassed,
	}

	browser, err := r.newBrowser(ctx)
	if err != nil {
		result.Status = reporting.StatusFailed
		result.Error = fmt.Sprintf("failed to open browser: %v", err)
		result.Duration = time.Since(started)
		return result
	}
	defer browser.Close()

	actions := resolve.NewActions(browser, resolve.NewResolver(log.Named("resolver")), log.Named("actions"))

	failed := false
	for i, step := range script.Steps {
		if failed || ctx.Err() != nil {
			result.Steps = append(result.Steps, reporting.StepResult{
				Index:  i,
				Action: step.Action,
				Target: step.Target,
				Status: reporting.StatusSkipped,
			})
			continue
		}

		stepResult := r.runStep(ctx, log, actions, browser, i, step)
		result.Steps = append(result.Steps, stepResult)

		if stepResult.Status == reporting.StatusFailed {
			failed = true
			result.Status = reporting.StatusFailed
			result.Error = stepResult.Error
			if r.cfg.Runner().ScreenshotOnFailure {
				if path, err := r.captureFailureScreenshot(ctx, browser, script.Name, i); err == nil {
					result.Screenshot = path
				} else {
					log.Warn("Failed to capture failure screenshot.", zap.Error(err))
				}
			}
		}
	}

	result.Duration = time.Since(started)
	log.Info("Script finished.",
		zap.String("status", string(result.Status)),
		zap.Duration("duration", result.Duration))
	return result
}

// runStep executes a single step and records its outcome, including the
// resolution provenance when the step looked up an element.
func (r *Runner) runStep(ctx context.Context, log *zap.Logger, actions *resolve.Actions, browser Browser, index int, step Step) reporting.StepResult {
	started := time.Now()
	stepResult := reporting.StepResult{
		Index:  index,
		Action: step.Action,
		Target: step.Target,
		Status: reporting.StatusPassed,
	}

	opts := r.resolveOptions(step)
	var err error
	switch step.Action {
	case "navigate":
		err = browser.Navigate(ctx, step.URL)
	case "click":
		err = actions.Click(ctx, step.Target, opts)
	case "fill":
		err = actions.Fill(ctx, step.Target, step.Value, opts)
	case "select":
		err = actions.Select(ctx, step.Target, step.Value, opts)
	case "wait":
		var m *resolve.Match
		m, err = actions.WaitFor(ctx, step.Target, waitState(step), waitTimeout(step, opts), opts)
		if m != nil {
			stepResult.Strategy = m.Strategy
			stepResult.Confidence = m.Confidence
		}
	case "assert_text":
		var m *resolve.Match
		m, err = actions.Find(ctx, step.Target, opts)
		switch {
		case err != nil:
		case m == nil:
			err = fmt.Errorf("could not find element for %q", step.Target)
		case !strings.Contains(strings.ToLower(m.Element.Text()), strings.ToLower(step.Value)):
			err = fmt.Errorf("element %q text %q does not contain %q", step.Target, m.Element.Text(), step.Value)
		default:
			stepResult.Strategy = m.Strategy
			stepResult.Confidence = m.Confidence
		}
	default:
		// Validate rejects unknown actions at load time.
		err = fmt.Errorf("unknown action %q", step.Action)
	}

	stepResult.Duration = time.Since(started)
	if err != nil {
		stepResult.Status = reporting.StatusFailed
		stepResult.Error = err.Error()
		log.Warn("Step failed.",
			zap.Int("step", index+1),
			zap.String("action", step.Action),
			zap.String("target", step.Target),
			zap.Error(err))

		var timeoutErr *resolve.TimeoutError
		if errors.As(err, &timeoutErr) && timeoutErr.LastErr != nil {
			log.Debug("Last error before timeout.", zap.Error(timeoutErr.LastErr))
		}
	}
	return stepResult
}

func (r *Runner) resolveOptions(step Step) resolve.Options {
	cfg := r.cfg.Resolver()
	opts := resolve.Options{
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.MaxRetries,
		FuzzyFloor: cfg.FuzzyFloor,
	}
	if step.Timeout > 0 {
		opts.Timeout = step.Timeout
	}
	return opts
}

func waitState(step Step) dom.State {
	if step.State == "" {
		return dom.StateVisible
	}
	state, err := dom.ParseState(step.State)
	if err != nil {
		// Validation happens at load time for actions, but state strings are
		// open-ended; fall back to the common case.
		return dom.StateVisible
	}
	return state
}

func waitTimeout(step Step, opts resolve.Options) time.Duration {
	if step.Timeout > 0 {
		return step.Timeout
	}
	return 3 * opts.Timeout
}

// captureFailureScreenshot stores a PNG artifact for a failed step and
// returns its path.
func (r *Runner) captureFailureScreenshot(ctx context.Context, browser Browser, scriptName string, stepIndex int) (string, error) {
	buf, err := browser.Screenshot(ctx)
	if err != nil {
		return "", err
	}
	dir := r.cfg.Runner().ArtifactsDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create artifacts dir: %w", err)
	}
	name := fmt.Sprintf("%s-step%02d.png", sanitizeFileName(scriptName), stepIndex+1)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return "", fmt.Errorf("failed to write screenshot: %w", err)
	}
	return path, nil
}

func sanitizeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, name)
}
