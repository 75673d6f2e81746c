// -- cmd/run.go --
package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/lancet-cli/internal/browser/session"
	"github.com/xkilldash9x/lancet-cli/internal/config"
	"github.com/xkilldash9x/lancet-cli/internal/observability"
	"github.com/xkilldash9x/lancet-cli/internal/reporting"
	"github.com/xkilldash9x/lancet-cli/internal/runner"
)

// newRunCmd creates and configures the `run` command.
func newRunCmd() *cobra.Command {
	var (
		outputPath string
		format     string
		headed     bool
	)

	runCmd := &cobra.Command{
		Use:   "run <script.yaml> [more scripts...]",
		Short: "Execute one or more test scripts against a live browser",
		Long: `Loads the given YAML test scripts and executes them concurrently, each in
its own browser session. Element targets are resolved with the smart
resolution engine, so steps can address elements by visible text, label,
placeholder, or role[description] syntax.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if headed {
				cfg.SetBrowserHeadless(false)
			}
			if format != "" {
				cfg.SetReportFormat(format)
			}
			if outputPath != "" {
				cfg.SetReportOutputPath(outputPath)
			}
			return runScripts(cmd.Context(), observability.GetLogger(), cfg, args)
		},
	}

	runCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Report output file path. If unset, the report is printed to stdout.")
	runCmd.Flags().StringVarP(&format, "format", "f", "", "Report format: json, html, or junit (default from config)")
	runCmd.Flags().BoolVar(&headed, "headed", false, "Run the browser with a visible window")

	return runCmd
}

// runScripts contains the core, testable logic behind the run command.
func runScripts(ctx context.Context, logger *zap.Logger, cfg config.Interface, paths []string) error {
	sort.Strings(paths)
	scripts := make([]*runner.Script, 0, len(paths))
	for _, path := range paths {
		script, err := runner.LoadScript(path)
		if err != nil {
			return err
		}
		scripts = append(scripts, script)
	}
	logger.Info("Executing test scripts.", zap.Int("count", len(scripts)))

	newBrowser := func(ctx context.Context) (runner.Browser, error) {
		return session.New(ctx, cfg.Browser(), logger.Named("session"))
	}
	r := runner.New(cfg, logger.Named("runner"), newBrowser, Version)

	report, err := r.Run(ctx, scripts)
	if err != nil {
		return fmt.Errorf("run aborted: %w", err)
	}

	if err := writeReport(cfg, report); err != nil {
		return err
	}

	passed, failed, skipped := report.Counts()
	logger.Info("Run complete.",
		zap.Int("passed", passed),
		zap.Int("failed", failed),
		zap.Int("skipped", skipped))
	if !report.Passed() {
		return fmt.Errorf("%d of %d scripts failed", failed, len(report.Scripts))
	}
	return nil
}

// writeReport serializes the report to the configured destination.
func writeReport(cfg config.Interface, report *reporting.Report) error {
	writer, err := reporting.NewWriter(cfg.Report().Format)
	if err != nil {
		return err
	}

	out := os.Stdout
	if path := cfg.Report().OutputPath; path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		out = f
	}
	return writer.Write(out, report)
}
