// -- cmd/init.go --
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/lancet-cli/internal/observability"
)

const defaultConfigTemplate = `# lancet-cli configuration
logger:
  level: info
  format: console

browser:
  headless: true
  navigation_timeout: 60s

resolver:
  timeout: 10s
  max_retries: 3
  fuzzy_floor: 0.3

runner:
  concurrency: 2
  screenshot_on_failure: true
  artifacts_dir: lancet-artifacts

report:
  format: json
`

const exampleScriptTemplate = `name: example-login
steps:
  - action: navigate
    url: https://example.com/login
  - action: fill
    target: email address
    value: user@example.com
  - action: fill
    target: textbox[password]
    value: hunter2
  - action: click
    target: Login Button
  - action: wait
    target: Welcome
    state: visible
`

// newInitCmd creates the `init` command, the project scaffolder.
func newInitCmd() *cobra.Command {
	var force bool

	initCmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Scaffold a new lancet project",
		Long: `Creates a lancet.yaml configuration file and an example test script in the
given directory (default: current directory).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return scaffoldProject(observability.GetLogger(), dir, force)
		},
	}

	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	return initCmd
}

// scaffoldProject writes the starter files, refusing to clobber existing
// ones unless forced.
func scaffoldProject(logger *zap.Logger, dir string, force bool) error {
	if err := os.MkdirAll(filepath.Join(dir, "tests"), 0o755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}

	files := map[string]string{
		filepath.Join(dir, "lancet.yaml"):                defaultConfigTemplate,
		filepath.Join(dir, "tests", "example-login.yaml"): exampleScriptTemplate,
	}
	for path, content := range files {
		if !force {
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		logger.Info("Created file.", zap.String("path", path))
	}

	logger.Info("Project scaffolded. Try: lancet-cli run tests/example-login.yaml")
	return nil
}
