// File: internal/runner/script_test.go
package runner

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScript(t *testing.T) {
	path := writeScript(t, "checkout.yaml", `
name: checkout flow
steps:
  - action: navigate
    url: https://shop.example.com
  - action: fill
    target: "textbox[coupon code]"
    value: SAVE10
  - action: click
    target: Place Order
    timeout: 5s
  - action: wait
    target: Order confirmed
    state: visible
`)

	script, err := LoadScript(path)
	require.NoError(t, err)
	assert.Equal(t, "checkout flow", script.Name)
	assert.Equal(t, path, script.File)
	require.Len(t, script.Steps, 4)
	assert.Equal(t, "textbox[coupon code]", script.Steps[1].Target)
	assert.Equal(t, 5*time.Second, script.Steps[2].Timeout)
	assert.Equal(t, "visible", script.Steps[3].State)
}

func TestLoadScriptNameDefaultsToFileName(t *testing.T) {
	path := writeScript(t, "smoke-test.yaml", `
steps:
  - action: navigate
    url: https://example.com
`)

	script, err := LoadScript(path)
	require.NoError(t, err)
	assert.Equal(t, "smoke-test", script.Name)
}

func TestLoadScriptMissingFile(t *testing.T) {
	_, err := LoadScript(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}

func TestLoadScriptMalformedYAML(t *testing.T) {
	path := writeScript(t, "bad.yaml", "steps: [action: {{")
	_, err := LoadScript(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestLoadScriptRejectsBadTimeout(t *testing.T) {
	path := writeScript(t, "bad-timeout.yaml", `
steps:
  - action: click
    target: Go
    timeout: fast
`)
	_, err := LoadScript(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid timeout "fast"`)
}

func TestScriptValidate(t *testing.T) {
	tests := []struct {
		name string
		step Step
		want string
	}{
		{"navigate without url", Step{Action: "navigate"}, "requires url"},
		{"click without target", Step{Action: "click"}, "requires target"},
		{"wait without target", Step{Action: "wait"}, "requires target"},
		{"fill without value", Step{Action: "fill", Target: "x"}, "requires value"},
		{"select without value", Step{Action: "select", Target: "x"}, "requires value"},
		{"assert without value", Step{Action: "assert_text", Target: "x"}, "requires value"},
		{"missing action", Step{}, "missing action"},
		{"unknown action", Step{Action: "teleport"}, "unknown action"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Script{Name: "x", Steps: []Step{tt.step}}
			err := s.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Contains(t, err.Error(), "step 1")
		})
	}

	empty := &Script{Name: "x"}
	err := empty.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no steps")
}
