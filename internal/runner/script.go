// File: internal/runner/script.go
package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Script is one declarative test: a name and an ordered step list. Steps
// address elements with the same natural-language or role[description]
// syntax the resolution engine accepts.
type Script struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`

	// File is where the script was loaded from; not part of the YAML.
	File string `yaml:"-"`
}

// Step is one action in a script.
type Step struct {
	// Action is one of: navigate, click, fill, select, wait, assert_text.
	Action string `yaml:"action"`
	// URL is the navigation target for navigate steps.
	URL string `yaml:"url,omitempty"`
	// Target is the element description for element-oriented steps.
	Target string `yaml:"target,omitempty"`
	// Value is the fill text, the select option, or the expected text for
	// assert_text.
	Value string `yaml:"value,omitempty"`
	// State is the lifecycle state wait steps poll for; defaults to visible.
	State string `yaml:"state,omitempty"`
	// Timeout overrides the per-step budget.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// UnmarshalYAML accepts human-readable timeout strings ("5s", "1m30s") in
// place of raw nanosecond integers.
func (st *Step) UnmarshalYAML(value *yaml.Node) error {
	type rawStep struct {
		Action  string `yaml:"action"`
		URL     string `yaml:"url"`
		Target  string `yaml:"target"`
		Value   string `yaml:"value"`
		State   string `yaml:"state"`
		Timeout string `yaml:"timeout"`
	}
	var raw rawStep
	if err := value.Decode(&raw); err != nil {
		return err
	}
	st.Action = raw.Action
	st.URL = raw.URL
	st.Target = raw.Target
	st.Value = raw.Value
	st.State = raw.State
	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", raw.Timeout, err)
		}
		st.Timeout = d
	}
	return nil
}

// LoadScript parses and validates a YAML test script.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script %s: %w", path, err)
	}

	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("failed to parse script %s: %w", path, err)
	}
	script.File = path
	if script.Name == "" {
		script.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := script.Validate(); err != nil {
		return nil, fmt.Errorf("invalid script %s: %w", path, err)
	}
	return &script, nil
}

// Validate checks that every step is well formed before execution starts, so
// a typo fails the run upfront rather than mid-script.
func (s *Script) Validate() error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("script has no steps")
	}
	for i, step := range s.Steps {
		if err := step.validate(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

func (st *Step) validate() error {
	switch st.Action {
	case "navigate":
		if st.URL == "" {
			return fmt.Errorf("navigate requires url")
		}
	case "click", "wait":
		if st.Target == "" {
			return fmt.Errorf("%s requires target", st.Action)
		}
	case "fill", "select", "assert_text":
		if st.Target == "" {
			return fmt.Errorf("%s requires target", st.Action)
		}
		if st.Value == "" {
			return fmt.Errorf("%s requires value", st.Action)
		}
	case "":
		return fmt.Errorf("missing action")
	default:
		return fmt.Errorf("unknown action %q (supported: navigate, click, fill, select, wait, assert_text)", st.Action)
	}
	return nil
}
