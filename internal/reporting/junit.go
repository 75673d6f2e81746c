// File: internal/reporting/junit.go
package reporting

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/beevik/etree"
)

// JUnitWriter emits the report in the JUnit XML dialect most CI systems
// ingest: one testsuite per script, one testcase per step.
type JUnitWriter struct{}

func (jw *JUnitWriter) Write(w io.Writer, report *Report) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	suites := doc.CreateElement("testsuites")
	suites.CreateAttr("name", report.Tool)
	suites.CreateAttr("time", seconds(report.Finished.Sub(report.Started)))

	for _, script := range report.Scripts {
		suite := suites.CreateElement("testsuite")
		suite.CreateAttr("name", script.Name)
		suite.CreateAttr("tests", strconv.Itoa(len(script.Steps)))
		suite.CreateAttr("time", seconds(script.Duration))

		failures := 0
		skipped := 0
		for _, step := range script.Steps {
			tc := suite.CreateElement("testcase")
			tc.CreateAttr("name", stepName(step))
			tc.CreateAttr("classname", script.Name)
			tc.CreateAttr("time", seconds(step.Duration))

			switch step.Status {
			case StatusFailed:
				failures++
				failure := tc.CreateElement("failure")
				failure.CreateAttr("message", step.Error)
				if step.Strategy != "" {
					failure.SetText(fmt.Sprintf("strategy=%s confidence=%.2f", step.Strategy, step.Confidence))
				}
			case StatusSkipped:
				skipped++
				tc.CreateElement("skipped")
			}
		}
		suite.CreateAttr("failures", strconv.Itoa(failures))
		suite.CreateAttr("skipped", strconv.Itoa(skipped))
	}

	doc.Indent(2)
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write JUnit report: %w", err)
	}
	return nil
}

func stepName(step StepResult) string {
	if step.Target != "" {
		return fmt.Sprintf("%02d %s %q", step.Index+1, step.Action, step.Target)
	}
	return fmt.Sprintf("%02d %s", step.Index+1, step.Action)
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}
