// File: internal/reporting/html.go
package reporting

import (
	"fmt"
	"html/template"
	"io"
	"time"
)

// HTMLWriter emits a self-contained, human-readable report page.
type HTMLWriter struct{}

var htmlFuncs = template.FuncMap{
	"fmtDuration": func(d time.Duration) string { return d.Round(time.Millisecond).String() },
	"fmtTime":     func(t time.Time) string { return t.Format("2006-01-02 15:04:05 MST") },
	"fmtConf": func(c float64) string {
		if c == 0 {
			return ""
		}
		return fmt.Sprintf("%.2f", c)
	},
}

var htmlTemplate = template.Must(template.New("report").Funcs(htmlFuncs).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Tool}} report {{.ID}}</title>
<style>
  body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2rem; color: #1c1e21; }
  h1 { font-size: 1.4rem; }
  .summary { margin-bottom: 1.5rem; }
  .script { border: 1px solid #ddd; border-radius: 6px; margin-bottom: 1rem; }
  .script > header { padding: .6rem 1rem; font-weight: 600; }
  .passed > header { background: #e6f4ea; }
  .failed > header { background: #fce8e6; }
  .skipped > header { background: #f1f3f4; }
  table { width: 100%; border-collapse: collapse; font-size: .9rem; }
  th, td { text-align: left; padding: .4rem .8rem; border-top: 1px solid #eee; }
  td.status-passed { color: #188038; }
  td.status-failed { color: #d93025; }
  td.error { color: #d93025; }
  .meta { color: #5f6368; font-size: .85rem; }
</style>
</head>
<body>
<h1>{{.Tool}} test report</h1>
<div class="summary meta">
  Run {{.ID}} &middot; started {{fmtTime .Started}} &middot; took {{fmtDuration (.Finished.Sub .Started)}}
</div>
{{range .Scripts}}
<div class="script {{.Status}}">
  <header>{{.Name}} &mdash; {{.Status}} ({{fmtDuration .Duration}})</header>
  {{if .Error}}<div class="meta" style="padding: 0 1rem .5rem">{{.Error}}</div>{{end}}
  <table>
    <tr><th>#</th><th>Action</th><th>Target</th><th>Status</th><th>Strategy</th><th>Confidence</th><th>Duration</th><th>Error</th></tr>
    {{range .Steps}}
    <tr>
      <td>{{.Index}}</td>
      <td>{{.Action}}</td>
      <td>{{.Target}}</td>
      <td class="status-{{.Status}}">{{.Status}}</td>
      <td>{{.Strategy}}</td>
      <td>{{fmtConf .Confidence}}</td>
      <td>{{fmtDuration .Duration}}</td>
      <td class="error">{{.Error}}</td>
    </tr>
    {{end}}
  </table>
</div>
{{end}}
</body>
</html>
`))

func (hw *HTMLWriter) Write(w io.Writer, report *Report) error {
	if err := htmlTemplate.Execute(w, report); err != nil {
		return fmt.Errorf("failed to render HTML report: %w", err)
	}
	return nil
}
