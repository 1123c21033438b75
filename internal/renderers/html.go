package renderers

import (
	"fmt"
	"html/template"
	"io"

	"github.com/sachi/sachi-go/internal/report"
)

var pageTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"value": func(v float64) string { return fmt.Sprintf("%.2f", v) },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>sachi report</title>
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2rem; color: #101F38; }
table { border-collapse: collapse; width: 100%; }
th, td { text-align: left; padding: 0.3rem 0.6rem; border-bottom: 1px solid #dce0e5; }
.ok { color: #8BC34A; } .info { color: #2196F3; } .warning { color: #c79100; } .error { color: #e53935; }
</style>
</head>
<body>
<h1>sachi report</h1>
<p>{{.Summary.Targets}} targets, {{.Summary.Classes}} classes, {{.Summary.Functions}} functions, {{.Summary.Checks}} checks, {{.Summary.Warnings}} warnings, {{.Summary.Errors}} errors</p>
{{- if .Errors}}
<h2>Errors</h2>
<ul>
{{- range .Errors}}
<li class="error"><code>{{.Target}}</code>: {{.Error}}</li>
{{- end}}
</ul>
{{- end}}
<h2>Checks</h2>
<table>
<tr><th>Location</th><th>Rule</th><th>Scope</th><th>Value</th><th>Goal</th><th>Severity</th><th>Message</th></tr>
{{- range .Checks}}
<tr class="{{.Severity}}"><td><code>{{.Target}}:{{.Lineno}}:{{.Col}}</code></td><td>{{.Rule}}</td><td>{{.Scope}}</td><td>{{value .Value}}</td><td>{{value .Goal}}</td><td>{{.Severity}}</td><td>{{.Message}}</td></tr>
{{- end}}
</table>
</body>
</html>
`))

type page struct {
	Summary report.Summary
	Errors  []targetError
	Checks  []report.Warning
}

// HTMLRenderer writes a standalone page listing every check
type HTMLRenderer struct{}

func (f *HTMLRenderer) Render(r *report.Report, w io.Writer) error {
	doc := newDocument(r)
	return pageTemplate.Execute(w, page{
		Summary: doc.Summary,
		Errors:  doc.Errors,
		Checks:  r.Checks(),
	})
}
