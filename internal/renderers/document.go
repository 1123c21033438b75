package renderers

import "github.com/sachi/sachi-go/internal/report"

// document is the structure shared by the json and yaml renderers
type document struct {
	Summary  report.Summary      `json:"summary" yaml:"summary"`
	Warnings []report.Warning    `json:"warnings" yaml:"warnings"`
	Reports  []*report.ASTReport `json:"reports" yaml:"reports"`
	Errors   []targetError       `json:"errors,omitempty" yaml:"errors,omitempty"`
}

type targetError struct {
	Target string `json:"target" yaml:"target"`
	Error  string `json:"error" yaml:"error"`
}

func newDocument(r *report.Report) document {
	doc := document{
		Summary:  r.Summary(),
		Warnings: r.Warnings(),
		Reports:  r.Reports,
	}
	if doc.Warnings == nil {
		doc.Warnings = []report.Warning{}
	}
	if doc.Reports == nil {
		doc.Reports = []*report.ASTReport{}
	}
	for _, e := range r.Errors {
		doc.Errors = append(doc.Errors, targetError{Target: e.Target, Error: e.Err.Error()})
	}
	return doc
}
