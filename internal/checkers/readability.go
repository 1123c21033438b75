package checkers

import (
	"github.com/sachi/sachi-go/internal/analyzer"
	"github.com/sachi/sachi-go/internal/report"
	"github.com/sachi/sachi-go/internal/rules"
)

// ReadabilityChecker scores functions against R1002: a function should fit
// on a screen.
type ReadabilityChecker struct {
	MaxLines int
}

func (c *ReadabilityChecker) Name() string { return "readability" }

func (c *ReadabilityChecker) VisitFunction(a *analyzer.Analyzer, n analyzer.Node) analyzer.Scope {
	lines := n.Lines()
	return analyzer.ExitFunc(func(a *analyzer.Analyzer) {
		a.Peek().AddCheck(report.CheckReport{
			Rule:  report.R1002,
			Value: rules.Readability(lines, c.MaxLines),
			Goal:  1,
			Extra: map[string]int{
				"lines": lines,
				"max":   c.MaxLines,
			},
		})
	})
}
