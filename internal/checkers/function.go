package checkers

import (
	"github.com/sachi/sachi-go/internal/analyzer"
	"github.com/sachi/sachi-go/internal/report"
	"github.com/sachi/sachi-go/internal/rules"
)

// FunctionChecker counts the calls made by each scope and scores functions
// against R1001: a function should not carry too many responsibilities.
type FunctionChecker struct {
	MaxCalls int
}

func (c *FunctionChecker) Name() string { return "function" }

// VisitCall attributes the call to the innermost scope
func (c *FunctionChecker) VisitCall(a *analyzer.Analyzer, n analyzer.Node) analyzer.Scope {
	if s := a.Peek(); s != nil {
		s.Calls++
	}
	return nil
}

// VisitFunction scores the function once its body was visited
func (c *FunctionChecker) VisitFunction(a *analyzer.Analyzer, n analyzer.Node) analyzer.Scope {
	return analyzer.ExitFunc(func(a *analyzer.Analyzer) {
		s := a.Peek()
		s.AddCheck(report.CheckReport{
			Rule:  report.R1001,
			Value: rules.Responsibilities(s.Calls, c.MaxCalls),
			Goal:  1,
			Extra: map[string]int{
				"calls": s.Calls,
				"max":   c.MaxCalls,
			},
		})
	})
}
