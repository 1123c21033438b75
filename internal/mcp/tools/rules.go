package tools

import (
	"github.com/sachi/sachi-go/internal/checkers"
	"github.com/sachi/sachi-go/internal/report"
)

// ListRules returns the rule catalogue for the given limits
func ListRules(opts checkers.Options) RulesOutput {
	out := RulesOutput{}
	for _, rule := range report.Rules() {
		info := RuleInfo{
			Code:        rule.String(),
			Description: rule.Description(),
			Goal:        1,
		}
		switch rule {
		case report.R1001:
			info.Checker = "function"
			info.Limit = opts.MaxCalls
		case report.R1002:
			info.Checker = "readability"
			info.Limit = opts.MaxLines
		}
		out.Rules = append(out.Rules, info)
	}
	return out
}
