package tools

import "github.com/sachi/sachi-go/internal/report"

// AnalyzeInput are the arguments of sachi_analyze
type AnalyzeInput struct {
	Source   string `json:"source,omitempty" jsonschema:"Python source code to analyze"`
	Path     string `json:"path,omitempty" jsonschema:"path of a Python file to analyze, used when source is empty"`
	Renderer string `json:"renderer,omitempty" jsonschema:"renderer used for the text output: raw, text, json, yaml or html"`
}

// AnalyzeOutput is the result of sachi_analyze
type AnalyzeOutput struct {
	Target   string           `json:"target"`
	Rendered string           `json:"rendered"`
	Summary  report.Summary   `json:"summary"`
	Warnings []report.Warning `json:"warnings"`
}

// RulesInput are the arguments of sachi_rules
type RulesInput struct{}

// RuleInfo describes one rule of the coding standard
type RuleInfo struct {
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Checker     string  `json:"checker"`
	Goal        float64 `json:"goal"`
	Limit       int     `json:"limit"`
}

// RulesOutput is the result of sachi_rules
type RulesOutput struct {
	Rules []RuleInfo `json:"rules"`
}
