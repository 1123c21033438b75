package report

import (
	"fmt"
	"strings"
)

// ERule identifies a coding-standard rule
type ERule int

const (
	R1001 ERule = iota + 1 // Function has too many responsibilities
	R1002                  // Function is too long to read
)

var ruleDescriptions = map[ERule]string{
	R1001: "Function has too many responsibilities",
	R1002: "Function is too long to read",
}

// Rules returns every known rule in ascending order
func Rules() []ERule {
	return []ERule{R1001, R1002}
}

// String returns the rule code, e.g. "R1001"
func (r ERule) String() string {
	return fmt.Sprintf("R%d", 1000+int(r))
}

// Description returns a one-line explanation of the rule
func (r ERule) Description() string {
	if d, ok := ruleDescriptions[r]; ok {
		return d
	}
	return "Unknown rule"
}

// ParseRule converts a rule code back into an ERule
func ParseRule(s string) (ERule, error) {
	for _, r := range Rules() {
		if strings.EqualFold(r.String(), s) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown rule: %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (r ERule) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (r *ERule) UnmarshalText(text []byte) error {
	parsed, err := ParseRule(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// MarshalYAML encodes the rule as its code
func (r ERule) MarshalYAML() (interface{}, error) {
	return r.String(), nil
}

// Severity classifies how far a check is from its goal
type Severity string

const (
	SeverityOK      Severity = "ok"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Rank orders severities from ok (0) to error (3)
func (s Severity) Rank() int {
	switch s {
	case SeverityInfo:
		return 1
	case SeverityWarning:
		return 2
	case SeverityError:
		return 3
	default:
		return 0
	}
}

// Kind is the kind of scope a ScopeReport describes
type Kind string

const (
	KindModule   Kind = "module"
	KindClass    Kind = "class"
	KindFunction Kind = "function"
)

// CheckReport is the outcome of one rule applied to one scope
type CheckReport struct {
	Rule   ERule          `json:"rule" yaml:"rule"`
	Value  float64        `json:"value" yaml:"value"`
	Goal   float64        `json:"goal" yaml:"goal"`
	Extra  map[string]int `json:"extra,omitempty" yaml:"extra,omitempty"`
	Scope  string         `json:"scope" yaml:"scope"`
	Lineno int            `json:"lineno" yaml:"lineno"`
	Col    int            `json:"col" yaml:"col"`
}

// Passed reports whether the check reached its goal
func (c CheckReport) Passed() bool {
	return c.Value >= c.Goal
}

// Severity derives the severity from the ratio between value and goal
func (c CheckReport) Severity() Severity {
	if c.Passed() {
		return SeverityOK
	}
	if c.Value <= 0 {
		return SeverityError
	}
	if c.Goal > 0 && c.Value/c.Goal >= 0.5 {
		return SeverityInfo
	}
	return SeverityWarning
}

// Message returns a human-readable description of the check
func (c CheckReport) Message() string {
	msg := c.Rule.Description()
	switch c.Rule {
	case R1001:
		msg = fmt.Sprintf("%s (%d calls, max %d)", msg, c.Extra["calls"], c.Extra["max"])
	case R1002:
		msg = fmt.Sprintf("%s (%d lines, max %d)", msg, c.Extra["lines"], c.Extra["max"])
	}
	return msg
}

// ScopeReport is a node of the report tree: a module, class or function
type ScopeReport struct {
	Kind      Kind           `json:"kind" yaml:"kind"`
	Name      string         `json:"name,omitempty" yaml:"name,omitempty"`
	Lineno    int            `json:"lineno,omitempty" yaml:"lineno,omitempty"`
	Col       int            `json:"col,omitempty" yaml:"col,omitempty"`
	EndLineno int            `json:"end_lineno,omitempty" yaml:"end_lineno,omitempty"`
	Async     bool           `json:"async,omitempty" yaml:"async,omitempty"`
	Calls     int            `json:"calls" yaml:"calls"`
	Classes   []*ScopeReport `json:"classes,omitempty" yaml:"classes,omitempty"`
	Functions []*ScopeReport `json:"functions,omitempty" yaml:"functions,omitempty"`
	Checks    []CheckReport  `json:"checks,omitempty" yaml:"checks,omitempty"`
}

// NewModuleReport creates the root scope of a source file
func NewModuleReport() *ScopeReport {
	return &ScopeReport{Kind: KindModule}
}

// NewClassReport creates a class scope
func NewClassReport(name string, lineno, col, endLineno int) *ScopeReport {
	return &ScopeReport{Kind: KindClass, Name: name, Lineno: lineno, Col: col, EndLineno: endLineno}
}

// NewFunctionReport creates a function scope
func NewFunctionReport(name string, lineno, col, endLineno int) *ScopeReport {
	return &ScopeReport{Kind: KindFunction, Name: name, Lineno: lineno, Col: col, EndLineno: endLineno}
}

// Lines returns the number of source lines spanned by the scope
func (s *ScopeReport) Lines() int {
	if s.EndLineno < s.Lineno || s.Lineno == 0 {
		return 0
	}
	return s.EndLineno - s.Lineno + 1
}

// AddCheck attaches a check to the scope, stamping the scope position on it
func (s *ScopeReport) AddCheck(c CheckReport) {
	c.Scope = s.Name
	c.Lineno = s.Lineno
	c.Col = s.Col
	s.Checks = append(s.Checks, c)
}

// Walk visits s and every nested scope depth-first, classes before functions.
// Returning false from fn stops descent into that scope's children.
func (s *ScopeReport) Walk(fn func(*ScopeReport) bool) {
	if s == nil || !fn(s) {
		return
	}
	for _, c := range s.Classes {
		c.Walk(fn)
	}
	for _, f := range s.Functions {
		f.Walk(fn)
	}
}

// ASTReport is the analysis report of a single source
type ASTReport struct {
	Target   string       `json:"target" yaml:"target"`
	Language string       `json:"language" yaml:"language"`
	Module   *ScopeReport `json:"module" yaml:"module"`
	Cached   bool         `json:"cached,omitempty" yaml:"cached,omitempty"`
}

// NewASTReport creates an empty report for target
func NewASTReport(target string) *ASTReport {
	return &ASTReport{
		Target:   target,
		Language: "python",
		Module:   NewModuleReport(),
	}
}

// Checks returns every check of the report in tree order
func (r *ASTReport) Checks() []CheckReport {
	var checks []CheckReport
	r.Module.Walk(func(s *ScopeReport) bool {
		checks = append(checks, s.Checks...)
		return true
	})
	return checks
}

// Count returns the number of scopes of the given kind
func (r *ASTReport) Count(kind Kind) int {
	n := 0
	r.Module.Walk(func(s *ScopeReport) bool {
		if s.Kind == kind {
			n++
		}
		return true
	})
	return n
}

// TargetError records a target that could not be analyzed
type TargetError struct {
	Target string `json:"target" yaml:"target"`
	Err    error  `json:"-" yaml:"-"`
}

func (e TargetError) Error() string {
	return fmt.Sprintf("%s: %v", e.Target, e.Err)
}

func (e TargetError) Unwrap() error {
	return e.Err
}
