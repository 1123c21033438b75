package report

import "sort"

// Report aggregates the analysis of several targets
type Report struct {
	Targets []string      `json:"targets" yaml:"targets"`
	Reports []*ASTReport  `json:"reports" yaml:"reports"`
	Errors  []TargetError `json:"-" yaml:"-"`
}

// Single wraps one ASTReport into a Report
func Single(r *ASTReport) *Report {
	return &Report{
		Targets: []string{r.Target},
		Reports: []*ASTReport{r},
	}
}

// Warning is a failed check together with the target it belongs to
type Warning struct {
	Target string `json:"target" yaml:"target"`
	CheckReport `yaml:",inline"`
}

// Checks returns every check of every target, paired with its target
func (r *Report) Checks() []Warning {
	var out []Warning
	for _, ast := range r.Reports {
		if ast == nil {
			continue
		}
		for _, c := range ast.Checks() {
			out = append(out, Warning{Target: ast.Target, CheckReport: c})
		}
	}
	return out
}

// Warnings returns the checks that did not reach their goal,
// ordered by target, line, column and rule
func (r *Report) Warnings() []Warning {
	var out []Warning
	for _, w := range r.Checks() {
		if !w.Passed() {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Target != b.Target {
			return a.Target < b.Target
		}
		if a.Lineno != b.Lineno {
			return a.Lineno < b.Lineno
		}
		if a.Col != b.Col {
			return a.Col < b.Col
		}
		return a.Rule < b.Rule
	})
	return out
}

// Summary holds aggregate counts for a report
type Summary struct {
	Targets   int `json:"targets" yaml:"targets"`
	Classes   int `json:"classes" yaml:"classes"`
	Functions int `json:"functions" yaml:"functions"`
	Checks    int `json:"checks" yaml:"checks"`
	Warnings  int `json:"warnings" yaml:"warnings"`
	Errors    int `json:"errors" yaml:"errors"`
	Cached    int `json:"cached" yaml:"cached"`
}

// Summary computes aggregate counts
func (r *Report) Summary() Summary {
	s := Summary{
		Targets: len(r.Targets),
		Errors:  len(r.Errors),
	}
	for _, ast := range r.Reports {
		if ast == nil {
			continue
		}
		s.Classes += ast.Count(KindClass)
		s.Functions += ast.Count(KindFunction)
		s.Checks += len(ast.Checks())
		if ast.Cached {
			s.Cached++
		}
	}
	s.Warnings = len(r.Warnings())
	return s
}

// MaxSeverity returns the worst severity among all checks
func (r *Report) MaxSeverity() Severity {
	worst := SeverityOK
	for _, w := range r.Checks() {
		if sev := w.Severity(); sev.Rank() > worst.Rank() {
			worst = sev
		}
	}
	return worst
}
