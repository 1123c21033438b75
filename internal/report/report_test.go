package report

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleReport(target string) *ASTReport {
	ast := NewASTReport(target)

	user := NewClassReport("User", 2, 0, 8)
	login := NewFunctionReport("User.login", 3, 4, 4)
	login.AddCheck(CheckReport{Rule: R1001, Value: 1, Goal: 1})
	user.Functions = append(user.Functions, login)
	ast.Module.Classes = append(ast.Module.Classes, user)

	busy := NewFunctionReport("busy", 10, 0, 20)
	busy.Calls = 5
	busy.AddCheck(CheckReport{Rule: R1001, Value: 0, Goal: 1, Extra: map[string]int{"calls": 5, "max": 5}})
	busy.AddCheck(CheckReport{Rule: R1002, Value: 0.8, Goal: 1, Extra: map[string]int{"lines": 11, "max": 10}})
	ast.Module.Functions = append(ast.Module.Functions, busy)

	return ast
}

func TestERule_String(t *testing.T) {
	assert.Equal(t, "R1001", R1001.String())
	assert.Equal(t, "R1002", R1002.String())

	r, err := ParseRule("r1002")
	require.NoError(t, err)
	assert.Equal(t, R1002, r)

	_, err = ParseRule("R9999")
	assert.Error(t, err)
}

func TestERule_JSONAndYAML(t *testing.T) {
	data, err := json.Marshal(CheckReport{Rule: R1001, Value: 0.5, Goal: 1})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"rule":"R1001"`)

	var back CheckReport
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, R1001, back.Rule)

	out, err := yaml.Marshal(CheckReport{Rule: R1002})
	require.NoError(t, err)
	assert.Contains(t, string(out), "rule: R1002")
}

func TestCheckReport_Severity(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		goal  float64
		want  Severity
	}{
		{"goal reached", 1, 1, SeverityOK},
		{"above goal", 1.2, 1, SeverityOK},
		{"close to goal", 0.6, 1, SeverityInfo},
		{"half way", 0.5, 1, SeverityInfo},
		{"far from goal", 0.2, 1, SeverityWarning},
		{"exhausted", 0, 1, SeverityError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := CheckReport{Rule: R1001, Value: tt.value, Goal: tt.goal}
			assert.Equal(t, tt.want, c.Severity())
		})
	}
}

func TestScopeReport_AddCheckStampsPosition(t *testing.T) {
	fn := NewFunctionReport("Operation.result", 23, 4, 24)
	fn.AddCheck(CheckReport{Rule: R1001, Value: 0.8, Goal: 1})

	require.Len(t, fn.Checks, 1)
	assert.Equal(t, "Operation.result", fn.Checks[0].Scope)
	assert.Equal(t, 23, fn.Checks[0].Lineno)
	assert.Equal(t, 4, fn.Checks[0].Col)
	assert.Equal(t, 2, fn.Lines())
}

func TestASTReport_Counts(t *testing.T) {
	ast := sampleReport("a.py")

	assert.Equal(t, 1, ast.Count(KindClass))
	assert.Equal(t, 2, ast.Count(KindFunction))
	assert.Len(t, ast.Checks(), 3)
}

func TestReport_WarningsOrderedAndFiltered(t *testing.T) {
	r := &Report{
		Targets: []string{"b.py", "a.py"},
		Reports: []*ASTReport{sampleReport("b.py"), sampleReport("a.py")},
	}

	warnings := r.Warnings()
	require.Len(t, warnings, 4)

	assert.Equal(t, "a.py", warnings[0].Target)
	assert.Equal(t, R1001, warnings[0].Rule)
	assert.Equal(t, "a.py", warnings[1].Target)
	assert.Equal(t, R1002, warnings[1].Rule)
	assert.Equal(t, "b.py", warnings[2].Target)

	for _, w := range warnings {
		assert.False(t, w.Passed())
	}
}

func TestReport_Summary(t *testing.T) {
	cached := sampleReport("c.py")
	cached.Cached = true

	r := &Report{
		Targets: []string{"a.py", "c.py", "broken.py"},
		Reports: []*ASTReport{sampleReport("a.py"), cached},
		Errors:  []TargetError{{Target: "broken.py", Err: errors.New("syntax error")}},
	}

	s := r.Summary()
	assert.Equal(t, Summary{
		Targets:   3,
		Classes:   2,
		Functions: 4,
		Checks:    6,
		Warnings:  4,
		Errors:    1,
		Cached:    1,
	}, s)
	assert.Equal(t, SeverityError, r.MaxSeverity())
}

func TestCheckReport_Message(t *testing.T) {
	c := CheckReport{Rule: R1001, Value: 0, Goal: 1, Extra: map[string]int{"calls": 7, "max": 5}}
	assert.Equal(t, "Function has too many responsibilities (7 calls, max 5)", c.Message())
}
