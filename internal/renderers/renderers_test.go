package renderers

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/sachi/sachi-go/internal/report"
)

func sampleReport() *report.Report {
	ast := report.NewASTReport("app/models.py")

	user := report.NewClassReport("User", 1, 0, 12)
	login := report.NewFunctionReport("User.login", 7, 4, 8)
	login.AddCheck(report.CheckReport{Rule: report.R1001, Value: 1, Goal: 1, Extra: map[string]int{"calls": 0, "max": 5}})
	user.Functions = append(user.Functions, login)
	ast.Module.Classes = append(ast.Module.Classes, user)

	busy := report.NewFunctionReport("busy", 14, 0, 30)
	busy.Calls = 6
	busy.AddCheck(report.CheckReport{Rule: report.R1001, Value: 0, Goal: 1, Extra: map[string]int{"calls": 6, "max": 5}})
	ast.Module.Functions = append(ast.Module.Functions, busy)

	return &report.Report{
		Targets: []string{"app/models.py", "broken.py"},
		Reports: []*report.ASTReport{ast},
		Errors:  []report.TargetError{{Target: "broken.py", Err: errors.New("invalid syntax at line 2")}},
	}
}

func render(t *testing.T, name string, r *report.Report) string {
	t.Helper()
	renderer, ok := Load(name, Options{})
	require.True(t, ok, "renderer %q not registered", name)
	out, err := RenderString(renderer, r)
	require.NoError(t, err)
	return out
}

func TestNames(t *testing.T) {
	names := Names()
	for _, want := range []string{"html", "json", "raw", "text", "yaml"} {
		assert.Contains(t, names, want)
	}
	assert.IsIncreasing(t, names)
}

func TestLoad_Unknown(t *testing.T) {
	_, ok := Load("pdf", Options{})
	assert.False(t, ok)
}

type countingRenderer struct{}

func (countingRenderer) Render(r *report.Report, w io.Writer) error {
	_, err := io.WriteString(w, strings.Repeat("x", len(r.Reports)))
	return err
}

func TestRegister_Custom(t *testing.T) {
	Register("count", func(Options) Renderer { return countingRenderer{} })
	t.Cleanup(func() {
		mu.Lock()
		delete(registry, "count")
		mu.Unlock()
	})

	assert.Equal(t, "x", render(t, "count", sampleReport()))
	assert.Contains(t, Names(), "count")
}

func TestRawRenderer(t *testing.T) {
	out := render(t, "raw", sampleReport())

	want := "app/models.py:7:4@R1001:User.login:1.00:1.00\n" +
		"app/models.py:14:0@R1001:busy:0.00:1.00\n"
	assert.Equal(t, want, out)
}

func TestRawRenderer_Empty(t *testing.T) {
	assert.Empty(t, render(t, "raw", &report.Report{}))
}

func TestTextRenderer(t *testing.T) {
	out := render(t, "text", sampleReport())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, "app/models.py:14:0 R1001 error Function has too many responsibilities (6 calls, max 5) [busy]", lines[0])
	assert.Equal(t, "broken.py error invalid syntax at line 2", lines[1])
	assert.Equal(t, "2 targets, 1 classes, 2 functions, 2 checks, 1 warnings, 1 errors", lines[2])
}

func TestTextRenderer_Clean(t *testing.T) {
	ast := report.NewASTReport("ok.py")
	out := render(t, "text", report.Single(ast))
	assert.Equal(t, "✓ 1 targets, 0 classes, 0 functions, 0 checks, 0 warnings, 0 errors\n", out)
}

func TestJSONRenderer(t *testing.T) {
	out := render(t, "json", sampleReport())
	require.True(t, gjson.Valid(out))

	assert.Equal(t, int64(2), gjson.Get(out, "summary.targets").Int())
	assert.Equal(t, int64(1), gjson.Get(out, "summary.warnings").Int())
	assert.Equal(t, "busy", gjson.Get(out, "warnings.0.scope").String())
	assert.Equal(t, "R1001", gjson.Get(out, "warnings.0.rule").String())
	assert.Equal(t, "app/models.py", gjson.Get(out, "warnings.0.target").String())
	assert.Equal(t, "User", gjson.Get(out, "reports.0.module.classes.0.name").String())
	assert.Equal(t, int64(6), gjson.Get(out, "reports.0.module.functions.0.calls").Int())
	assert.Equal(t, "broken.py", gjson.Get(out, "errors.0.target").String())
}

func TestJSONRenderer_EmptyArrays(t *testing.T) {
	out := render(t, "json", &report.Report{})
	assert.True(t, gjson.Get(out, "warnings").IsArray())
	assert.True(t, gjson.Get(out, "reports").IsArray())
	assert.False(t, gjson.Get(out, "errors").Exists())
}

func TestYAMLRenderer(t *testing.T) {
	out := render(t, "yaml", sampleReport())

	var doc struct {
		Summary  report.Summary `yaml:"summary"`
		Warnings []struct {
			Target string `yaml:"target"`
			Rule   string `yaml:"rule"`
			Scope  string `yaml:"scope"`
		} `yaml:"warnings"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))

	assert.Equal(t, 2, doc.Summary.Functions)
	require.Len(t, doc.Warnings, 1)
	assert.Equal(t, "R1001", doc.Warnings[0].Rule)
	assert.Equal(t, "busy", doc.Warnings[0].Scope)
}

func TestHTMLRenderer(t *testing.T) {
	r := sampleReport()
	r.Errors[0].Err = errors.New("unexpected <token>")
	out := render(t, "html", r)

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, `<tr class="error"><td><code>app/models.py:14:0</code></td><td>R1001</td><td>busy</td><td>0.00</td>`)
	assert.Contains(t, out, `<tr class="ok">`)
	assert.Contains(t, out, "unexpected &lt;token&gt;")
}

func TestTextRenderer_ColorAddsStyling(t *testing.T) {
	var plain, colored bytes.Buffer
	require.NoError(t, (&TextRenderer{}).Render(sampleReport(), &plain))
	require.NoError(t, (&TextRenderer{Color: true}).Render(sampleReport(), &colored))

	// Styling depends on the terminal profile, it never drops content
	assert.Contains(t, colored.String(), "Function has too many responsibilities")
	assert.GreaterOrEqual(t, colored.Len(), plain.Len())
}
