package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const busySource = `def busy():
    a()
    b()
    c()
    d()
    e()
    f()
`

// workspace moves into an empty directory used as HOME, so that neither the
// cache nor the history touch the real home directory
func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
	t.Setenv("HOME", dir)
	t.Setenv("NO_COLOR", "1")
	return dir
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	resetFlags(rootCmd)
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestRoot_AnalyzesStdin(t *testing.T) {
	workspace(t)

	code, out, stderr := execute(t, "def f():\n    a()\n")
	require.Equal(t, exitOK, code, stderr)
	assert.Equal(t,
		"<stdin>:1:0@R1001:f:0.80:1.00\n"+
			"<stdin>:1:0@R1002:f:1.00:1.00\n", out)
}

func TestAnalyze_InputAndOutputFiles(t *testing.T) {
	dir := workspace(t)
	input := filepath.Join(dir, "app.py")
	output := filepath.Join(dir, "report.json")
	writeFile(t, input, busySource)

	code, out, stderr := execute(t, "", "analyze", "-i", input, "-o", output, "-r", "json", "--no-cache")
	require.Equal(t, exitOK, code, stderr)
	assert.Empty(t, out)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gjson.GetBytes(data, "summary.functions").Int())
	assert.Equal(t, "R1001", gjson.GetBytes(data, "warnings.0.rule").String())
	assert.Equal(t, input, gjson.GetBytes(data, "warnings.0.target").String())
}

func TestAnalyze_SyntaxError(t *testing.T) {
	workspace(t)

	code, out, stderr := execute(t, "def broken(:\n", "analyze")
	assert.Equal(t, exitError, code)
	assert.Empty(t, out)
	assert.Contains(t, stderr, "Error:")
}

func TestAnalyze_VerboseErrorDetails(t *testing.T) {
	workspace(t)

	code, _, stderr := execute(t, "def broken(:\n", "-v", "analyze", "--no-cache")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "Error: [HIGH] [PARSE] invalid syntax")
	assert.Contains(t, stderr, "line: 1")
	assert.Contains(t, stderr, "Stack trace:")
}

func TestAnalyze_Python2SourceIsRejected(t *testing.T) {
	workspace(t)

	code, out, stderr := execute(t, "print 'hi'\n", "analyze", "--no-cache")
	assert.Equal(t, exitError, code)
	assert.Empty(t, out)
	assert.Contains(t, stderr, "print is not a statement in Python 3")
}

func TestCheck_VerboseLogsDirectoryStats(t *testing.T) {
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, "src", "a.py"), "x = 1\n")
	writeFile(t, filepath.Join(dir, "src", "notes.txt"), "todo\n")

	code, _, stderr := execute(t, "", "-v", "check", "--no-cache", "src")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stderr, "Scanned directory")
	assert.Contains(t, stderr, "source=1")
	assert.Contains(t, stderr, "skipped=1")
}

func TestCheck_ConfiguredExcludesKeepDefaults(t *testing.T) {
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, ".sachi", "config.yaml"), "walk:\n  exclude_dirs: [vendor]\n")
	writeFile(t, filepath.Join(dir, "src", "app.py"), "x = 1\n")
	writeFile(t, filepath.Join(dir, "src", "vendor", "lib.py"), busySource)
	writeFile(t, filepath.Join(dir, "src", ".venv", "site.py"), busySource)

	code, out, stderr := execute(t, "", "check", "-r", "json", "--no-cache", "src")
	require.Equal(t, exitOK, code, stderr)
	assert.Equal(t, int64(1), gjson.Get(out, "summary.targets").Int())
}

func TestAnalyze_UnknownRendererFallsBackToRaw(t *testing.T) {
	workspace(t)

	code, out, _ := execute(t, "def f():\n    pass\n", "analyze", "-r", "nope")
	require.Equal(t, exitOK, code)
	assert.True(t, strings.HasPrefix(out, "<stdin>:1:0@R1001:f:"))
}

func TestCheck_FailOn(t *testing.T) {
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, "src", "busy.py"), busySource)

	code, _, stderr := execute(t, "", "check", "--fail-on", "never", "src")
	assert.Equal(t, exitOK, code, stderr)

	code, out, _ := execute(t, "", "check", "--fail-on", "warning", "src")
	assert.Equal(t, exitThresholdHit, code)
	assert.Contains(t, out, "@R1001:busy:0.00:1.00")

	code, _, stderr = execute(t, "", "check", "--fail-on", "sometimes", "src")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "invalid fail-on level")
}

func TestCheck_TargetErrorsDoNotStopTheRun(t *testing.T) {
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, "src", "good.py"), busySource)
	writeFile(t, filepath.Join(dir, "src", "bad.py"), "def broken(:\n")

	code, out, stderr := execute(t, "", "check", "-r", "text", "--no-cache", "src")
	assert.Equal(t, exitError, code)
	assert.Contains(t, out, "busy")
	assert.Contains(t, out, "bad.py error")
	assert.Contains(t, stderr, "1 of 2 targets could not be analyzed")
}

func TestCheck_NoSourceFiles(t *testing.T) {
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, "docs", "README.md"), "# docs\n")

	code, _, stderr := execute(t, "", "check", "docs")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "no source files found")
}

func TestCheck_OpenRequiresHTML(t *testing.T) {
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, "a.py"), busySource)

	code, _, stderr := execute(t, "", "check", "--open", "a.py")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "--open requires the html renderer")
}

func TestCheck_RecordAndHistory(t *testing.T) {
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, "a.py"), busySource)

	code, _, stderr := execute(t, "", "check", "--record", "a.py")
	require.Equal(t, exitOK, code, stderr)

	code, out, stderr := execute(t, "", "history")
	require.Equal(t, exitOK, code, stderr)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))

	code, out, _ = execute(t, "", "history", "-f", "json")
	require.Equal(t, exitOK, code)
	runs := gjson.Parse(out).Array()
	require.Len(t, runs, 1)
	id := runs[0].Get("id").String()
	assert.Equal(t, int64(1), runs[0].Get("warnings").Int())

	code, out, stderr = execute(t, "", "history", id[:8])
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, out, "Run:       "+id)
	assert.Contains(t, out, "a.py:1:0 R1001 busy 0.00/1.00")

	code, _, stderr = execute(t, "", "history", "zzzz")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "no run matches")
}

func TestCache_StatsAndClear(t *testing.T) {
	workspace(t)

	code, _, stderr := execute(t, busySource)
	require.Equal(t, exitOK, code, stderr)

	code, out, stderr := execute(t, "", "cache", "stats")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, out, "Entries: 1 (0 expired)")

	code, out, _ = execute(t, "", "cache", "clear")
	require.Equal(t, exitOK, code)
	assert.Equal(t, "Removed 1 cached reports\n", out)
}

func TestConfig_InitShowGet(t *testing.T) {
	dir := workspace(t)

	code, out, stderr := execute(t, "", "config", "init")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, out, filepath.Join(".sachi", "config.yaml"))
	assert.FileExists(t, filepath.Join(dir, ".sachi", "config.yaml"))

	code, _, stderr = execute(t, "", "config", "init")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "already exists")

	code, out, _ = execute(t, "", "config", "get", "rules.max_calls")
	require.Equal(t, exitOK, code)
	assert.Equal(t, "5\n", out)

	t.Setenv("SACHI_RULES_MAX_CALLS", "7")
	code, out, _ = execute(t, "", "config", "get", "rules.max_calls")
	require.Equal(t, exitOK, code)
	assert.Equal(t, "7\n", out)

	code, out, _ = execute(t, "", "config", "show")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "max_calls: 7")
}

func TestConfig_InvalidFileFailsEarly(t *testing.T) {
	dir := workspace(t)
	path := filepath.Join(dir, "bad.yaml")
	writeFile(t, path, "checkers: [nope]\n")

	code, _, stderr := execute(t, "", "--config", path, "renderers")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "nope")
}

func TestRenderersAndRules(t *testing.T) {
	workspace(t)

	code, out, _ := execute(t, "", "renderers")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "raw (default)\n")
	assert.Contains(t, out, "html\n")

	code, out, _ = execute(t, "", "rules")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "R1001")
	assert.Contains(t, out, "limit=5")
	assert.Contains(t, out, "R1002")
}

func TestVersion(t *testing.T) {
	workspace(t)

	code, out, _ := execute(t, "", "--version")
	require.Equal(t, exitOK, code)
	assert.True(t, strings.HasPrefix(out, "sachi dev\n"))
}
