package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/msto63/tnc/internal/frontend/ast"
	"github.com/msto63/tnc/pkg/core/version"
)

const goodSource = "int twice(n: int):\n" +
	"  return n * 2\n" +
	"out twice(21)\n"

const badSource = "else:\n  x = 1\n"

type testEnv struct {
	dir    string
	config string
}

func newTestEnv(t *testing.T, reportsEnabled bool) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{dir: dir, config: filepath.Join(dir, "tnc.toml")}

	content := fmt.Sprintf(`
[reports]
enabled = %t
path = %q

[output]
color = false
`, reportsEnabled, filepath.Join(dir, "reports.db"))
	if err := os.WriteFile(env.config, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return env
}

func (e *testEnv) file(t *testing.T, name, source string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	if err := os.WriteFile(path, []byte(source), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// run executes the root command with fresh flag values
func (e *testEnv) run(args ...string) (string, string, error) {
	cfgFile, verbose = "", false
	parseFormat, noRecord = "", false
	reportsFile, reportsStatus, reportsSince, reportsLimit = "", "", 0, 20

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--config", e.config}, args...))
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestTokensCommand(t *testing.T) {
	env := newTestEnv(t, false)
	path := env.file(t, "main.tn", "x = 1\n")

	stdout, _, err := env.run("tokens", path)
	if err != nil {
		t.Fatalf("tokens error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) < 4 {
		t.Fatalf("tokens printed %d lines, want at least 4:\n%s", len(lines), stdout)
	}
	if !strings.Contains(lines[0], "'x'") || !strings.Contains(lines[0], "(line 1)") {
		t.Errorf("first token = %q, want x on line 1", lines[0])
	}
}

func TestParseCommand(t *testing.T) {
	env := newTestEnv(t, false)
	path := env.file(t, "main.tn", goodSource)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"tree", []string{"parse", path}, []string{"Program (2 statements)", "FunctionDeclaration int twice(n: int)"}},
		{"yaml", []string{"parse", "--format", "yaml", path}, []string{"kind: Program", "kind: FunctionDeclaration", "name: twice"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := env.run(tt.args...)
			if err != nil {
				t.Fatalf("parse error = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(stdout, want) {
					t.Errorf("output missing %q:\n%s", want, stdout)
				}
			}
		})
	}

	if _, _, err := env.run("parse", "--format", "json", path); err == nil {
		t.Error("parse --format json should fail")
	}
}

func TestParseCommandReportsDiagnostics(t *testing.T) {
	env := newTestEnv(t, false)
	path := env.file(t, "bad.tn", badSource)

	_, stderr, err := env.run("parse", path)
	if err == nil {
		t.Fatal("parse of a bad file should fail")
	}
	if !isReported(err) {
		t.Errorf("error %v should be marked as reported", err)
	}
	want := "Error in file: " + path + "\nSyntax error near line 1: 'else' without a matching 'if'\n"
	if !strings.Contains(stderr, want) {
		t.Errorf("stderr = %q, want it to contain %q", stderr, want)
	}
}

func TestCheckAndReports(t *testing.T) {
	env := newTestEnv(t, true)
	good := env.file(t, "good.tn", goodSource)
	bad := env.file(t, "bad.tn", badSource)

	stdout, stderr, err := env.run("check", good, bad)
	if err == nil {
		t.Fatal("check should fail when a file fails")
	}
	if !strings.Contains(stdout, "ok "+good+" (2 statements, ") {
		t.Errorf("check output missing ok line:\n%s", stdout)
	}
	if strings.Contains(stdout, "Syntax error") {
		t.Errorf("diagnostics leaked to stdout:\n%s", stdout)
	}
	if !strings.Contains(stderr, "Syntax error near line 1") {
		t.Errorf("check stderr missing diagnostic:\n%s", stderr)
	}
	if !strings.Contains(stderr, "Parser error: Parsing failed\n") {
		t.Errorf("check stderr missing summary:\n%s", stderr)
	}

	stdout, _, err = env.run("reports", "list")
	if err != nil {
		t.Fatalf("reports list error = %v", err)
	}
	if !strings.Contains(stdout, good) || !strings.Contains(stdout, bad) {
		t.Errorf("reports list missing runs:\n%s", stdout)
	}

	stdout, _, err = env.run("reports", "list", "--status", "failed")
	if err != nil {
		t.Fatalf("reports list error = %v", err)
	}
	if strings.Contains(stdout, good) {
		t.Errorf("status filter kept the ok run:\n%s", stdout)
	}
	id := regexp.MustCompile(`^[0-9a-f-]{36}`).FindString(stdout)
	if id == "" {
		t.Fatalf("no run ID in:\n%s", stdout)
	}

	stdout, _, err = env.run("reports", "show", id)
	if err != nil {
		t.Fatalf("reports show error = %v", err)
	}
	if !strings.Contains(stdout, "Status:     failed") || !strings.Contains(stdout, "SYNTAX line 1: 'else' without a matching 'if'") {
		t.Errorf("reports show output:\n%s", stdout)
	}

	stdout, _, err = env.run("reports", "prune")
	if err != nil {
		t.Fatalf("reports prune error = %v", err)
	}
	if !strings.HasPrefix(stdout, "pruned 0 runs") {
		t.Errorf("prune output = %q, want nothing pruned", stdout)
	}

	if _, _, err := env.run("reports", "show", "missing"); err == nil {
		t.Error("reports show of an unknown ID should fail")
	}
}

func TestCheckNoRecord(t *testing.T) {
	env := newTestEnv(t, true)
	good := env.file(t, "good.tn", goodSource)

	if _, _, err := env.run("check", "--no-record", good); err != nil {
		t.Fatalf("check error = %v", err)
	}
	stdout, _, err := env.run("reports", "list")
	if err != nil {
		t.Fatalf("reports list error = %v", err)
	}
	if !strings.Contains(stdout, "no runs recorded") {
		t.Errorf("reports list = %q, want no runs", stdout)
	}
}

func TestVersionCommand(t *testing.T) {
	env := newTestEnv(t, false)

	stdout, _, err := env.run("version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(stdout, version.String()+"\n") {
		t.Errorf("version output = %q", stdout)
	}
}

func TestVerboseLogsPhases(t *testing.T) {
	env := newTestEnv(t, false)
	path := env.file(t, "main.tn", goodSource)

	_, stderr, err := env.run("--verbose", "check", path)
	if err != nil {
		t.Fatalf("check error = %v", err)
	}
	if !strings.Contains(stderr, "parse completed") {
		t.Errorf("verbose stderr missing timings:\n%s", stderr)
	}
}

func TestCollectStats(t *testing.T) {
	program := &ast.Program{Body: []ast.Node{
		&ast.WhileLoop{
			Condition: ast.NewStatement("x < 3", 1),
			Block: &ast.Block{Body: []ast.Node{
				ast.NewStatement("x += 1", 2),
			}},
		},
	}}

	stats := collectStats(program)
	if stats.nodes != 5 {
		t.Errorf("nodes = %d, want 5", stats.nodes)
	}
	// Program > WhileLoop > Block > statement
	if stats.maxDepth != 3 {
		t.Errorf("maxDepth = %d, want 3", stats.maxDepth)
	}
}
