package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), exitCode(err)
}

func TestPlan_Stdin(t *testing.T) {
	out, errOut, code := execute(t, "5 fuel scoop\n5 Refinery\n\n5 Cannon\n", "plan", "--color=never")
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d (stderr %q)", code, errOut)
	}
	for _, want := range []string{
		"Requested:\n  5 Fuel Scoop\n  5 Refinery\n",
		"There is 1 possible unlocking path.",
		"Unlocking path 1 (2 providers):",
		"  The Dweller\n",
		"  Marsha Hicks      (5  Fuel Scoop, 5  Refinery)",
		"Additionally you will get access to:",
		"5  Cannon",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}
	if strings.Contains(errOut, "Enter the requested capabilities") {
		t.Fatalf("expected no prompt for piped input, got %q", errOut)
	}
}

func TestPlan_FileDetailed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "requests.txt")
	if err := os.WriteFile(path, []byte("# pinned scoop\n> 5 Fuel Scoop\n"), 0o644); err != nil {
		t.Fatalf("write requests: %v", err)
	}
	out, errOut, code := execute(t, "", "plan", "--detailed", "--color=never", path)
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d (stderr %q)", code, errOut)
	}
	if !strings.Contains(out, "Marsha Hicks:\n") || !strings.Contains(out, ">   5  Fuel Scoop") {
		t.Fatalf("expected pinned marker on Marsha Hicks, got:\n%s", out)
	}
}

func TestPlan_ExitCodes(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		code  int
	}{
		{name: "no requests", stdin: "\n", code: exitUncovered},
		{name: "only rejected lines", stdin: "9 Fuel Scoop\n5 Warp Core\n", code: exitUncovered},
		{name: "infeasible pins", stdin: "> 5 Fuel Scoop\n> 5 Refinery\n", code: exitInfeasible},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, code := execute(t, tt.stdin, "plan", "--color=never")
			if code != tt.code {
				t.Fatalf("expected exit %d, got %d", tt.code, code)
			}
		})
	}
}

func TestPlan_WarnsOnRejectedLines(t *testing.T) {
	_, errOut, code := execute(t, "5 Warp Core\n5 Fuel Scoop\n", "plan", "--color=never")
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(errOut, "line 1") || !strings.Contains(errOut, "Warp Core") {
		t.Fatalf("expected a warning for line 1, got %q", errOut)
	}
}

func TestPlan_MissingCoverage(t *testing.T) {
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "catalog.yaml")
	manifest := `apiVersion: unlockpath.bayleafwalker.io/v1alpha1
kind: ProviderCatalog
metadata:
  name: tools
spec:
  version: "1.0.0"
  capabilities: ["Weld", "Cut"]
  providers:
    - name: A
      offerings:
        - {capability: Weld, quality: 3}
`
	if err := os.WriteFile(catalogPath, []byte(manifest), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	_, _, code := execute(t, "3 Weld\n1 Cut\n", "plan", "--catalog", catalogPath)
	if code != exitUncovered {
		t.Fatalf("expected exit %d, got %d", exitUncovered, code)
	}
}

func TestConfigErrors(t *testing.T) {
	if _, _, code := execute(t, "", "plan", "--config", filepath.Join(t.TempDir(), "missing.yaml")); code != exitUsage {
		t.Fatalf("expected exit %d for missing config, got %d", exitUsage, code)
	}
	if _, _, code := execute(t, "5 Fuel Scoop\n", "plan", "--color=sometimes"); code != exitUsage {
		t.Fatalf("expected exit %d for invalid color, got %d", exitUsage, code)
	}
	if _, _, code := execute(t, "", "capabilities", "--catalog-version", ">=4.0.0"); code != exitUsage {
		t.Fatalf("expected exit %d for version mismatch, got %d", exitUsage, code)
	}
}

func TestCatalogCommands(t *testing.T) {
	out, _, code := execute(t, "", "capabilities")
	if code != exitOK {
		t.Fatalf("capabilities exit %d", code)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 39 || lines[0] != "Thrusters" || lines[38] != "Mine Launcher" {
		t.Fatalf("unexpected capabilities listing: %v", lines)
	}

	out, _, code = execute(t, "", "providers")
	if code != exitOK {
		t.Fatalf("providers exit %d", code)
	}
	if !strings.Contains(out, " 1  Felicity Farseer\n") || !strings.Contains(out, "Marsha Hicks (requires The Dweller)") {
		t.Fatalf("unexpected providers listing:\n%s", out)
	}

	out, _, code = execute(t, "", "version")
	if code != exitOK || !strings.Contains(out, "catalog version 3.4.0 (25 providers)") {
		t.Fatalf("unexpected version output %q (exit %d)", out, code)
	}
}
