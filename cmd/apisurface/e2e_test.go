package main_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build binary once for all tests
	tmpDir, err := os.MkdirTemp("", "apisurface-e2e-*")
	if err != nil {
		panic(err)
	}

	binaryPath = filepath.Join(tmpDir, "apisurface")
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	cmd.Dir = filepath.Join(getModuleRoot(), "cmd", "apisurface")
	if out, err := cmd.CombinedOutput(); err != nil {
		_ = os.RemoveAll(tmpDir)
		panic(string(out) + ": " + err.Error())
	}

	code := m.Run()
	_ = os.RemoveAll(tmpDir)
	os.Exit(code)
}

func getModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			// Make sure it's the main module, not a testdata module
			if _, err := os.Stat(filepath.Join(dir, "apisurface.go")); err == nil {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			panic("module root not found")
		}
		dir = parent
	}
}

func getE2ETestdata() string {
	return filepath.Join(getModuleRoot(), "cmd", "apisurface", "testdata")
}

func TestE2E_Leak(t *testing.T) {
	testdata := filepath.Join(getE2ETestdata(), "leak")

	cmd := exec.Command(binaryPath, "./...")
	cmd.Dir = testdata
	out, err := cmd.CombinedOutput()

	// Should exit with non-zero (has diagnostics)
	if err == nil {
		t.Fatal("expected non-zero exit code for code with issues")
	}

	output := string(out)

	if !strings.Contains(output, "public API for example.com/leak: extra: Debug") {
		t.Errorf("expected surface leak diagnostic, got:\n%s", output)
	}

	// Verify it points to the directive
	if !strings.Contains(output, "leak.go:4") {
		t.Errorf("expected directive location in output, got:\n%s", output)
	}
}

func TestE2E_Clean(t *testing.T) {
	testdata := filepath.Join(getE2ETestdata(), "clean")

	cmd := exec.Command(binaryPath, "./...")
	cmd.Dir = testdata
	out, err := cmd.CombinedOutput()

	if err != nil {
		t.Errorf("expected zero exit code for clean code, got error: %v\noutput:\n%s", err, out)
	}
}

func TestE2E_ExpectFileDoesNotOverrideDirectives(t *testing.T) {
	testdata := filepath.Join(getE2ETestdata(), "clean")

	cmd := exec.Command(binaryPath, "-expect="+filepath.Join(getE2ETestdata(), "expect.yaml"), "./...")
	cmd.Dir = testdata
	out, err := cmd.CombinedOutput()

	if err != nil {
		t.Errorf("expected zero exit code, got error: %v\noutput:\n%s", err, out)
	}
}

func TestE2E_MissingExpectFile(t *testing.T) {
	testdata := filepath.Join(getE2ETestdata(), "clean")

	cmd := exec.Command(binaryPath, "-expect=/nonexistent/expect.yaml", "./...")
	cmd.Dir = testdata
	out, err := cmd.CombinedOutput()

	if err == nil {
		t.Fatal("expected non-zero exit code for unreadable expectations")
	}
	if !strings.Contains(string(out), "reading expectations") {
		t.Errorf("expected read error, got:\n%s", out)
	}
}

func TestE2E_HelpFlag(t *testing.T) {
	cmd := exec.Command(binaryPath, "-help")
	out, _ := cmd.CombinedOutput()

	if !strings.Contains(string(out), "-expect") {
		t.Errorf("expected flag %q in help output, got:\n%s", "-expect", out)
	}
}

func TestE2E_InvalidFlag(t *testing.T) {
	cmd := exec.Command(binaryPath, "-invalid-flag-xyz", "./...")
	_, err := cmd.CombinedOutput()

	if err == nil {
		t.Error("expected non-zero exit code for invalid flag")
	}
}

func TestE2E_Version(t *testing.T) {
	// singlechecker doesn't have a version flag, but -V=full shows analyzer info
	cmd := exec.Command(binaryPath, "-V=full")
	out, err := cmd.CombinedOutput()

	if err != nil {
		t.Errorf("unexpected error: %v\noutput:\n%s", err, out)
	}

	if !strings.Contains(string(out), "apisurface") {
		t.Errorf("expected analyzer name in version output, got:\n%s", out)
	}
}
