package shell_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/rdkcentral/yaml-runner/internal/shell"
)

func newRunner() (*shell.Runner, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return &shell.Runner{Shell: "sh", Stdout: &out, Stderr: &errOut}, &out, &errOut
}

func TestRunCapturesStdout(t *testing.T) {
	r, _, _ := newRunner()
	stdout, stderr, code, err := r.Run("echo hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout != "hello\n" {
		t.Errorf("stdout = %q, want %q", stdout, "hello\n")
	}
	if stderr != "" {
		t.Errorf("stderr = %q, want empty", stderr)
	}
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
}

func TestRunCapturesStderr(t *testing.T) {
	r, _, _ := newRunner()
	_, stderr, code, err := r.Run("echo oops >&2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stderr != "oops\n" {
		t.Errorf("stderr = %q, want %q", stderr, "oops\n")
	}
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
}

func TestRunNonzeroExitIsNotAnError(t *testing.T) {
	r, _, _ := newRunner()
	_, _, code, err := r.Run("exit 3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != 3 {
		t.Errorf("exit code = %d, want 3", code)
	}
}

func TestRunHandlesMissingTrailingNewline(t *testing.T) {
	r, _, _ := newRunner()
	stdout, _, _, err := r.Run("printf abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout != "abc" {
		t.Errorf("stdout = %q, want %q", stdout, "abc")
	}
}

func TestRunTeesToLiveWriters(t *testing.T) {
	r, out, errOut := newRunner()
	stdout, stderr, _, err := r.Run("echo live; echo live-err >&2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != stdout {
		t.Errorf("live stdout = %q, captured %q", out.String(), stdout)
	}
	if errOut.String() != stderr {
		t.Errorf("live stderr = %q, captured %q", errOut.String(), stderr)
	}
}

func TestRunVerboseEchoesLine(t *testing.T) {
	r, _, errOut := newRunner()
	r.Verbose = true
	if _, _, _, err := r.Run("true"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if errOut.String() != "+ true\n" {
		t.Errorf("verbose echo = %q, want %q", errOut.String(), "+ true\n")
	}
}

func TestRunShellSyntaxWorks(t *testing.T) {
	r, _, _ := newRunner()
	stdout, _, code, err := r.Run("echo one two three | wc -w | tr -d ' '")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout != "3\n" {
		t.Errorf("stdout = %q, want %q", stdout, "3\n")
	}
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
}

func TestRunAllContinuesAfterFailure(t *testing.T) {
	r, _, _ := newRunner()
	res, err := r.RunAll([]string{"echo first", "exit 7", "echo last"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantCodes := []int{0, 7, 0}
	if len(res.ExitCodes) != len(wantCodes) {
		t.Fatalf("got %d exit codes, want %d", len(res.ExitCodes), len(wantCodes))
	}
	for i, want := range wantCodes {
		if res.ExitCodes[i] != want {
			t.Errorf("exit code[%d] = %d, want %d", i, res.ExitCodes[i], want)
		}
	}
	if res.Stdout[0] != "first\n" || res.Stdout[2] != "last\n" {
		t.Errorf("stdout = %q", res.Stdout)
	}
}

func TestRunAllEmpty(t *testing.T) {
	r, _, _ := newRunner()
	res, err := r.RunAll(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Stdout) != 0 || len(res.Stderr) != 0 || len(res.ExitCodes) != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
}

func TestRunMissingShellIsAnError(t *testing.T) {
	r := &shell.Runner{Shell: "definitely-not-a-shell", Stdout: io.Discard, Stderr: io.Discard}
	if _, _, _, err := r.Run("echo hello"); err == nil {
		t.Fatal("expected an error for a missing interpreter")
	}
}

func TestRunLargeOutputDoesNotDeadlock(t *testing.T) {
	r := &shell.Runner{Shell: "sh", Stdout: io.Discard, Stderr: io.Discard}
	stdout, _, code, err := r.Run("i=0; while [ $i -lt 5000 ]; do echo line-$i; i=$((i+1)); done")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	if len(stdout) < 5000 {
		t.Errorf("captured %d bytes, expected at least 5000", len(stdout))
	}
}
