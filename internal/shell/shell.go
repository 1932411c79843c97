// Package shell runs resolved command lines through a shell interpreter,
// teeing each child stream to the caller's writers while capturing it.
package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/rdkcentral/yaml-runner/internal/settings"
)

// Runner executes command lines with `<shell> -c <line>` semantics, so full
// shell syntax (pipes, quoting, expansion) works inside a line.
type Runner struct {
	// Shell is the interpreter binary. Empty means the configured default.
	Shell string

	// Stdout and Stderr receive the child's streams as they are produced.
	// Nil writers default to the process streams.
	Stdout io.Writer
	Stderr io.Writer

	// Verbose echoes each line to Stderr before running it.
	Verbose bool
}

// New builds a Runner from the global settings, writing to the process
// streams.
func New() *Runner {
	s := settings.Get()
	return &Runner{Shell: s.Shell, Verbose: s.Verbose}
}

// Result collects the outputs of a sequence of command lines. The slices are
// index-aligned: entry i holds the full captured stdout, stderr, and exit
// status of line i.
type Result struct {
	Stdout    []string
	Stderr    []string
	ExitCodes []int
}

// Run executes one command line. The child's stdout and stderr are streamed
// to the Runner's writers while they are captured, so a long-running command
// shows progress in real time. A nonzero exit status is reported in code, not
// err; err is reserved for failures to start or drain the process.
func (r *Runner) Run(line string) (stdout, stderr string, code int, err error) {
	shell := r.Shell
	if shell == "" {
		shell = settings.Get().Shell
	}
	outW := r.Stdout
	if outW == nil {
		outW = os.Stdout
	}
	errW := r.Stderr
	if errW == nil {
		errW = os.Stderr
	}

	if r.Verbose {
		fmt.Fprintf(errW, "+ %s\n", line)
	}

	cmd := exec.Command(shell, "-c", line)
	outPipe, err := cmd.StdoutPipe()
	if err != nil {
		return "", "", 0, fmt.Errorf("failed to open stdout pipe: %w", err)
	}
	errPipe, err := cmd.StderrPipe()
	if err != nil {
		return "", "", 0, fmt.Errorf("failed to open stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return "", "", 0, fmt.Errorf("failed to start %q: %w", line, err)
	}

	var outBuf, errBuf strings.Builder
	var wg sync.WaitGroup
	wg.Add(2)
	go drain(outPipe, outW, &outBuf, &wg)
	go drain(errPipe, errW, &errBuf, &wg)

	// Both drains must finish before the buffers are read and before the
	// child is reaped; Wait closes the pipes out from under the readers.
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return "", "", 0, fmt.Errorf("failed to run %q: %w", line, err)
		}
		code = exitErr.ExitCode()
	}
	return outBuf.String(), errBuf.String(), code, nil
}

// RunAll executes every line in order. A failing line does not stop the
// sequence; its exit status is recorded and the next line runs.
func (r *Runner) RunAll(lines []string) (*Result, error) {
	res := &Result{
		Stdout:    make([]string, 0, len(lines)),
		Stderr:    make([]string, 0, len(lines)),
		ExitCodes: make([]int, 0, len(lines)),
	}
	for _, line := range lines {
		stdout, stderr, code, err := r.Run(line)
		if err != nil {
			return nil, err
		}
		res.Stdout = append(res.Stdout, stdout)
		res.Stderr = append(res.Stderr, stderr)
		res.ExitCodes = append(res.ExitCodes, code)
	}
	return res, nil
}

// drain copies a child stream line by line, writing each chunk to the live
// writer and the capture buffer as it arrives.
func drain(src io.Reader, live io.Writer, capture *strings.Builder, wg *sync.WaitGroup) {
	defer wg.Done()
	reader := bufio.NewReader(src)
	for {
		chunk, err := reader.ReadString('\n')
		if chunk != "" {
			capture.WriteString(chunk)
			io.WriteString(live, chunk)
		}
		if err != nil {
			return
		}
	}
}
