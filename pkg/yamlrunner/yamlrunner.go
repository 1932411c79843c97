// Package yamlrunner provides a public API for the yaml-runner.
//
// This package allows programmatic execution of commands declared in a YAML
// configuration, with the same argument handling the command-line tool uses.
//
// Basic usage:
//
//	runner, err := yamlrunner.New("my-tool",
//	    yamlrunner.WithConfigFile("commands.yml"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := runner.Run([]string{"hello_world"})
//
// Configuration can also come from a map or any reader:
//
//	runner, err := yamlrunner.New("my-tool", yamlrunner.WithConfig(map[string]any{
//	    "greet": map[string]any{
//	        "command":     "echo hello $@",
//	        "description": "say hello",
//	    },
//	}))
//
// Help output and usage errors end the run early; they surface as an
// *ExitError carrying the process status the command-line tool would have
// exited with.
package yamlrunner

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rdkcentral/yaml-runner/internal/cli"
	"github.com/rdkcentral/yaml-runner/internal/command"
	"github.com/rdkcentral/yaml-runner/internal/shell"
)

// Runner executes configured commands. Build one with New and reuse it; a
// configuration loaded from a --config argument during Run is kept for
// subsequent runs.
type Runner struct {
	program string
	config  *command.Config
	shell   string
	stdout  io.Writer
	stderr  io.Writer
}

// Result contains the outputs of one run. The slices are index-aligned per
// executed command line: entry i holds the captured stdout, stderr, and exit
// status of line i.
type Result struct {
	Stdout    []string
	Stderr    []string
	ExitCodes []int
}

// ExitError reports that a run ended before executing any command: help was
// requested, or the arguments were unusable. Code is the process status the
// command-line tool exits with in the same situation.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitCode returns the process status the run asked to terminate with.
func (e *ExitError) ExitCode() int {
	return e.Code
}

// New builds a Runner. program is the name shown in usage lines; empty means
// the current executable's name.
func New(program string, opts ...Option) (*Runner, error) {
	if program == "" {
		program = filepath.Base(os.Args[0])
	}
	o, err := applyOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &Runner{
		program: program,
		config:  o.config,
		shell:   o.shell,
		stdout:  o.stdout,
		stderr:  o.stderr,
	}, nil
}

// Run resolves args against the configuration and executes the selected
// command's lines in order. Nil args means the process arguments. When no
// configuration was given up front, args must carry a -c/--config path.
//
// Early terminations (help requested, missing or invalid arguments) return a
// nil Result and an *ExitError. Execution failures of the commands themselves
// are not errors; each line's exit status is reported in the Result.
func (r *Runner) Run(args []string) (*Result, error) {
	if args == nil {
		args = os.Args[1:]
	}
	sess := cli.NewSession(r.program, r.config, args, r.stdout, r.stderr)

	out, err := sess.PreConfig()
	if err != nil {
		return nil, err
	}
	r.config = sess.Config
	if out != nil {
		return nil, &ExitError{Code: out.Code}
	}

	for _, stage := range []func() (*cli.Outcome, error){sess.SelectCommand, sess.ResolveParams} {
		out, err := stage()
		if err != nil {
			return nil, err
		}
		if out != nil {
			return nil, &ExitError{Code: out.Code}
		}
	}

	sh := shell.New()
	sh.Stdout = r.stdout
	sh.Stderr = r.stderr
	if r.shell != "" {
		sh.Shell = r.shell
	}

	res, err := sh.RunAll(sess.Lines())
	if err != nil {
		return nil, err
	}
	return &Result{
		Stdout:    res.Stdout,
		Stderr:    res.Stderr,
		ExitCodes: res.ExitCodes,
	}, nil
}

// Config returns a copy of the active configuration as plain maps, or nil
// when none has been loaded yet.
func (r *Runner) Config() (map[string]any, error) {
	if r.config == nil {
		return nil, nil
	}
	return r.config.Raw()
}

// SetConfig replaces the active configuration with the given map.
func (r *Runner) SetConfig(cfg map[string]any) {
	r.config = command.FromMap(cfg)
}

// LastExitCode returns the exit status of the last executed command line, or
// zero when nothing ran. It is the status the command-line tool exits with
// after a successful run.
func LastExitCode(res *Result) int {
	if res == nil || len(res.ExitCodes) == 0 {
		return 0
	}
	return res.ExitCodes[len(res.ExitCodes)-1]
}
