// Package cli implements the staged argument resolver. Command-line tokens
// are consumed in three ordered passes: global/config arguments first, then
// command selection against the names discovered in the configuration, then
// command-specific parameters. Later stages depend on information (the
// command set) that only exists once an earlier stage has loaded the
// configuration, so each stage parses with leftovers and hands the remainder
// onward.
package cli

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/rdkcentral/yaml-runner/internal/command"
	"github.com/rdkcentral/yaml-runner/internal/usage"
)

// Outcome is an early-termination request from a stage. A nil Outcome means
// the run continues with the next stage.
type Outcome struct {
	Code int
}

// Exit builds an Outcome terminating the run with the given status.
func Exit(code int) *Outcome {
	return &Outcome{Code: code}
}

// Session is the mutable parse state threaded through the three stages. It
// lives for a single run and is discarded afterwards.
type Session struct {
	// Program is the name shown at the front of usage lines.
	Program string

	// Config is the active configuration. Stage one may populate it from
	// the --config flag when none was supplied up front.
	Config *command.Config

	// Remaining holds the not-yet-consumed tokens. Each stage parses a
	// subset and leaves the rest for the next one.
	Remaining []string

	Stdout io.Writer
	Stderr io.Writer

	// original keeps the args exactly as given, so a deferred help flag can
	// be re-injected with the same spelling the user chose and the usage
	// line can show the invocation path consumed so far.
	original []string

	active *command.Spec
	lines  []string
}

// NewSession prepares the parse state for one run. Writers default to the
// process streams.
func NewSession(program string, cfg *command.Config, args []string, stdout, stderr io.Writer) *Session {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Session{
		Program:   program,
		Config:    cfg,
		Remaining: slices.Clone(args),
		original:  slices.Clone(args),
		Stdout:    stdout,
		Stderr:    stderr,
	}
}

// Active returns the command selected in stage two, or nil before that.
func (s *Session) Active() *command.Spec {
	return s.active
}

// Lines returns the runnable command lines produced by stage three, with the
// $@ placeholder already substituted.
func (s *Session) Lines() []string {
	return s.lines
}

// prog is the program name followed by the original tokens that earlier
// stages already consumed, in their original order. It is derived from the
// remaining tokens rather than accumulated, so re-injected help flags never
// show up twice in a synopsis.
func (s *Session) prog() string {
	counts := make(map[string]int, len(s.Remaining))
	for _, tok := range s.Remaining {
		counts[tok]++
	}
	parts := []string{s.Program}
	for _, tok := range s.original {
		if counts[tok] > 0 {
			counts[tok]--
			continue
		}
		parts = append(parts, tok)
	}
	return strings.Join(parts, " ")
}

// deferHelp re-injects the help token the user passed into the leftover list
// so a later stage, which knows the discovered commands, can honor it.
func (s *Session) deferHelp() error {
	for _, tok := range []string{"--help", "-h", "--h"} {
		if slices.Contains(s.original, tok) {
			s.Remaining = append(s.Remaining, tok)
			return nil
		}
	}
	return fmt.Errorf("help is being deferred but was not an argument")
}

// usageError reports a bad invocation: synopsis plus error message on the
// error stream, exit status 2.
func (s *Session) usageError(page *usage.Page, msg string) (*Outcome, error) {
	fmt.Fprintln(s.Stderr, page.UsageLine())
	fmt.Fprintf(s.Stderr, "%s: error: %s\n", page.Prog, msg)
	return Exit(2), nil
}
