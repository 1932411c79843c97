package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"github.com/rdkcentral/yaml-runner/internal/command"
	"github.com/rdkcentral/yaml-runner/internal/usage"
)

// Placeholder is the literal substring replaced by the space-joined
// passthrough tokens in the active command's lines.
const Placeholder = "$@"

const (
	helpText        = "Show information about the command"
	helpParamsText  = "Show this information"
	configText      = "Full path to yaml config file"
	commandText     = "These are available commands found in the config"
	passthroughText = "All arguments here will be passed into the command"
)

// PreConfig is stage one: it consumes the config and help flags that must be
// understood before any configuration exists. A missing required config path
// is the only hard parse error here. Help is handled immediately only when no
// usable configuration is available; otherwise it is deferred so the final
// help text can include the commands discovered in stage two.
func (s *Session) PreConfig() (*Outcome, error) {
	fs := pflag.NewFlagSet("initial_args", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var configPath string
	var help bool
	needConfig := s.Config == nil
	if needConfig {
		fs.StringVarP(&configPath, "config", "c", "", configText)
	}
	fs.BoolVarP(&help, "help", "h", false, helpText)

	page := &usage.Page{Prog: s.prog()}
	if needConfig {
		page.Options = append(page.Options, usage.Option{
			Short: "-c", Long: "--config", Placeholder: "YAML_CONFIG", Required: true, Help: configText,
		})
	}
	page.Options = append(page.Options, usage.Option{Short: "-h", Long: "--help", Help: helpText})

	rest, err := parseKnown(fs, s.Remaining)
	if err != nil {
		return s.usageError(page, err.Error())
	}
	s.Remaining = rest

	if needConfig {
		if configPath == "" {
			return s.usageError(page, "the following arguments are required: -c/--config")
		}
		cfg, err := command.Load(configPath)
		if err != nil {
			return nil, err
		}
		s.Config = cfg
	}

	if help {
		if s.Config.IsEmpty() {
			fmt.Fprint(s.Stdout, page.Render())
			return Exit(0), nil
		}
		if err := s.deferHelp(); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// SelectCommand is stage two: the discovered command names become the
// enumerated values of a single optional positional. No command at all is not
// an error; it prints the selection help, augmented with the Choices block,
// and ends the run with status 0. A name outside the enumeration is a usage
// error. Help recognized here is deferred once more so stage three can show
// the chosen command's own usage.
func (s *Session) SelectCommand() (*Outcome, error) {
	specs, err := s.Config.Commands()
	if err != nil {
		return nil, err
	}

	fs := pflag.NewFlagSet("process_commands", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var help bool
	fs.BoolVarP(&help, "help", "h", false, helpText)

	page := &usage.Page{
		Prog:    s.prog(),
		Options: []usage.Option{{Short: "-h", Long: "--help", Help: helpText}},
		Args:    []usage.Arg{{Metavar: "COMMAND", Optional: true, Help: commandText}},
	}

	rest, err := parseKnown(fs, s.Remaining)
	if err != nil {
		return s.usageError(page, err.Error())
	}

	name, idx := firstPositional(rest)
	if name == "" {
		text, err := choicesHelp(page, specs)
		if err != nil {
			return nil, err
		}
		fmt.Fprintln(s.Stdout, text)
		return Exit(0), nil
	}

	var active *command.Spec
	for i := range specs {
		if specs[i].Name == name {
			active = &specs[i]
			break
		}
	}
	if active == nil {
		return s.usageError(page, invalidChoice(name, specs))
	}

	s.Remaining = deleteAt(rest, idx)

	if help {
		if err := s.deferHelp(); err != nil {
			return nil, err
		}
	}
	s.active = active
	return nil, nil
}

// ResolveParams is stage three: the active command's lines decide whether a
// passthrough positional exists, help short-circuits execution, and the $@
// placeholder is substituted into every line unconditionally.
func (s *Session) ResolveParams() (*Outcome, error) {
	if s.active == nil {
		return nil, fmt.Errorf("no command selected")
	}

	lines := make([]string, len(s.active.Command))
	copy(lines, s.active.Command)

	passthrough := false
	for _, line := range lines {
		if strings.Contains(line, Placeholder) {
			passthrough = true
			break
		}
	}

	fs := pflag.NewFlagSet("command_params", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var help bool
	fs.BoolVarP(&help, "help", "h", false, helpParamsText)

	page := &usage.Page{
		Prog:    s.prog(),
		Options: []usage.Option{{Short: "-h", Long: "--help", Help: helpParamsText}},
	}
	if passthrough {
		page.Args = append(page.Args, usage.Arg{
			Metavar: "PASSTHROUGH", Variadic: true, Help: passthroughText,
		})
	}

	rest, err := parseKnown(fs, s.Remaining)
	if err != nil {
		return s.usageError(page, err.Error())
	}

	if help {
		fmt.Fprint(s.Stdout, page.Render())
		return Exit(0), nil
	}

	joined := strings.Join(rest, " ")
	for i, line := range lines {
		lines[i] = strings.ReplaceAll(line, Placeholder, joined)
	}
	s.lines = lines
	return nil, nil
}

// firstPositional returns the first token that does not look like a flag,
// and its index, or ("", -1).
func firstPositional(tokens []string) (string, int) {
	for i, tok := range tokens {
		if !strings.HasPrefix(tok, "-") || tok == "-" {
			return tok, i
		}
	}
	return "", -1
}

func deleteAt(tokens []string, idx int) []string {
	out := make([]string, 0, len(tokens)-1)
	out = append(out, tokens[:idx]...)
	return append(out, tokens[idx+1:]...)
}

func choicesHelp(page *usage.Page, specs []command.Spec) (string, error) {
	choices := make([]usage.Choice, len(specs))
	for i, sp := range specs {
		choices[i] = usage.Choice{Name: sp.Name, Description: sp.Description}
	}
	return usage.AddChoices(page.Render(), "COMMAND", choices)
}

func invalidChoice(name string, specs []command.Spec) string {
	quoted := make([]string, len(specs))
	for i, sp := range specs {
		quoted[i] = "'" + sp.Name + "'"
	}
	return fmt.Sprintf("argument COMMAND: invalid choice: '%s' (choose from %s)",
		name, strings.Join(quoted, ", "))
}
