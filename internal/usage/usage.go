// Package usage builds the fixed-layout usage text for the staged argument
// resolver and augments it with the command choices discovered in the
// configuration.
package usage

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Choice is one selectable command shown in the Choices block.
type Choice struct {
	Name        string
	Description string
}

// Arg describes a positional argument.
type Arg struct {
	Metavar  string
	Help     string
	Optional bool
	Variadic bool
}

// Option describes a flag.
type Option struct {
	Short       string // e.g. "-c"
	Long        string // e.g. "--config"
	Placeholder string // value placeholder, empty for boolean flags
	Required    bool
	Help        string
}

// Page is a structured usage document. The resolver assembles a Page per
// stage and renders it once; AddChoices patches the rendered text afterwards.
type Page struct {
	Prog    string
	Options []Option
	Args    []Arg
}

// UsageLine produces the single synopsis line, without section detail.
// Usage errors print this line followed by the error message.
func (p *Page) UsageLine() string {
	var b strings.Builder

	b.WriteString("usage: ")
	b.WriteString(p.Prog)
	for _, o := range p.Options {
		token := o.Short
		if token == "" {
			token = o.Long
		}
		if o.Placeholder != "" {
			token += " " + o.Placeholder
		}
		if o.Required {
			b.WriteString(" " + token)
		} else {
			b.WriteString(" [" + token + "]")
		}
	}
	for _, a := range p.Args {
		token := a.Metavar
		switch {
		case a.Variadic:
			token = "[" + token + " ...]"
		case a.Optional:
			token = "[" + token + "]"
		}
		b.WriteString(" " + token)
	}
	return b.String()
}

// Render produces the usage text: the usage line followed by aligned
// "positional arguments:" and "options:" sections. The layout is a contract;
// AddChoices depends on it.
func (p *Page) Render() string {
	var b strings.Builder
	b.WriteString(p.UsageLine())
	b.WriteString("\n")

	width := 0
	for _, a := range p.Args {
		if len(a.Metavar) > width {
			width = len(a.Metavar)
		}
	}
	for _, o := range p.Options {
		if l := len(o.label()); l > width {
			width = l
		}
	}
	width += 2

	if len(p.Args) > 0 {
		b.WriteString("\npositional arguments:\n")
		for _, a := range p.Args {
			fmt.Fprintf(&b, "  %-*s%s\n", width, a.Metavar, a.Help)
		}
	}
	if len(p.Options) > 0 {
		b.WriteString("\noptions:\n")
		for _, o := range p.Options {
			fmt.Fprintf(&b, "  %-*s%s\n", width, o.label(), o.Help)
		}
	}
	return b.String()
}

func (o Option) label() string {
	var flags []string
	if o.Short != "" {
		flags = append(flags, o.Short)
	}
	if o.Long != "" {
		flags = append(flags, o.Long)
	}
	label := strings.Join(flags, ", ")
	if o.Placeholder != "" {
		label += " " + o.Placeholder
	}
	return label
}

var (
	// ErrMetavarNotFound reports that the usage text has no line describing
	// the requested positional argument.
	ErrMetavarNotFound = errors.New("positional argument not found in usage text")

	// ErrUnexpectedFormat reports usage text that does not follow the fixed
	// two-column layout AddChoices relies on.
	ErrUnexpectedFormat = errors.New("usage text is not in the expected format")
)

// AddChoices inserts a "Choices:" block directly beneath the line describing
// the positional argument named by metavar, indented to the argument's help
// column. All other lines pass through unmodified and the choices keep their
// given order. A missing or misshapen line is a format-contract violation
// and fails loudly.
func AddChoices(text, metavar string, choices []Choice) (string, error) {
	lines := strings.Split(text, "\n")
	lineRe := regexp.MustCompile(`^\s+` + regexp.QuoteMeta(metavar) + `(\s|$)`)
	spanRe := regexp.MustCompile(`^\s+` + regexp.QuoteMeta(metavar) + `\s+`)

	for i, line := range lines {
		if !lineRe.MatchString(line) {
			continue
		}
		span := spanRe.FindString(line)
		if span == "" {
			return "", fmt.Errorf("%w: line %q has no help column", ErrUnexpectedFormat, line)
		}
		indent := strings.Repeat(" ", len(span))
		block := make([]string, 0, len(choices)+1)
		block = append(block, indent+"Choices:")
		for _, c := range choices {
			entry := indent + "  " + c.Name
			if c.Description != "" {
				entry += " - " + c.Description
			}
			block = append(block, entry)
		}

		out := make([]string, 0, len(lines)+len(block))
		out = append(out, lines[:i+1]...)
		out = append(out, block...)
		out = append(out, lines[i+1:]...)
		return strings.Join(out, "\n"), nil
	}
	return "", fmt.Errorf("%w: %q", ErrMetavarNotFound, metavar)
}
