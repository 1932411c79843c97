package cli

import (
	"strings"

	"github.com/spf13/pflag"
)

// parseKnown parses the flags registered on fs out of args and returns every
// token fs does not recognize, in original order. pflag's own unknown-flag
// whitelist discards unrecognized flags instead of returning them, which
// would lose passthrough tokens, so the split is done here: known flags (and
// their value tokens) are collected in canonical spelling and handed to
// fs.Parse, everything else becomes a leftover.
func parseKnown(fs *pflag.FlagSet, args []string) ([]string, error) {
	var known, rest []string

	for i := 0; i < len(args); i++ {
		tok := args[i]
		switch {
		case tok == "--":
			// end-of-options marker: the remainder is positional
			rest = append(rest, args[i+1:]...)
			i = len(args)

		case strings.HasPrefix(tok, "--"):
			name, val, hasVal := strings.Cut(tok[2:], "=")
			f := lookupLong(fs, name)
			if f == nil {
				rest = append(rest, tok)
				continue
			}
			switch {
			case hasVal:
				known = append(known, "--"+f.Name+"="+val)
			case isBoolFlag(f):
				known = append(known, "--"+f.Name)
			case i+1 < len(args):
				i++
				known = append(known, "--"+f.Name, args[i])
			default:
				// missing value; let pflag produce the error
				known = append(known, "--"+f.Name)
			}

		case strings.HasPrefix(tok, "-") && len(tok) == 2:
			f := fs.ShorthandLookup(tok[1:])
			if f == nil {
				rest = append(rest, tok)
				continue
			}
			if isBoolFlag(f) {
				known = append(known, tok)
				continue
			}
			if i+1 < len(args) {
				i++
				known = append(known, tok, args[i])
			} else {
				known = append(known, tok)
			}

		default:
			rest = append(rest, tok)
		}
	}

	if err := fs.Parse(known); err != nil {
		return nil, err
	}
	return rest, nil
}

// lookupLong resolves a long flag by exact name or by unique prefix, so
// abbreviations like --h for --help work the way conventional CLI parsers
// allow.
func lookupLong(fs *pflag.FlagSet, name string) *pflag.Flag {
	if f := fs.Lookup(name); f != nil {
		return f
	}
	if name == "" {
		return nil
	}
	var match *pflag.Flag
	count := 0
	fs.VisitAll(func(f *pflag.Flag) {
		if strings.HasPrefix(f.Name, name) {
			match = f
			count++
		}
	})
	if count == 1 {
		return match
	}
	return nil
}

func isBoolFlag(f *pflag.Flag) bool {
	return f.Value.Type() == "bool"
}
