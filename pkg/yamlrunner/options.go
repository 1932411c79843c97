package yamlrunner

import (
	"fmt"
	"io"

	"github.com/rdkcentral/yaml-runner/internal/command"
)

// Version is the current version of yaml-runner.
const Version = "0.1.0"

type options struct {
	config *command.Config
	shell  string
	stdout io.Writer
	stderr io.Writer
}

// Option is a functional option for configuring a Runner.
type Option func(*options) error

// WithConfigFile loads the configuration from a YAML file.
func WithConfigFile(path string) Option {
	return func(o *options) error {
		cfg, err := command.Load(path)
		if err != nil {
			return err
		}
		o.config = cfg
		return nil
	}
}

// WithConfigReader reads the YAML configuration from r.
func WithConfigReader(r io.Reader) Option {
	return func(o *options) error {
		cfg, err := command.Parse(r)
		if err != nil {
			return err
		}
		o.config = cfg
		return nil
	}
}

// WithConfig uses an already-built configuration map.
func WithConfig(cfg map[string]any) Option {
	return func(o *options) error {
		o.config = command.FromMap(cfg)
		return nil
	}
}

// WithShell overrides the shell interpreter used to run command lines.
func WithShell(shell string) Option {
	return func(o *options) error {
		if shell == "" {
			return fmt.Errorf("shell must not be empty")
		}
		o.shell = shell
		return nil
	}
}

// WithStdout redirects the live stdout stream and help output.
func WithStdout(w io.Writer) Option {
	return func(o *options) error {
		o.stdout = w
		return nil
	}
}

// WithStderr redirects the live stderr stream and usage errors.
func WithStderr(w io.Writer) Option {
	return func(o *options) error {
		o.stderr = w
		return nil
	}
}

func applyOptions(opts ...Option) (*options, error) {
	o := &options{}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}
