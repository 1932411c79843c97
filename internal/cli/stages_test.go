package cli_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rdkcentral/yaml-runner/internal/cli"
	"github.com/rdkcentral/yaml-runner/internal/command"
)

const testDoc = `
echo_all:
  command: echo $@
  description: echo the passthrough arguments
hello_world:
  command: echo 'hello world'
  description: print hello world in stdout
`

func testConfig(t *testing.T) *command.Config {
	t.Helper()
	cfg, err := command.Parse(strings.NewReader(testDoc))
	require.NoError(t, err)
	return cfg
}

func newSession(t *testing.T, cfg *command.Config, args ...string) (*cli.Session, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	return cli.NewSession("prog", cfg, args, &stdout, &stderr), &stdout, &stderr
}

func TestPreConfigMissingConfigIsUsageError(t *testing.T) {
	s, _, stderr := newSession(t, nil, "--help")

	out, err := s.PreConfig()
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, 2, out.Code)
	assert.Contains(t, stderr.String(), "-c")
	assert.Contains(t, stderr.String(), "--config")
}

func TestPreConfigLoadsConfigFlag(t *testing.T) {
	s, _, _ := newSession(t, nil, "--config", getFixturePath("test_config"), "hello_world")

	out, err := s.PreConfig()
	require.NoError(t, err)
	require.Nil(t, out)
	require.NotNil(t, s.Config)
	assert.Equal(t, []string{"hello_world"}, s.Remaining)
}

func TestPreConfigUnreadablePathIsFatal(t *testing.T) {
	s, _, _ := newSession(t, nil, "--config", "missing.yml")

	out, err := s.PreConfig()
	require.Error(t, err)
	assert.Nil(t, out)
}

func TestPreConfigHelpWithConfigIsDeferred(t *testing.T) {
	s, stdout, _ := newSession(t, testConfig(t), "--help")

	out, err := s.PreConfig()
	require.NoError(t, err)
	assert.Nil(t, out)
	assert.Equal(t, []string{"--help"}, s.Remaining)
	assert.Empty(t, stdout.String())
}

func TestPreConfigHelpWithEmptyConfigPrintsTopUsage(t *testing.T) {
	cfg, err := command.Parse(strings.NewReader(""))
	require.NoError(t, err)
	s, stdout, _ := newSession(t, cfg, "-h")

	out, err := s.PreConfig()
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, 0, out.Code)
	assert.Contains(t, stdout.String(), "usage: prog")
	assert.Contains(t, stdout.String(), "--help")
}

func TestSelectCommandNoArgsListsChoices(t *testing.T) {
	s, stdout, _ := newSession(t, testConfig(t))

	out, err := s.SelectCommand()
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, 0, out.Code)

	help := stdout.String()
	assert.Contains(t, help, "COMMAND")
	assert.Contains(t, help, "Choices:")
	assert.Contains(t, help, "echo_all - echo the passthrough arguments")
	assert.Contains(t, help, "hello_world - print hello world in stdout")
	assert.Contains(t, help, "-h")
	assert.Contains(t, help, "--help")
}

func TestSelectCommandInvalidChoice(t *testing.T) {
	s, _, stderr := newSession(t, testConfig(t), "bogus")

	out, err := s.SelectCommand()
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, 2, out.Code)
	assert.Contains(t, stderr.String(), "invalid choice: 'bogus'")
	assert.Contains(t, stderr.String(), "'echo_all'")
	assert.Contains(t, stderr.String(), "'hello_world'")
}

func TestSelectCommandKeepsTrailingTokens(t *testing.T) {
	s, _, _ := newSession(t, testConfig(t), "echo_all", "TEST", "123")

	out, err := s.SelectCommand()
	require.NoError(t, err)
	assert.Nil(t, out)
	require.NotNil(t, s.Active())
	assert.Equal(t, "echo_all", s.Active().Name)
	assert.Equal(t, []string{"TEST", "123"}, s.Remaining)
}

func TestResolveParamsSubstitutesPlaceholder(t *testing.T) {
	s, _, _ := newSession(t, testConfig(t), "echo_all", "TEST", "123")

	out, err := s.SelectCommand()
	require.NoError(t, err)
	require.Nil(t, out)

	out, err = s.ResolveParams()
	require.NoError(t, err)
	require.Nil(t, out)
	assert.Equal(t, []string{"echo TEST 123"}, s.Lines())
}

func TestResolveParamsHelpShowsPassthroughSlot(t *testing.T) {
	s, stdout, _ := newSession(t, testConfig(t), "echo_all", "--help")

	out, err := s.SelectCommand()
	require.NoError(t, err)
	require.Nil(t, out)

	out, err = s.ResolveParams()
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, 0, out.Code)
	assert.Contains(t, stdout.String(), "PASSTHROUGH")
	assert.Contains(t, stdout.String(), "-h")
	assert.Contains(t, stdout.String(), "--help")
	assert.Nil(t, s.Lines())
}

func TestResolveParamsHelpWithoutPlaceholder(t *testing.T) {
	s, stdout, _ := newSession(t, testConfig(t), "hello_world", "-h")

	out, err := s.SelectCommand()
	require.NoError(t, err)
	require.Nil(t, out)

	out, err = s.ResolveParams()
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, 0, out.Code)
	assert.NotContains(t, stdout.String(), "PASSTHROUGH")
}

func TestDeferredHelpFlowsToCommandUsage(t *testing.T) {
	s, stdout, _ := newSession(t, nil,
		"--config", getFixturePath("test_config"), "echo_all", "--help")

	out, err := s.PreConfig()
	require.NoError(t, err)
	require.Nil(t, out)

	out, err = s.SelectCommand()
	require.NoError(t, err)
	require.Nil(t, out)

	out, err = s.ResolveParams()
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, 0, out.Code)

	help := stdout.String()
	assert.Contains(t, help, "PASSTHROUGH")
	// the synopsis shows the invocation path consumed so far
	assert.Contains(t, help, "echo_all [-h]")
	assert.Nil(t, s.Lines())
}

func TestSelectCommandHelpBeforeCommandListsChoices(t *testing.T) {
	s, stdout, _ := newSession(t, testConfig(t), "--help")

	out, err := s.PreConfig()
	require.NoError(t, err)
	require.Nil(t, out)

	out, err = s.SelectCommand()
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, 0, out.Code)
	assert.Contains(t, stdout.String(), "Choices:")
	assert.Contains(t, stdout.String(), "hello_world")
}
