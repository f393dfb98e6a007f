package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	goflags "github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseOnly parses args without executing the matched command.
func parseOnly(t *testing.T, args ...string) (*GlobalFlags, *commands, error) {
	t.Helper()
	p, globals, cmds := buildParser("test")
	p.CommandHandler = func(goflags.Commander, []string) error { return nil }
	_, err := p.ParseArgs(args)
	return globals, cmds, err
}

// isolateHome points the default config location at a temp dir.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestVersionFlag(t *testing.T) {
	var err error
	output := captureOutput(t, func() {
		err = RunWithArgs("0.1.0-test", []string{"--version"})
	})

	assert.NoError(t, err)
	assert.Contains(t, output, "milestones 0.1.0-test")
}

func TestVersionOutputFormat(t *testing.T) {
	output := captureOutput(t, func() {
		_ = RunWithArgs("1.2.3", []string{"--version"})
	})

	assert.Equal(t, "milestones 1.2.3", strings.TrimSpace(output))
}

func TestAllSubcommandsExist(t *testing.T) {
	expected := []string{"add", "edit", "delete", "show", "list", "timelines", "chart", "status", "serve", "purge"}
	parser, _, _ := buildParser("test")

	for _, name := range expected {
		cmd := parser.Find(name)
		assert.NotNil(t, cmd, "subcommand %q should exist", name)
	}
}

func TestAddFlagsParsed(t *testing.T) {
	_, c, err := parseOnly(t, "add", "--title", "Graduate", "--timeline", "Education",
		"--start", "2010-06-01", "--end", "2010-06-01", "--notes", "BSc")
	require.NoError(t, err)

	f := c.Add.fields()
	assert.Equal(t, "Graduate", f.Title)
	assert.Equal(t, "Education", f.Timeline)
	assert.Equal(t, "2010-06-01", f.Start)
	assert.Equal(t, "2010-06-01", f.End)
	assert.Equal(t, "BSc", f.Notes)
}

func TestEditFlagsParsed(t *testing.T) {
	_, c, err := parseOnly(t, "edit", "--id", "abc", "--title", "T")
	require.NoError(t, err)
	assert.Equal(t, "abc", c.Edit.ID)
	assert.Equal(t, "T", c.Edit.Title)
}

func TestShowFormatFlag(t *testing.T) {
	_, c, err := parseOnly(t, "show", "--id", "abc", "--format", "json")
	require.NoError(t, err)
	assert.Equal(t, "json", c.Show.Format)
	assert.Equal(t, "abc", c.Show.ID)

	_, c, err = parseOnly(t, "show", "--id", "abc")
	require.NoError(t, err)
	assert.Equal(t, "md", c.Show.Format)
}

func TestListFlags(t *testing.T) {
	_, c, err := parseOnly(t, "list", "--timeline", "Work", "--timeline", "Home", "--limit", "3", "query")
	require.NoError(t, err)
	assert.Equal(t, []string{"Work", "Home"}, c.List.Timeline)
	assert.Equal(t, 3, c.List.Limit)
}

func TestChartFlags(t *testing.T) {
	_, c, err := parseOnly(t, "chart", "--hide", "Work", "--format", "svg", "--out", "/tmp/x.svg")
	require.NoError(t, err)
	assert.Equal(t, []string{"Work"}, c.Chart.Hide)
	assert.Equal(t, "svg", c.Chart.Format)
	assert.Equal(t, "/tmp/x.svg", c.Chart.Out)

	_, c, err = parseOnly(t, "chart")
	require.NoError(t, err)
	assert.Equal(t, "json", c.Chart.Format)
}

func TestServeFlags(t *testing.T) {
	_, c, err := parseOnly(t, "serve", "--host", "0.0.0.0", "--port", "9999")
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", c.Serve.Host)
	assert.Equal(t, 9999, c.Serve.Port)
}

func TestPurgeForceFlag(t *testing.T) {
	_, c, err := parseOnly(t, "purge", "--all", "--force")
	require.NoError(t, err)
	assert.True(t, c.Purge.All)
	assert.True(t, c.Purge.Force)
}

func TestGlobalFlags(t *testing.T) {
	globals, _, err := parseOnly(t, "--json", "--verbose", "--config", "/tmp/test.yaml", "status")
	require.NoError(t, err)
	assert.True(t, globals.JSON)
	assert.True(t, globals.Verbose)
	assert.Equal(t, "/tmp/test.yaml", globals.Config)
}

func TestUnknownSubcommandFails(t *testing.T) {
	_, _, err := parseOnly(t, "nonexistent")
	require.Error(t, err)
}

func TestHelpFlagDoesNotError(t *testing.T) {
	err := RunWithArgs("test", []string{"--help"})
	assert.NoError(t, err)
}

func TestRequiredIDs(t *testing.T) {
	for _, name := range []string{"edit", "delete", "show"} {
		err := RunWithArgs("test", []string{name})
		require.Error(t, err, name)
		assert.Contains(t, err.Error(), "--id is required", name)
	}
}

func TestPurgeRequiresAll(t *testing.T) {
	err := RunWithArgs("test", []string{"purge"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "purge requires --all flag for safety")
}

func TestEndToEnd_AddListChart(t *testing.T) {
	home := isolateHome(t)

	output := captureOutput(t, func() {
		require.NoError(t, RunWithArgs("test", []string{"add",
			"--title", "Graduate", "--timeline", "Education",
			"--start", "2010-06-01", "--end", "2010-06-01"}))
	})
	assert.Contains(t, output, "Added milestone")

	_, err := os.Stat(filepath.Join(home, ".config", "milestones", "config.yaml"))
	require.NoError(t, err, "first run writes the default config")
	_, err = os.Stat(filepath.Join(home, ".config", "milestones", "milestones.db"))
	require.NoError(t, err, "sqlite backend is the default")

	output = captureOutput(t, func() {
		require.NoError(t, RunWithArgs("test", []string{"list"}))
	})
	assert.Contains(t, output, "Graduate")
	assert.Contains(t, output, "[Education]")

	output = captureOutput(t, func() {
		require.NoError(t, RunWithArgs("test", []string{"chart"}))
	})
	assert.Contains(t, output, `"categories"`)
	assert.Contains(t, output, `"Education"`)
	assert.Contains(t, output, "1275350400000")
}

func TestEndToEnd_ValidationErrorNamesFields(t *testing.T) {
	isolateHome(t)

	err := RunWithArgs("test", []string{"add", "--title", "Graduate", "--start", "2010-06-01"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeline")
	assert.Contains(t, err.Error(), "end")
}

func TestEndToEnd_ExplicitConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
storage:
  backend: sqlite
  path: `+dir+`
  sqlite_file: custom.db
validation:
  enforce_date_order: true
`), 0644))

	err := RunWithArgs("test", []string{"--config", cfgPath, "add",
		"--title", "Backwards", "--timeline", "T", "--start", "2020-02-01", "--end", "2020-01-01"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start is after end")

	_, err = os.Stat(filepath.Join(dir, "custom.db"))
	assert.NoError(t, err)
}

func TestEndToEnd_MissingConfigFails(t *testing.T) {
	err := RunWithArgs("test", []string{"--config", filepath.Join(t.TempDir(), "nope.yaml"), "list"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}
