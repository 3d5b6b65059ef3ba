package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/scene/cli/cmd"
)

func newParser(t *testing.T, c *CLI) *kong.Kong {
	t.Helper()

	vars := kong.Vars{
		cmd.ConfigIdentifier: "config.yaml",
		cmd.CacheIdentifier:  t.TempDir(),
		"version":            "scene test",
	}.
		CloneWith(c.Log.vars()).
		CloneWith(c.Pprof.vars())

	parser, err := kong.New(c,
		kong.Exit(func(int) { t.Fatal("unexpected exit") }),
		kong.ExplicitGroups([]kong.Group{c.Log.group(), c.Pprof.group()}),
		vars,
	)
	require.NoError(t, err)

	return parser
}

func TestCLIGlobalFlags(t *testing.T) {
	var c CLI

	ktx, err := newParser(t, &c).Parse([]string{
		"--lib", "shapes", "-l", "charts",
		"--lib-path", "/opt/scene", "-L", "/usr/share/scene",
		"--log-level", "debug",
		"check", "intro.scn",
	})
	require.NoError(t, err)

	require.Equal(t, "check", strings.Fields(ktx.Command())[0])
	require.Equal(t, []string{"shapes", "charts"}, c.Lib)
	require.Equal(t, []string{"/opt/scene", "/usr/share/scene"}, c.LibPath)
	require.Equal(t, logLevel("debug"), c.Log.Level)
	require.Equal(t, "intro.scn", c.Check.Source)
}

func TestCLICommands(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"check"}, "check"},
		{[]string{"eval", "a.scn", "Scene", "width"}, "eval"},
		{[]string{"dump", "-f", "yaml"}, "dump"},
		{[]string{"render", "--all", "a.scn"}, "render"},
		{[]string{"fmt", "-w", "a.scn"}, "fmt"},
		{[]string{"init", "--force"}, "init"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			var c CLI

			ktx, err := newParser(t, &c).Parse(tt.args)
			require.NoError(t, err)
			require.Equal(t, tt.want, strings.Fields(ktx.Command())[0])
		})
	}
}

func TestCLIRejectsUnknownLevel(t *testing.T) {
	var c CLI

	_, err := newParser(t, &c).Parse([]string{"--log-level", "loud", "check"})
	require.Error(t, err)
}
