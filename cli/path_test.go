package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ardnew/scene/pkg"
)

func TestSearchPath(t *testing.T) {
	sep := string(os.PathListSeparator)
	lib := pkg.LibDir()

	tests := []struct {
		name string
		env  string
		dirs []string
		want []string
	}{
		{
			name: "defaults",
			want: []string{lib},
		},
		{
			name: "environment",
			env:  strings.Join([]string{"/a", "/b"}, sep),
			want: []string{"/a", "/b", lib},
		},
		{
			name: "flags first",
			env:  "/a",
			dirs: []string{"/x", "/y"},
			want: []string{"/x", "/y", "/a", lib},
		},
		{
			name: "duplicates and empties",
			env:  strings.Join([]string{"/a", "", "/x", lib}, sep),
			dirs: []string{"/x"},
			want: []string{"/x", "/a", lib},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(pkg.PathEnv(), tt.env)
			require.Equal(t, tt.want, searchPath(tt.dirs...))
		})
	}
}

func TestConfigPath(t *testing.T) {
	require.Equal(t, filepath.Join(configPath(), "a", "b"), configPath("a", "b"))
}
