package pkg

import (
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	if Name != "scene" {
		t.Errorf("expected Name to be %q, got %q", "scene", Name)
	}
}

func TestVersion_IsSemantic(t *testing.T) {
	v := strings.TrimSpace(Version)
	if !regexp.MustCompile(`^\d+\.\d+\.\d+`).MatchString(v) {
		t.Errorf("expected a semantic version, got %q", v)
	}
}

func TestAuthor_NotEmpty(t *testing.T) {
	if len(Author) == 0 || Author[0].Name == "" {
		t.Error("expected at least one named author")
	}
}

func TestDirs_EndWithPrefix(t *testing.T) {
	prefix := Prefix()
	if prefix == "" {
		t.Fatal("expected a non-empty prefix")
	}
	if strings.HasPrefix(prefix, ".") {
		t.Errorf("expected leading dots stripped, got %q", prefix)
	}

	for name, dir := range map[string]string{
		"config": ConfigDir(),
		"cache":  CacheDir(),
	} {
		if filepath.Base(dir) != prefix {
			t.Errorf("%s dir %q does not end with %q", name, dir, prefix)
		}
	}
}

func TestLibDir_UnderConfigDir(t *testing.T) {
	if got, want := LibDir(), filepath.Join(ConfigDir(), "lib"); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestPathEnv(t *testing.T) {
	env := PathEnv()
	if !strings.HasSuffix(env, "_PATH") || strings.ToUpper(env) != env {
		t.Errorf("unexpected environment variable name %q", env)
	}
}
