package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"git.fractalqb.de/fractalqb/testerr"
)

func run(t *testing.T, args ...string) (string, error) {
	cmd := newRootCmd()
	var out strings.Builder
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prebuilt.toml")
	testerr.Shall(os.WriteFile(path, []byte(`packages = ["util"]`), 0666)).BeNil(t)
	out, err := run(t, "config", "-c", path)
	testerr.Shall(err).BeNil(t)
	for _, s := range []string{
		`project-dir = "."`,
		`tool = "cargo"`,
		`"util"`,
		`fail-mode = "continue"`,
	} {
		if !strings.Contains(out, s) {
			t.Errorf("config output misses %s:\n%s", s, out)
		}
	}
	if strings.Contains(out, "sqpack_reader") {
		t.Errorf("default packages not replaced:\n%s", out)
	}
}

func TestDotCmd(t *testing.T) {
	out, err := run(t, "dot")
	testerr.Shall(err).BeNil(t)
	if !strings.HasPrefix(out, "digraph") || !strings.Contains(out, "wasm32-unknown-unknown") {
		t.Errorf("unexpected graph:\n%s", out)
	}
}

func TestRootCmd_invalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prebuilt.toml")
	testerr.Shall(os.WriteFile(path, []byte(`profiles = []`), 0666)).BeNil(t)
	if _, err := run(t, "-c", path); err == nil {
		t.Error("sync with empty profile list")
	}
	if _, err := run(t, "-t", "loud", "dot"); err != nil {
		t.Errorf("dot must not depend on trace flag: %s", err)
	}
}
