package mkprebuilt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"git.fractalqb.de/fractalqb/mkprebuilt/gomkore"
	"git.fractalqb.de/fractalqb/testerr"
	"github.com/google/go-cmp/cmp"
)

func TestDefaultConfig_valid(t *testing.T) {
	cfg := DefaultConfig()
	testerr.Shall(cfg.Validate()).BeNil(t)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prebuilt.toml")
	testerr.Shall(os.WriteFile(path, []byte(`project-dir = "rust"
packages = ["sqpack_reader"]
profiles = ["release"]
fail-mode = "strict"

[env]
RUSTFLAGS = "-C debuginfo=0"
`), 0666)).BeNil(t)
	cfg := testerr.Shall1(LoadConfig(path)).BeNil(t)

	want := DefaultConfig()
	want.ProjectDir = filepath.Join(dir, "rust")
	want.Packages = []string{"sqpack_reader"}
	want.Profiles = []string{"release"}
	want.FailMode = gomkore.StopOnFailure
	want.Env = map[string]string{"RUSTFLAGS": "-C debuginfo=0"}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_defaultProjectDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prebuilt.toml")
	testerr.Shall(os.WriteFile(path, []byte(`packages = ["util"]`), 0666)).BeNil(t)
	cfg := testerr.Shall1(LoadConfig(path)).BeNil(t)
	if cfg.ProjectDir != "." {
		t.Errorf("project dir without key: '%s'", cfg.ProjectDir)
	}
	dst := testerr.Shall1(cfg.DestRoot()).BeNil(t)
	want := testerr.Shall1(filepath.Abs("../FFXIVTools/libs/prebuilt")).BeNil(t)
	if dst != want {
		t.Errorf("destination %s, want %s", dst, want)
	}
}

func TestLoadConfig_badFailMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prebuilt.toml")
	testerr.Shall(os.WriteFile(path, []byte(`fail-mode = "maybe"`), 0666)).BeNil(t)
	if _, err := LoadConfig(path); err == nil {
		t.Error("accepted illegal fail mode")
	}
}

func TestConfig_WriteTOML(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ProjectDir = "/src/ffxiv"
	var sb strings.Builder
	testerr.Shall(cfg.WriteTOML(&sb)).BeNil(t)
	path := filepath.Join(t.TempDir(), "prebuilt.toml")
	testerr.Shall(os.WriteFile(path, []byte(sb.String()), 0666)).BeNil(t)
	back := testerr.Shall1(LoadConfig(path)).BeNil(t)
	if diff := cmp.Diff(cfg, back); diff != "" {
		t.Errorf("reloaded config (-want +got):\n%s\n%s", diff, sb.String())
	}
}

func TestConfig_Validate(t *testing.T) {
	for _, test := range []struct {
		name string
		edit func(*Config)
		err  string
	}{
		{"no packages", func(c *Config) { c.Packages = nil }, ""},
		{"no profiles", func(c *Config) { c.Profiles = nil }, "no profiles"},
		{"empty profile", func(c *Config) { c.Profiles = []string{""} }, "empty profile"},
		{"absolute profile", func(c *Config) { c.Profiles = []string{"/debug"} }, "absolute profile"},
		{"escaping profile", func(c *Config) { c.Profiles = []string{"../debug"} }, "leaves the build output"},
		{"no tool", func(c *Config) { c.Tool = "" }, "no build tool"},
		{"no archive ext", func(c *Config) { c.ArchiveExt = "" }, "no archive extension"},
		{"no meta ext", func(c *Config) { c.MetaExt = "" }, "no metadata extension"},
		{"no shared ext", func(c *Config) { c.SharedExt = "" }, ""},
		{"bench profile", func(c *Config) { c.Profiles = []string{"bench"} }, "debug or release"},
		{"custom profile", func(c *Config) { c.Profiles = []string{"wasm32-unknown-unknown/deploy"} }, ""},
		{"dest in build", func(c *Config) { c.Destination = "target_deploy/prebuilt" }, "overlap"},
		{"build in dest", func(c *Config) { c.BuildOutput = "../FFXIVTools/libs/prebuilt/tmp" }, "overlap"},
		{"same dirs", func(c *Config) { c.Destination = c.BuildOutput }, "overlap"},
		{"sibling dirs", func(c *Config) { c.Destination = "target_deploy2" }, ""},
	} {
		t.Run(test.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.ProjectDir = "/work"
			test.edit(&cfg)
			err := cfg.Validate()
			switch {
			case test.err == "" && err != nil:
				t.Errorf("unexpected error: %s", err)
			case test.err != "" && err == nil:
				t.Errorf("no error, want '%s'", test.err)
			case test.err != "" && !strings.Contains(err.Error(), test.err):
				t.Errorf("error '%s' does not contain '%s'", err, test.err)
			}
		})
	}
}
