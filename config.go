package mkprebuilt

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"git.fractalqb.de/fractalqb/mkprebuilt/gomkore"
	"github.com/pelletier/go-toml"
)

// Config describes one deployment of prebuilt libraries.
type Config struct {
	// ProjectDir is the directory the build tool runs in. Relative
	// Destination and BuildOutput paths resolve against it.
	ProjectDir string

	Tool     string
	Packages []string
	// Profiles are paths below the build output, e.g.
	// "wasm32-unknown-unknown/debug" or "debug".
	Profiles []string

	Destination string
	BuildOutput string

	// Profiles that contain WasmMarker do not get shared objects.
	WasmMarker string

	LibPrefix  string
	ArchiveExt string
	MetaExt    string
	SharedExt  string
	DepsDir    string

	FailMode gomkore.FailMode

	// Env is added to the environment of the build tool.
	Env map[string]string
}

// DefaultConfig returns the configuration that deploys the FFXIVTools
// libraries.
func DefaultConfig() Config {
	return Config{
		ProjectDir:  ".",
		Tool:        "cargo",
		Packages:    []string{"ffxiv_parser", "sqpack_reader", "util"},
		Profiles:    []string{"wasm32-unknown-unknown/debug", "debug"},
		Destination: "../FFXIVTools/libs/prebuilt",
		BuildOutput: "target_deploy",
		WasmMarker:  "wasm",
		LibPrefix:   "lib",
		ArchiveExt:  ".rlib",
		MetaExt:     ".rmeta",
		SharedExt:   ".so",
		DepsDir:     "deps",
		FailMode:    gomkore.ContinueOnFailure,
	}
}

type tomlConfig struct {
	ProjectDir  string            `toml:"project-dir"`
	Tool        string            `toml:"tool"`
	Packages    []string          `toml:"packages"`
	Profiles    []string          `toml:"profiles"`
	Destination string            `toml:"destination"`
	BuildOutput string            `toml:"build-output"`
	WasmMarker  string            `toml:"wasm-marker"`
	LibPrefix   string            `toml:"lib-prefix"`
	ArchiveExt  string            `toml:"archive-ext"`
	MetaExt     string            `toml:"meta-ext"`
	SharedExt   string            `toml:"shared-ext"`
	DepsDir     string            `toml:"deps-dir"`
	FailMode    string            `toml:"fail-mode"`
	Env         map[string]string `toml:"env,omitempty"`
}

// LoadConfig reads the TOML file path over [DefaultConfig]. Keys missing in
// the file keep their default value. A relative project-dir given in the file
// is relative to the directory of the file.
func LoadConfig(path string) (cfg Config, err error) {
	cfg = DefaultConfig()
	tree, err := toml.LoadFile(path)
	if err != nil {
		return cfg, err
	}
	var raw tomlConfig
	if err := tree.Unmarshal(&raw); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	setStr := func(key string, dst *string, val string) {
		if tree.Has(key) {
			*dst = val
		}
	}
	setStr("project-dir", &cfg.ProjectDir, raw.ProjectDir)
	setStr("tool", &cfg.Tool, raw.Tool)
	setStr("destination", &cfg.Destination, raw.Destination)
	setStr("build-output", &cfg.BuildOutput, raw.BuildOutput)
	setStr("wasm-marker", &cfg.WasmMarker, raw.WasmMarker)
	setStr("lib-prefix", &cfg.LibPrefix, raw.LibPrefix)
	setStr("archive-ext", &cfg.ArchiveExt, raw.ArchiveExt)
	setStr("meta-ext", &cfg.MetaExt, raw.MetaExt)
	setStr("shared-ext", &cfg.SharedExt, raw.SharedExt)
	setStr("deps-dir", &cfg.DepsDir, raw.DepsDir)
	if tree.Has("packages") {
		cfg.Packages = raw.Packages
	}
	if tree.Has("profiles") {
		cfg.Profiles = raw.Profiles
	}
	if tree.Has("fail-mode") {
		if cfg.FailMode, err = gomkore.ParseFailMode(raw.FailMode); err != nil {
			return cfg, fmt.Errorf("config %s: %w", path, err)
		}
	}
	if tree.Has("env") {
		cfg.Env = raw.Env
	}
	if tree.Has("project-dir") && !filepath.IsAbs(cfg.ProjectDir) {
		cfg.ProjectDir = filepath.Join(filepath.Dir(path), cfg.ProjectDir)
	}
	return cfg, nil
}

// WriteTOML writes cfg in the format read by [LoadConfig].
func (cfg *Config) WriteTOML(w io.Writer) error {
	raw := tomlConfig{
		ProjectDir:  cfg.ProjectDir,
		Tool:        cfg.Tool,
		Packages:    cfg.Packages,
		Profiles:    cfg.Profiles,
		Destination: cfg.Destination,
		BuildOutput: cfg.BuildOutput,
		WasmMarker:  cfg.WasmMarker,
		LibPrefix:   cfg.LibPrefix,
		ArchiveExt:  cfg.ArchiveExt,
		MetaExt:     cfg.MetaExt,
		SharedExt:   cfg.SharedExt,
		DepsDir:     cfg.DepsDir,
		FailMode:    cfg.FailMode.String(),
		Env:         cfg.Env,
	}
	if raw.Packages == nil {
		raw.Packages = []string{}
	}
	return toml.NewEncoder(w).Order(toml.OrderPreserve).Encode(raw)
}

// Validate checks cfg for settings a deployment cannot work with. An empty
// package list is valid. Duplicate packages are not checked.
func (cfg *Config) Validate() error {
	var errs []error
	if cfg.Tool == "" {
		errs = append(errs, errors.New("no build tool"))
	}
	if len(cfg.Profiles) == 0 {
		errs = append(errs, errors.New("no profiles"))
	}
	for i, p := range cfg.Profiles {
		if err := Profile(p).check(); err != nil {
			errs = append(errs, fmt.Errorf("profile %d: %w", i, err))
		}
	}
	if cfg.ArchiveExt == "" {
		errs = append(errs, errors.New("no archive extension"))
	}
	if cfg.MetaExt == "" {
		errs = append(errs, errors.New("no metadata extension"))
	}
	switch {
	case cfg.Destination == "":
		errs = append(errs, errors.New("no destination"))
	case cfg.BuildOutput == "":
		errs = append(errs, errors.New("no build output"))
	default:
		dst, err1 := cfg.DestRoot()
		bld, err2 := cfg.BuildRoot()
		if err := errors.Join(err1, err2); err != nil {
			errs = append(errs, err)
		} else if within(dst, bld) || within(bld, dst) {
			errs = append(errs, fmt.Errorf("destination %s and build output %s overlap",
				cfg.Destination,
				cfg.BuildOutput,
			))
		}
	}
	switch cfg.FailMode {
	case gomkore.ContinueOnFailure, gomkore.StopOnFailure:
	default:
		errs = append(errs, fmt.Errorf("illegal %s", cfg.FailMode))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DestRoot returns the absolute destination directory.
func (cfg *Config) DestRoot() (string, error) { return cfg.abs(cfg.Destination) }

// BuildRoot returns the absolute build output directory.
func (cfg *Config) BuildRoot() (string, error) { return cfg.abs(cfg.BuildOutput) }

func (cfg *Config) abs(p string) (string, error) {
	if filepath.IsAbs(p) {
		return filepath.Clean(p), nil
	}
	dir := cfg.ProjectDir
	if dir == "" {
		dir = "."
	}
	return filepath.Abs(filepath.Join(dir, p))
}

// within reports whether path p is dir or below dir.
func within(p, dir string) bool {
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
