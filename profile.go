package mkprebuilt

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// Profile is a path fragment below the build output that holds the artifacts
// of one build, e.g. "wasm32-unknown-unknown/debug". Profiles use '/' as
// separator on all platforms.
type Profile string

// Target is everything before the last element. It is empty for the host.
func (p Profile) Target() string {
	dir := path.Dir(string(p))
	if dir == "." {
		return ""
	}
	return dir
}

// Config is the last element of p, e.g. "debug" or "release".
func (p Profile) Config() string { return path.Base(string(p)) }

// IsWasm reports whether p contains marker. An empty marker never matches.
func (p Profile) IsWasm(marker string) bool {
	return marker != "" && strings.Contains(string(p), marker)
}

// FilePath returns p with the OS path separator.
func (p Profile) FilePath() string { return filepath.FromSlash(string(p)) }

func (p Profile) check() error {
	switch {
	case p == "":
		return errors.New("empty profile")
	case path.IsAbs(string(p)) || filepath.IsAbs(string(p)):
		return fmt.Errorf("absolute profile '%s'", p)
	case slices.Contains(strings.Split(string(p), "/"), ".."):
		return fmt.Errorf("profile '%s' leaves the build output", p)
	case p.Config() == "." || p.Config() == "":
		return fmt.Errorf("profile '%s' has no configuration", p)
	case slices.Contains(sharedOutDirs, p.Config()):
		return fmt.Errorf("profile '%s': cargo writes %s builds to debug or release",
			p,
			p.Config(),
		)
	}
	return nil
}

// cargo's built-in profiles that have no output directory of their own
var sharedOutDirs = []string{"dev", "test", "bench"}

// Target is one invocation of the build tool.
type Target struct {
	// Triple is passed with --target. Empty means the host.
	Triple string
	// Config is the output directory of the build configuration. "debug" is
	// the tool's default, "release" is passed as --release, anything else
	// as --profile. Only custom profiles write to a directory of their own
	// name, so "dev", "test" and "bench" are rejected by [Config.Validate].
	Config string
}

func (t Target) IsHost() bool { return t.Triple == "" }

func (t Target) String() string {
	if t.IsHost() {
		return "host/" + t.Config
	}
	return t.Triple + "/" + t.Config
}

func (t Target) args() []string {
	var args []string
	if !t.IsHost() {
		args = append(args, "--target", t.Triple)
	}
	switch t.Config {
	case "", "debug":
	case "release":
		args = append(args, "--release")
	default:
		args = append(args, "--profile", t.Config)
	}
	return args
}

// Targets returns the distinct build invocations needed for all profiles of
// cfg. Host targets come first, the others follow in the order they first
// appear in the profile list.
func (cfg *Config) Targets() []Target {
	var host, cross []Target
	for _, p := range cfg.Profiles {
		prf := Profile(p)
		t := Target{Triple: prf.Target(), Config: prf.Config()}
		if slices.Contains(host, t) || slices.Contains(cross, t) {
			continue
		}
		if t.IsHost() {
			host = append(host, t)
		} else {
			cross = append(cross, t)
		}
	}
	return append(host, cross...)
}
