package mkprebuilt

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestProfile(t *testing.T) {
	p := Profile("wasm32-unknown-unknown/debug")
	if tgt := p.Target(); tgt != "wasm32-unknown-unknown" {
		t.Errorf("target: %s", tgt)
	}
	if c := p.Config(); c != "debug" {
		t.Errorf("config: %s", c)
	}
	if !p.IsWasm("wasm") || p.IsWasm("") {
		t.Error("wrong wasm detection")
	}
	p = "debug"
	if p.Target() != "" || p.Config() != "debug" || p.IsWasm("wasm") {
		t.Errorf("host profile %s: '%s' '%s'", p, p.Target(), p.Config())
	}
}

func TestConfig_Targets(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Profiles = []string{
		"wasm32-unknown-unknown/debug",
		"debug",
		"x86_64-unknown-linux-musl/release",
		"release",
		"wasm32-unknown-unknown/debug",
		"debug",
	}
	want := []Target{
		{Config: "debug"},
		{Config: "release"},
		{Triple: "wasm32-unknown-unknown", Config: "debug"},
		{Triple: "x86_64-unknown-linux-musl", Config: "release"},
	}
	if diff := cmp.Diff(want, cfg.Targets()); diff != "" {
		t.Errorf("targets (-want +got):\n%s", diff)
	}
}
