package gomkore

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEnv_SetTags(t *testing.T) {
	var e Env
	e.SetTags("")
	if v, ok := e.Tag(""); !ok {
		t.Error("empty tag not set")
	} else if v != "" {
		t.Errorf("emty tag has value '%s'", v)
	}
	e.SetTags("foo")
	if v, ok := e.Tag("foo"); !ok {
		t.Error("tag 'foo' not set")
	} else if v != "" {
		t.Errorf("tag 'foo' has value '%s'", v)
	}
	e.SetTags("foo=bar")
	if v, ok := e.Tag("foo"); !ok {
		t.Error("tag 'foo' not set")
	} else if v != "bar" {
		t.Errorf("tag 'foo' has value '%s'", v)
	}
	e.SetTags("=bar")
	if v, ok := e.Tag(""); !ok {
		t.Error("empty tag not set")
	} else if v != "bar" {
		t.Errorf("emty tag has value '%s'", v)
	}
}

func TestEnv_ExecEnv(t *testing.T) {
	var base Env
	base.SetTagsMap(map[string]string{"PATH": "/bin", "HOME": "/root"})
	sub := base.Sub()
	sub.SetTag("CARGO_TERM_COLOR", "never")
	sub.SetTag("HOME", "/home/dev")

	xenv, err := sub.ExecEnv()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"CARGO_TERM_COLOR=never", "HOME=/home/dev", "PATH=/bin"}
	if diff := cmp.Diff(want, xenv); diff != "" {
		t.Errorf("exec env (-want +got):\n%s", diff)
	}

	sub.SetTag("A=B", "x")
	xenv, err = sub.ExecEnv()
	if !errors.Is(err, NonXEnvKeys(nil)) {
		t.Errorf("expected NonXEnvKeys, got %v", err)
	}
	if len(xenv) != 3 {
		t.Errorf("illegal key not skipped: %v", xenv)
	}
}
