package gomkore

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// Env is the environment an [Operation] runs in. Tags are the environment
// variables passed to external commands. FS is the filesystem that file
// operations work on.
type Env struct {
	In       io.Reader
	Out, Err io.Writer
	FS       billy.Filesystem

	tags    map[string]string
	xenv    []string
	xenvErr error
	parent  *Env
}

// DefaultEnv uses the process' stdio, the OS filesystem and takes the tags
// from the process environment.
func DefaultEnv(tr *Trace) *Env {
	env := &Env{
		In:   os.Stdin,
		Out:  os.Stdout,
		Err:  os.Stderr,
		FS:   osfs.New("/"),
		tags: make(map[string]string),
	}
	for _, evar := range os.Environ() {
		k, v, _ := strings.Cut(evar, "=")
		if k == "" {
			if tr != nil {
				tr.Warn("ignoring default `env`", `env`, evar)
			}
			continue
		}
		env.tags[k] = v
	}
	return env
}

// Sub returns an environment that shares e's stdio and filesystem. Tags set in
// the sub environment shadow the tags of e.
func (e *Env) Sub() *Env {
	return &Env{
		In: e.In, Out: e.Out, Err: e.Err,
		FS:     e.FS,
		parent: e,
	}
}

func (e *Env) Tag(key string) (string, bool) {
	for e != nil {
		if e.tags != nil {
			if v, ok := e.tags[key]; ok {
				return v, true
			}
		}
		e = e.parent
	}
	return "", false
}

func (e *Env) SetTag(key, val string) {
	if e.tags == nil {
		e.tags = make(map[string]string)
	}
	e.tags[key] = val
	e.clearXEnv()
}

// SetTags sets tags from "key=value" strings. A string without '=' sets the
// tag to the empty value.
func (e *Env) SetTags(env ...string) {
	if e.tags == nil {
		e.tags = make(map[string]string)
	}
	for _, evar := range env {
		k, v, _ := strings.Cut(evar, "=")
		e.tags[k] = v
	}
	e.clearXEnv()
}

func (e *Env) SetTagsMap(tags map[string]string) {
	if len(tags) == 0 {
		return
	}
	if e.tags == nil {
		e.tags = make(map[string]string)
	}
	maps.Copy(e.tags, tags)
	e.clearXEnv()
}

type NonXEnvKeys []string

func (e NonXEnvKeys) Error() string {
	return fmt.Sprintf("illegal exec env keys: %s", strings.Join(e, ", "))
}

func (NonXEnvKeys) Is(target error) bool {
	_, ok := target.(NonXEnvKeys)
	return ok
}

// ExecEnv returns the tags as "key=value" strings sorted by key, ready to be
// used as [os/exec.Cmd.Env]. Tags that cannot be passed to a process are
// skipped and reported with a [NonXEnvKeys] error.
func (e *Env) ExecEnv() ([]string, error) {
	if e.xenv == nil {
		tags := e.mergedTags()
		var errKeys []string
		for _, k := range slices.Sorted(maps.Keys(tags)) {
			switch {
			case k == "":
				errKeys = append(errKeys, `""`)
			case strings.ContainsRune(k, '='):
				errKeys = append(errKeys, k)
			default:
				e.xenv = append(e.xenv, k+"="+tags[k])
			}
		}
		if len(errKeys) > 0 {
			e.xenvErr = NonXEnvKeys(errKeys)
		}
	}
	return e.xenv, e.xenvErr
}

func (e *Env) clearXEnv() {
	e.xenv = nil
	e.xenvErr = nil
}

func (e *Env) mergedTags() map[string]string {
	if e.parent == nil {
		if e.tags == nil {
			return make(map[string]string)
		}
		return maps.Clone(e.tags)
	}
	mts := e.parent.mergedTags()
	maps.Copy(mts, e.tags)
	return mts
}
