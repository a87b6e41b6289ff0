package mkfs

import (
	"fmt"

	"git.fractalqb.de/fractalqb/mkprebuilt/gomkore"
	"github.com/go-git/go-billy/v5/util"
)

// Remove deletes the files and directory trees of its results, like rm -rf.
// Results that do not exist are not an error.
type Remove struct{}

var _ gomkore.Operation = Remove{}

func (Remove) Describe(a *gomkore.Action, _ *gomkore.Env) string {
	if a == nil {
		return "rm -rf"
	}
	return fmt.Sprintf("rm -rf %s", goalNames(a.Results()))
}

func (Remove) Do(tr *gomkore.Trace, a *gomkore.Action, env *gomkore.Env) error {
	fsys, err := envFS(env)
	if err != nil {
		return err
	}
	prj := a.Project()
	for _, res := range a.Results() {
		var p string
		switch res := res.Artefact.(type) {
		case gomkore.Abstract:
			continue
		case Artefact:
			p = res.Path()
		default:
			return illegalArtefact("Remove", "result", res)
		}
		path, err := prj.AbsPath(p)
		if err != nil {
			return err
		}
		tr.Debug("remove `path`", `path`, path)
		if err := util.RemoveAll(fsys, path); err != nil {
			return fmt.Errorf("remove %s: %w", path, err)
		}
	}
	return nil
}
