package mkfs

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"git.fractalqb.de/fractalqb/mkprebuilt/gomkore"
)

// MkDirs creates the directories of its results including all missing
// parents. For [File] results the file's directory is created. Existing
// directories are fine.
type MkDirs struct {
	MkDirMode fs.FileMode
}

var _ gomkore.Operation = MkDirs{}

func (md MkDirs) Describe(a *gomkore.Action, _ *gomkore.Env) string {
	if a == nil {
		return fmt.Sprintf("mkdir -p (%s)", md.mode())
	}
	return fmt.Sprintf("mkdir -p %s", goalNames(a.Results()))
}

func (md MkDirs) Do(tr *gomkore.Trace, a *gomkore.Action, env *gomkore.Env) error {
	fsys, err := envFS(env)
	if err != nil {
		return err
	}
	prj := a.Project()
	for _, res := range a.Results() {
		var dir string
		switch res := res.Artefact.(type) {
		case gomkore.Abstract:
			continue
		case File:
			dir = filepath.Dir(res.Path())
		case Dir:
			dir = res.Path()
		case DirList:
			dir = res.Path()
		default:
			return illegalArtefact("MkDirs", "result", res)
		}
		path, err := prj.AbsPath(dir)
		if err != nil {
			return err
		}
		tr.Debug("create `directory`", `directory`, path)
		if err := fsys.MkdirAll(path, md.mode()); err != nil {
			return err
		}
	}
	return nil
}

func (md MkDirs) mode() fs.FileMode {
	if md.MkDirMode == 0 {
		return 0777
	}
	return md.MkDirMode
}
