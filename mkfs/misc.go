// Package mkfs provides artefacts and operations for files and directories.
// All operations work on the [billy.Filesystem] of the [gomkore.Env] they are
// run with.
package mkfs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"git.fractalqb.de/fractalqb/mkprebuilt/gomkore"
	"github.com/go-git/go-billy/v5"
)

type Artefact interface {
	gomkore.Artefact
	Path() string
}

func Stat(fsys billy.Filesystem, a Artefact, in *gomkore.Project) (fs.FileInfo, error) {
	p, err := in.AbsPath(a.Path())
	if err != nil {
		return nil, err
	}
	return fsys.Stat(p)
}

func Exists(fsys billy.Filesystem, a Artefact, in *gomkore.Project) (bool, error) {
	_, err := Stat(fsys, a, in)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func envFS(env *gomkore.Env) (billy.Filesystem, error) {
	if env == nil || env.FS == nil {
		return nil, errors.New("no filesystem in environment")
	}
	return env.FS, nil
}

func artefactName(in *gomkore.Project, path string) string {
	if in == nil {
		return path
	}
	n, err := in.RelPath(path)
	if err != nil {
		return path
	}
	return n
}

func illegalArtefact(op string, role string, atf gomkore.Artefact) error {
	return fmt.Errorf("%s: illegal %s artefact type %T", op, role, atf)
}

func goalNames(gs []*gomkore.Goal) string {
	var sb strings.Builder
	for i, g := range gs {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(g.Name())
	}
	return sb.String()
}
