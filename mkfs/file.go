package mkfs

import (
	"path/filepath"

	"git.fractalqb.de/fractalqb/mkprebuilt/gomkore"
)

type File string

var _ Artefact = File("")

func (f File) Path() string { return string(f) }

func (f File) Name(in *gomkore.Project) string { return artefactName(in, f.Path()) }

type Dir string

var _ Artefact = Dir("")

func (d Dir) Path() string { return string(d) }

func (d Dir) Name(in *gomkore.Project) string { return artefactName(in, d.Path()) }

// File returns the file with name within d.
func (d Dir) File(name string) File { return File(filepath.Join(d.Path(), name)) }

func (d Dir) Sub(elem ...string) Dir {
	return Dir(filepath.Join(append([]string{d.Path()}, elem...)...))
}
