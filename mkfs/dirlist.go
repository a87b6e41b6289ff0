package mkfs

import (
	"fmt"
	"path/filepath"
	"slices"

	"git.fractalqb.de/fractalqb/mkprebuilt/gomkore"
	"github.com/go-git/go-billy/v5"
)

// DirList is the set of entries directly within Dir that pass Filter. A nil
// Filter selects all entries. The name of a DirList includes the filter, so
// the same directory can be used with different filters in one project.
type DirList struct {
	Dir    string
	Filter Filter
}

var _ Artefact = DirList{}

func (d DirList) Path() string { return d.Dir }

func (d DirList) Name(in *gomkore.Project) string {
	n := artefactName(in, d.Dir)
	if d.Filter == nil {
		return n
	}
	return n + string(filepath.Separator) + d.Filter.String()
}

// List returns the paths of the selected entries sorted by name.
func (d DirList) List(fsys billy.Filesystem, in *gomkore.Project) ([]string, error) {
	dir, err := in.AbsPath(d.Dir)
	if err != nil {
		return nil, err
	}
	names, err := listDir(fsys, dir, d.Filter)
	if err != nil {
		return nil, err
	}
	for i, n := range names {
		names[i] = filepath.Join(d.Dir, n)
	}
	return names, nil
}

// listDir returns the names of the entries in dir that pass filter, sorted by
// name. Unlike a shell glob, no match is not an error. A missing dir is.
func listDir(fsys billy.Filesystem, dir string, filter Filter) ([]string, error) {
	st, err := fsys.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("%s is no directory", dir)
	}
	infos, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, info := range infos {
		if filter != nil {
			if ok, err := filter.Ok(info.Name(), info); err != nil {
				return nil, err
			} else if !ok {
				continue
			}
		}
		names = append(names, info.Name())
	}
	slices.Sort(names)
	return names, nil
}
