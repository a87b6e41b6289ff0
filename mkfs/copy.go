package mkfs

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"git.fractalqb.de/fractalqb/mkprebuilt/gomkore"
	"github.com/go-git/go-billy/v5"
)

// Copy [Operation] copies its [File] and [DirList] premises to each of its
// results. Other premises, e.g. [Dir] or [gomkore.Abstract], only order the
// action. A [File] result receives a copy of the single [File] premise. [Dir]
// and [DirList] results receive copies of all files and of all selected
// directory entries. Selected subdirectories are copied recursively.
type Copy struct {
	// If not zero, missing target directories are created with MkDirMode.
	MkDirMode fs.FileMode
	// OnCopy is called with the target path of every file or directory
	// entry that was copied.
	OnCopy func(dst string)
}

var _ gomkore.Operation = Copy{}

func (cp Copy) Describe(a *gomkore.Action, _ *gomkore.Env) string {
	if a == nil {
		return "FS copy"
	}
	var srcs, dsts []string
	for _, pre := range a.Premises() {
		switch pre.Artefact.(type) {
		case File, DirList:
			srcs = append(srcs, pre.Name())
		}
	}
	for _, res := range a.Results() {
		dsts = append(dsts, res.Name())
	}
	return fmt.Sprintf("copy %s -> %s",
		strings.Join(srcs, " "),
		strings.Join(dsts, " "),
	)
}

func (cp Copy) Do(tr *gomkore.Trace, a *gomkore.Action, env *gomkore.Env) error {
	fsys, err := envFS(env)
	if err != nil {
		return err
	}
	prj := a.Project()
	var srcs []Artefact
	for _, pre := range a.Premises() {
		switch fsa := pre.Artefact.(type) {
		case File:
			srcs = append(srcs, fsa)
		case DirList:
			srcs = append(srcs, fsa)
		}
	}
	var errs []error
	for _, res := range a.Results() {
		switch res := res.Artefact.(type) {
		case File:
			err = cp.toFile(tr, fsys, prj, res, srcs)
		case Dir:
			err = cp.toDir(tr, fsys, prj, res.Path(), srcs)
		case DirList:
			err = cp.toDir(tr, fsys, prj, res.Path(), srcs)
		case gomkore.Abstract:
			continue
		default:
			err = illegalArtefact("FS copy", "result", res)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (cp Copy) toFile(tr *gomkore.Trace, fsys billy.Filesystem, prj *gomkore.Project, dst File, srcs []Artefact) error {
	if len(srcs) != 1 {
		return fmt.Errorf("FS copy to file %s needs 1 source, have %d", dst.Path(), len(srcs))
	}
	src, ok := srcs[0].(File)
	if !ok {
		return fmt.Errorf("FS copy: cannot copy %s to file %s", srcs[0].Path(), dst.Path())
	}
	dstPath, err := prj.AbsPath(dst.Path())
	if err != nil {
		return err
	}
	srcPath, err := prj.AbsPath(src.Path())
	if err != nil {
		return err
	}
	if err := cp.provideDir(fsys, filepath.Dir(dstPath)); err != nil {
		return err
	}
	if err := CopyFile(tr, fsys, dstPath, srcPath); err != nil {
		return err
	}
	cp.copied(dstPath)
	return nil
}

func (cp Copy) toDir(tr *gomkore.Trace, fsys billy.Filesystem, prj *gomkore.Project, dst string, srcs []Artefact) error {
	dstPath, err := prj.AbsPath(dst)
	if err != nil {
		return err
	}
	if err := cp.provideDir(fsys, dstPath); err != nil {
		return err
	}
	var errs []error
	for _, src := range srcs {
		srcPath, err := prj.AbsPath(src.Path())
		if err != nil {
			return err
		}
		switch src := src.(type) {
		case File:
			fdst := filepath.Join(dstPath, filepath.Base(srcPath))
			if err := CopyFile(tr, fsys, fdst, srcPath); err != nil {
				errs = append(errs, err)
			} else {
				cp.copied(fdst)
			}
		case DirList:
			copied, err := CopyEntries(tr, fsys, dstPath, srcPath, src.Filter)
			for _, c := range copied {
				cp.copied(c)
			}
			if err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (cp Copy) copied(dst string) {
	if cp.OnCopy != nil {
		cp.OnCopy(dst)
	}
}

func (cp Copy) provideDir(fsys billy.Filesystem, path string) error {
	if cp.MkDirMode == 0 {
		return nil
	}
	return fsys.MkdirAll(path, cp.MkDirMode)
}

// CopyEntries copies all entries of directory srcDir that pass filter into
// directory dstDir, which must exist. Selected directories are copied
// recursively. It returns the target paths of the copied entries in the order
// of their names. Entries that fail to copy do not stop the others from being
// copied, all errors are returned together.
func CopyEntries(tr *gomkore.Trace, fsys billy.Filesystem, dstDir, srcDir string, filter Filter) (copied []string, err error) {
	names, err := listDir(fsys, srcDir, filter)
	if err != nil {
		return nil, fmt.Errorf("FS copy from %s: %w", srcDir, err)
	}
	if len(names) == 0 {
		tr.Debug("FS copy: nothing selected in `dir`", `dir`, srcDir)
		return nil, nil
	}
	var errs []error
	for _, n := range names {
		src, dst := filepath.Join(srcDir, n), filepath.Join(dstDir, n)
		st, err := fsys.Stat(src)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if st.IsDir() {
			err = copyTree(tr, fsys, dst, src, st)
		} else {
			err = copyFile(tr, fsys, dst, src, st)
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		copied = append(copied, dst)
	}
	return copied, errors.Join(errs...)
}

// CopyFile copies the regular file src to dst. An existing dst is truncated.
func CopyFile(tr *gomkore.Trace, fsys billy.Filesystem, dst, src string) error {
	st, err := fsys.Stat(src)
	if err != nil {
		return err
	}
	if st.IsDir() {
		return fmt.Errorf("FS copy: %s is a directory", src)
	}
	return copyFile(tr, fsys, dst, src, st)
}

func copyTree(tr *gomkore.Trace, fsys billy.Filesystem, dst, src string, sstat fs.FileInfo) error {
	tr.Debug("FS copy: mkdir `src` -> `dst`", `src`, src, `dst`, dst)
	if err := fsys.MkdirAll(dst, sstat.Mode().Perm()); err != nil {
		return err
	}
	infos, err := fsys.ReadDir(src)
	if err != nil {
		return err
	}
	for _, info := range infos {
		s, d := filepath.Join(src, info.Name()), filepath.Join(dst, info.Name())
		if info.IsDir() {
			err = copyTree(tr, fsys, d, s, info)
		} else {
			err = copyFile(tr, fsys, d, s, info)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func copyFile(tr *gomkore.Trace, fsys billy.Filesystem, dst, src string, sstat fs.FileInfo) (err error) {
	if src == dst {
		return nil
	}
	tr.Debug("FS copy: `src` -> `dst`", `src`, src, `dst`, dst)
	r, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer r.Close()
	w, err := fsys.OpenFile(dst,
		os.O_CREATE|os.O_TRUNC|os.O_WRONLY,
		sstat.Mode().Perm(),
	)
	if err != nil {
		return err
	}
	defer func() {
		if e := w.Close(); e != nil && err == nil {
			err = e
		}
	}()
	_, err = io.Copy(w, r)
	return err
}
