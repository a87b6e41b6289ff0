package mkfs

import (
	"context"
	"io"
	"io/fs"
	"path/filepath"
	"slices"
	"testing"

	"git.fractalqb.de/fractalqb/mkprebuilt/gomkore"
	"git.fractalqb.de/fractalqb/testerr"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/google/go-cmp/cmp"
)

func testFS(t *testing.T, files ...string) billy.Filesystem {
	fsys := memfs.New()
	for _, f := range files {
		testerr.Shall(fsys.MkdirAll(filepath.Dir(f), 0777)).BeNil(t)
		testerr.Shall(util.WriteFile(fsys, f, []byte(f), 0666)).BeNil(t)
	}
	return fsys
}

func readFile(t *testing.T, fsys billy.Filesystem, name string) string {
	t.Helper()
	r := testerr.Shall1(fsys.Open(name)).BeNil(t)
	defer r.Close()
	return string(testerr.Shall1(io.ReadAll(r)).BeNil(t))
}

func listTree(t *testing.T, fsys billy.Filesystem, root string) (ls []string) {
	t.Helper()
	err := util.Walk(fsys, root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			ls = append(ls, path)
		}
		return nil
	})
	testerr.Shall(err).BeNil(t)
	slices.Sort(ls)
	return ls
}

func build(t *testing.T, fsys billy.Filesystem, prj *gomkore.Project) {
	t.Helper()
	tr := gomkore.NewTrace(context.Background(), gomkore.TestTracer{T: t})
	env := gomkore.DefaultEnv(tr)
	env.FS = fsys
	bd := testerr.Shall1(gomkore.NewBuilder(tr, env)).BeNil(t)
	bd.FailMode = gomkore.StopOnFailure
	testerr.Shall(bd.Project(prj)).BeNil(t)
}

func goal(t *testing.T, prj *gomkore.Project, atf gomkore.Artefact) *gomkore.Goal {
	return testerr.Shall1(prj.Goal(atf)).BeNil(t)
}

func TestCopyEntries(t *testing.T) {
	fsys := testFS(t,
		"/src/a.rlib",
		"/src/a.rmeta",
		"/src/b.so",
		"/src/nested.rlib/inner.txt",
		"/src/c.txt",
		"/src/.hidden.rlib",
	)
	testerr.Shall(fsys.MkdirAll("/dst", 0777)).BeNil(t)
	tr := gomkore.NewTrace(context.Background(), gomkore.TestTracer{T: t})
	copied, err := CopyEntries(tr, fsys, "/dst", "/src", Suffixes(".rmeta", ".rlib"))
	testerr.Shall(err).BeNil(t)
	want := []string{"/dst/a.rlib", "/dst/a.rmeta", "/dst/nested.rlib"}
	if diff := cmp.Diff(want, copied); diff != "" {
		t.Errorf("copied (-want +got):\n%s", diff)
	}
	want = []string{"/dst/a.rlib", "/dst/a.rmeta", "/dst/nested.rlib/inner.txt"}
	if diff := cmp.Diff(want, listTree(t, fsys, "/dst")); diff != "" {
		t.Errorf("tree (-want +got):\n%s", diff)
	}
	if s := readFile(t, fsys, "/dst/a.rmeta"); s != "/src/a.rmeta" {
		t.Errorf("wrong content %q", s)
	}
}

func TestCopyEntries_noMatch(t *testing.T) {
	fsys := testFS(t, "/src/a.txt", "/dst/keep")
	tr := gomkore.NewTrace(context.Background(), gomkore.TestTracer{T: t})
	copied, err := CopyEntries(tr, fsys, "/dst", "/src", Suffix(".so"))
	testerr.Shall(err).BeNil(t)
	if len(copied) > 0 {
		t.Errorf("unexpected copies %v", copied)
	}
}

func TestCopyEntries_missingSource(t *testing.T) {
	fsys := testFS(t, "/dst/keep")
	tr := gomkore.NewTrace(context.Background(), gomkore.TestTracer{T: t})
	if _, err := CopyEntries(tr, fsys, "/dst", "/src", nil); err == nil {
		t.Error("no error for missing source directory")
	}
}

func TestCopy_fileAndList(t *testing.T) {
	fsys := testFS(t,
		"/work/out/debug/libx.rlib",
		"/work/out/debug/deps/x-1.rmeta",
		"/work/out/debug/deps/x-1.rlib",
		"/work/out/debug/deps/x-1.d",
	)
	prj := gomkore.NewProject("/work")
	var copied []string
	cp := Copy{MkDirMode: 0777, OnCopy: func(dst string) { copied = append(copied, dst) }}

	lib := goal(t, prj, File("out/debug/libx.rlib"))
	dlib := goal(t, prj, File("dest/debug/libx.rlib"))
	testerr.Shall1(prj.NewAction([]*gomkore.Goal{lib}, []*gomkore.Goal{dlib}, cp)).BeNil(t)

	deps := goal(t, prj, DirList{Dir: "out/debug/deps", Filter: Suffixes(".rmeta", ".rlib")})
	ddeps := goal(t, prj, DirList{Dir: "dest/debug/deps", Filter: deps.Artefact.(DirList).Filter})
	testerr.Shall1(prj.NewAction([]*gomkore.Goal{deps}, []*gomkore.Goal{ddeps}, cp)).BeNil(t)

	build(t, fsys, prj)
	want := []string{
		"/work/dest/debug/deps/x-1.rlib",
		"/work/dest/debug/deps/x-1.rmeta",
		"/work/dest/debug/libx.rlib",
	}
	if diff := cmp.Diff(want, listTree(t, fsys, "/work/dest")); diff != "" {
		t.Errorf("tree (-want +got):\n%s", diff)
	}
	want = []string{
		"/work/dest/debug/libx.rlib",
		"/work/dest/debug/deps/x-1.rlib",
		"/work/dest/debug/deps/x-1.rmeta",
	}
	if diff := cmp.Diff(want, copied); diff != "" {
		t.Errorf("reported copies (-want +got):\n%s", diff)
	}
	if d := prj.Actions()[1].String(); d != "copy out/debug/deps/(*.rmeta|*.rlib) -> dest/debug/deps/(*.rmeta|*.rlib)" {
		t.Errorf("unexpected description %q", d)
	}
}

func TestCopy_toFileNeedsOneSource(t *testing.T) {
	fsys := testFS(t, "/work/a", "/work/b")
	prj := gomkore.NewProject("/work")
	a, b := goal(t, prj, File("a")), goal(t, prj, File("b"))
	c := goal(t, prj, File("c"))
	testerr.Shall1(prj.NewAction([]*gomkore.Goal{a, b}, []*gomkore.Goal{c}, Copy{})).BeNil(t)
	tr := gomkore.NewTrace(context.Background(), gomkore.TestTracer{T: t})
	env := gomkore.DefaultEnv(tr)
	env.FS = fsys
	bd := testerr.Shall1(gomkore.NewBuilder(tr, env)).BeNil(t)
	bd.FailMode = gomkore.StopOnFailure
	if err := bd.Project(prj); err == nil {
		t.Error("copied 2 files to 1 file")
	}
}
