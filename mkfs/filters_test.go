package mkfs

import (
	"fmt"
	"testing"

	"git.fractalqb.de/fractalqb/testerr"
)

func ExampleSuffixes() {
	f := Suffixes(".rmeta", ".rlib")
	fmt.Println(f)
	for _, n := range []string{"liba-1.rlib", "liba-1.rmeta", "liba-1.so", ".rlib", ".x.rlib"} {
		ok, _ := f.Ok(n, nil)
		fmt.Println(n, ok)
	}
	// Output:
	// (*.rmeta|*.rlib)
	// liba-1.rlib true
	// liba-1.rmeta true
	// liba-1.so false
	// .rlib false
	// .x.rlib false
}

func TestSuffixes_empty(t *testing.T) {
	f := Suffixes("", ".rmeta")
	if len(f) != 1 {
		t.Fatalf("empty suffix kept: %s", f)
	}
	if ok := testerr.Shall1(f.Ok("liba.d", nil)).BeNil(t); ok {
		t.Error("empty suffix matches all names")
	}
}

func TestFilters(t *testing.T) {
	fsys := testFS(t, "/d/x.so/inner", "/d/y.so")
	info := testerr.Shall1(fsys.Stat("/d/x.so")).BeNil(t)
	f := All{NameMatch("*.so"), Not(IsDir(true))}
	if ok := testerr.Shall1(f.Ok("x.so", info)).BeNil(t); ok {
		t.Error("directory passed file filter")
	}
	info = testerr.Shall1(fsys.Stat("/d/y.so")).BeNil(t)
	if ok := testerr.Shall1(f.Ok("y.so", info)).BeNil(t); !ok {
		t.Error("file rejected")
	}
	if s := f.String(); s != "(*.so&!dir)" {
		t.Errorf("unexpected filter string %s", s)
	}
}
