package gomkore

import (
	"io"
	"os"
	"strings"
	"testing"
)

func Example_prefixWriter() {
	pw := NewPrefixWriter(os.Stdout, "PRE:")
	io.WriteString(pw, "foo")
	io.WriteString(pw, "bar\n")
	io.WriteString(pw, "baz\nquux")
	// Output:
	// PRE:foobar
	// PRE:baz
	// PRE:quux
}

func TestPrefixWriter_count(t *testing.T) {
	var sb strings.Builder
	pw := NewPrefixWriter(&sb, "[wasm] ")
	n, err := io.WriteString(pw, "a\nb\n")
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Errorf("wrote %d bytes, want 4", n)
	}
	if s := sb.String(); s != "[wasm] a\n[wasm] b\n" {
		t.Errorf("unexpected output %q", s)
	}
}
