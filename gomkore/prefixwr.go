package gomkore

import (
	"bytes"
	"io"
)

// PrefixWriter writes prefix at the start of every line written to w. It is
// used to tag the output of external commands.
type PrefixWriter struct {
	w      io.Writer
	prefix []byte
	inLine bool // not at start of line
}

func NewPrefixWriter(w io.Writer, prefix string) *PrefixWriter {
	return &PrefixWriter{w: w, prefix: []byte(prefix)}
}

// Reset makes the next write start a new line.
func (pw *PrefixWriter) Reset() { pw.inLine = false }

// Write returns the number of bytes from p that were written. The prefixes are
// not counted.
func (pw *PrefixWriter) Write(p []byte) (n int, err error) {
	for len(p) > 0 {
		if !pw.inLine {
			if _, err := pw.w.Write(pw.prefix); err != nil {
				return n, err
			}
			pw.inLine = true
		}
		line := p
		if i := bytes.IndexByte(p, '\n'); i >= 0 {
			line = p[:i+1]
			pw.inLine = false
		}
		m, err := pw.w.Write(line)
		n += m
		if err != nil {
			return n, err
		}
		p = p[len(line):]
	}
	return n, nil
}
