package mkfs

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Filter selects directory entries by their name and file info.
type Filter interface {
	Ok(name string, info fs.FileInfo) (bool, error)
	String() string
}

type IsDir bool

func (d IsDir) Ok(_ string, info fs.FileInfo) (bool, error) {
	return info.IsDir() == bool(d), nil
}

func (d IsDir) String() string {
	if d {
		return "dir"
	}
	return "!dir"
}

// NameMatch matches entry names with [filepath.Match].
type NameMatch string

func (p NameMatch) Ok(name string, _ fs.FileInfo) (bool, error) {
	return filepath.Match(string(p), name)
}

func (p NameMatch) String() string { return string(p) }

// Suffix matches entry names that end with the suffix, e.g. ".rlib". It is
// what the shell glob "*.rlib" selects, without treating any character of the
// suffix as a pattern. Like the glob, it never matches hidden names.
type Suffix string

func (s Suffix) Ok(name string, _ fs.FileInfo) (bool, error) {
	return len(name) > len(s) &&
		name[0] != '.' &&
		strings.HasSuffix(name, string(s)), nil
}

func (s Suffix) String() string { return "*" + string(s) }

// Suffixes returns a filter that matches any of the suffixes sfxs. Empty
// suffixes are skipped.
func Suffixes(sfxs ...string) Any {
	res := make(Any, 0, len(sfxs))
	for _, s := range sfxs {
		if s != "" {
			res = append(res, Suffix(s))
		}
	}
	return res
}

type not struct{ f Filter }

func Not(f Filter) Filter { return not{f} }

func (n not) Ok(name string, info fs.FileInfo) (bool, error) {
	ok, err := n.f.Ok(name, info)
	return !ok, err
}

func (n not) String() string { return "!" + n.f.String() }

type All []Filter

func (fa All) Ok(name string, info fs.FileInfo) (bool, error) {
	for _, f := range fa {
		if ok, err := f.Ok(name, info); err != nil || !ok {
			return ok, err
		}
	}
	return true, nil
}

func (fa All) String() string { return join(fa, "&") }

type Any []Filter

func (fa Any) Ok(name string, info fs.FileInfo) (bool, error) {
	for _, f := range fa {
		if ok, err := f.Ok(name, info); err != nil {
			return ok, err
		} else if ok {
			return true, nil
		}
	}
	return false, nil
}

func (fa Any) String() string { return join(fa, "|") }

func join(fls []Filter, sep string) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, f := range fls {
		if i > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(f.String())
	}
	sb.WriteByte(')')
	return sb.String()
}
