package router

import (
	"errors"
	"io/fs"
	"path"
	"strings"
)

// LoadMatchers lists the matcher modules in dir. A matcher's name is its
// file name without the extension; only files with one of exts count. A
// missing directory, or an empty dir argument, yields no matchers.
func LoadMatchers(fsys fs.FS, dir string, exts []string) (Matchers, error) {
	m := make(Matchers)
	if dir == "" {
		return m, nil
	}

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return m, nil
		}
		return nil, fsError(dir, "cannot read matchers directory", err)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		ext := matchExtension(name, exts)
		if ext == "" {
			continue
		}
		base := strings.TrimSuffix(name, ext)
		if strings.HasSuffix(base, "_test") {
			continue
		}

		file := path.Join(dir, name)
		if !paramNameRe.MatchString(base) {
			return nil, newError(InvalidMatcher, "matcher name %q is invalid", base).
				withFiles(file).
				withDetails("matcher names may only contain letters, digits, '_' and '$'")
		}
		if prev, dup := m[base]; dup {
			return nil, newError(InvalidMatcher, "duplicate matcher %q", base).
				withFiles(prev, file)
		}
		m[base] = file
	}
	return m, nil
}
