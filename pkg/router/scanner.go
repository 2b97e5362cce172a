package router

import (
	"context"
	"errors"
	"io/fs"
	"path"
	"regexp"
	"slices"
	"strings"
)

// =============================================================================
// Directory Tree Walker
// =============================================================================

// Files that start with "+" declare route units. Everything else in a
// routes directory is colocated code and is ignored.
//
//	+page.templ          page component (optionally +page@name.templ)
//	+page.go             page module shared by server and client
//	+page.server.go      page server module
//	+layout.templ        layout component (optionally +layout@name.templ)
//	+layout.go           layout shared module
//	+layout.server.go    layout server module
//	+error.templ         error component
//	+server.go           endpoint
var (
	componentFileRe = regexp.MustCompile(`^\+(page|layout|error)(?:@(.*))?$`)
	moduleFileRe    = regexp.MustCompile(`^\+(page|layout|server)(\.server)?$`)
)

type fileRole string

const (
	rolePageComponent   fileRole = "page component"
	rolePageShared      fileRole = "page module"
	rolePageServer      fileRole = "page server module"
	roleLayoutComponent fileRole = "layout component"
	roleLayoutShared    fileRole = "layout module"
	roleLayoutServer    fileRole = "layout server module"
	roleErrorComponent  fileRole = "error component"
	roleEndpoint        fileRole = "endpoint"
)

var knownRouteFiles = []string{"+page", "+layout", "+error", "+server", "+page.server", "+layout.server"}

type routeFile struct {
	role     fileRole
	override *string
}

// Scanner walks a routes directory and builds the route tree.
type Scanner struct {
	fsys  fs.FS
	opts  Options
	cache *segmentCache
}

// NewScanner creates a scanner over fsys. Options.RoutesDir is resolved
// inside fsys.
func NewScanner(fsys fs.FS, opts Options) *Scanner {
	return &Scanner{fsys: fsys, opts: opts.withDefaults()}
}

// Scan walks the routes directory depth first in name order. A cancelled
// context abandons the walk and no tree is returned.
func (s *Scanner) Scan(ctx context.Context) (*Tree, error) {
	root := path.Clean(s.opts.RoutesDir)
	info, err := fs.Stat(s.fsys, root)
	if err != nil {
		return nil, fsError(root, "cannot read routes directory", err)
	}
	if !info.IsDir() {
		return nil, newError(Filesystem, "routes directory %q is not a directory", root).withFiles(root)
	}

	t := &Tree{Nodes: []RouteNode{{ID: "/", Parent: -1, Dir: root}}}
	if err := s.walk(ctx, t, 0); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Scanner) walk(ctx context.Context, t *Tree, idx int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir, depth := t.Nodes[idx].Dir, t.Nodes[idx].Depth
	if depth > s.opts.MaxDepth {
		return newError(Filesystem, "routes nested deeper than %d directories", s.opts.MaxDepth).
			withFiles(dir).withRoute(t.Nodes[idx].ID).
			withDetails("check for symlink cycles")
	}

	entries, err := fs.ReadDir(s.fsys, dir)
	if err != nil {
		// A directory deleted mid-walk is an editing race, not an error.
		if idx != 0 && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fsError(dir, "cannot read directory", err)
	}

	claimed := make(map[fileRole]string)
	var subdirs []string

	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		full := path.Join(dir, name)

		if strings.HasPrefix(name, "__") {
			if slices.Contains(s.opts.SpecialNames, name) {
				continue
			}
			return newError(ReservedName, "%q is a reserved name", name).
				withFiles(full).
				withDetails("names starting with \"__\" are reserved")
		}

		isDir, ok, err := s.entryKind(full, e)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if isDir {
			subdirs = append(subdirs, name)
			continue
		}

		f, ok, cerr := s.classify(name)
		if cerr != nil {
			return cerr.withFiles(full).withRoute(t.Nodes[idx].ID)
		}
		if !ok {
			continue
		}
		if prev, dup := claimed[f.role]; dup {
			return newError(DuplicateRole, "%s and %s both define the %s for %s", path.Base(prev), name, f.role, t.Nodes[idx].ID).
				withFiles(prev, full).withRoute(t.Nodes[idx].ID)
		}
		claimed[f.role] = full
		assignFile(&t.Nodes[idx], f, full)
	}

	for _, name := range subdirs {
		child, err := s.childNode(t, idx, name)
		if err != nil {
			return err
		}
		t.Nodes = append(t.Nodes, child)
		if err := s.walk(ctx, t, len(t.Nodes)-1); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scanner) childNode(t *Tree, parent int, name string) (RouteNode, error) {
	p := t.Nodes[parent]
	full := path.Join(p.Dir, name)
	id := joinRouteID(p.ID, name)

	parts, err := s.cache.parse(name)
	if err != nil {
		var ce *Error
		if errors.As(err, &ce) {
			return RouteNode{}, ce.withFiles(full).withRoute(id)
		}
		return RouteNode{}, err
	}

	hasRest := p.hasRest
	for _, part := range parts {
		switch {
		case part.Rest && p.hasRest:
			return RouteNode{}, newError(InvalidRestPlacement, "route %s has more than one rest parameter", id).
				withFiles(full).withRoute(id)
		case part.Rest:
			hasRest = true
		case part.Optional && p.hasRest:
			return RouteNode{}, newError(InvalidRestPlacement, "optional parameter [[%s]] cannot follow a rest parameter in %s", part.Name, id).
				withFiles(full).withRoute(id)
		}
	}

	return RouteNode{
		ID:      id,
		Parent:  parent,
		Dir:     full,
		Segment: Segment{Raw: name, Parts: parts, Group: IsGroup(name)},
		Depth:   p.Depth + 1,
		hasRest: hasRest,
	}, nil
}

// entryKind resolves symlinks. ok is false for entries that vanished or
// point nowhere.
func (s *Scanner) entryKind(full string, e fs.DirEntry) (isDir, ok bool, err error) {
	if e.Type()&fs.ModeSymlink == 0 {
		return e.IsDir(), true, nil
	}
	info, err := fs.Stat(s.fsys, full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, false, nil
		}
		return false, false, fsError(full, "cannot stat", err)
	}
	return info.IsDir(), true, nil
}

// classify maps a file name to its route role. ok is false for files that
// are not route files.
func (s *Scanner) classify(name string) (routeFile, bool, *Error) {
	if !strings.HasPrefix(name, "+") {
		return routeFile{}, false, nil
	}

	if ext := matchExtension(name, s.opts.PageExtensions); ext != "" {
		base := strings.TrimSuffix(name, ext)
		m := componentFileRe.FindStringSubmatch(base)
		if m == nil {
			return routeFile{}, false, unknownRouteFile(name, base)
		}
		f := routeFile{}
		switch m[1] {
		case "page":
			f.role = rolePageComponent
		case "layout":
			f.role = roleLayoutComponent
		case "error":
			if strings.Contains(base, "@") {
				return routeFile{}, false, newError(ReservedFile, "%s cannot reference a layout", name).
					withSuggestion("+error" + ext)
			}
			f.role = roleErrorComponent
		}
		if strings.Contains(base, "@") {
			target := m[2]
			f.override = &target
		}
		return f, true, nil
	}

	if ext := matchExtension(name, s.opts.ModuleExtensions); ext != "" {
		base := strings.TrimSuffix(name, ext)
		if strings.HasSuffix(base, "_test") {
			return routeFile{}, false, nil
		}
		if i := strings.IndexByte(base, '@'); i >= 0 {
			return routeFile{}, false, newError(ReservedFile, "%s: only component files can reference a layout", name).
				withDetails("move the @ reference to the component file").
				withSuggestion(base[:i] + ext)
		}
		m := moduleFileRe.FindStringSubmatch(base)
		if m == nil || (m[1] == "server" && m[2] != "") {
			return routeFile{}, false, unknownRouteFile(name, base)
		}
		server := m[2] != ""
		switch {
		case m[1] == "server":
			return routeFile{role: roleEndpoint}, true, nil
		case m[1] == "page" && server:
			return routeFile{role: rolePageServer}, true, nil
		case m[1] == "page":
			return routeFile{role: rolePageShared}, true, nil
		case server:
			return routeFile{role: roleLayoutServer}, true, nil
		default:
			return routeFile{role: roleLayoutShared}, true, nil
		}
	}

	// "+" files with other extensions are colocated assets.
	return routeFile{}, false, nil
}

func unknownRouteFile(name, base string) *Error {
	e := newError(ReservedFile, "files prefixed with + are reserved (saw %s)", name)
	if s := closestMatch(base, knownRouteFiles); s != "" {
		e.withSuggestion(s)
	}
	return e
}

func assignFile(n *RouteNode, f routeFile, file string) {
	unit := func(slot **PageNode, kind UnitKind) *PageNode {
		if *slot == nil {
			*slot = &PageNode{Kind: kind, Depth: n.Depth}
		}
		return *slot
	}

	switch f.role {
	case rolePageComponent:
		u := unit(&n.Leaf, KindLeaf)
		u.Component, u.ParentOverride = file, f.override
	case rolePageShared:
		unit(&n.Leaf, KindLeaf).Shared = file
	case rolePageServer:
		unit(&n.Leaf, KindLeaf).Server = file
	case roleLayoutComponent:
		u := unit(&n.Layout, KindLayout)
		u.Component, u.ParentOverride = file, f.override
	case roleLayoutShared:
		unit(&n.Layout, KindLayout).Shared = file
	case roleLayoutServer:
		unit(&n.Layout, KindLayout).Server = file
	case roleErrorComponent:
		unit(&n.Error, KindError).Component = file
	case roleEndpoint:
		n.Endpoint = &EndpointUnit{File: file}
	}
}

// matchExtension returns the longest extension in exts that name ends with.
// The name must be longer than the extension.
func matchExtension(name string, exts []string) string {
	best := ""
	for _, ext := range exts {
		if len(name) > len(ext) && strings.HasSuffix(name, ext) && len(ext) > len(best) {
			best = ext
		}
	}
	return best
}

func joinRouteID(parent, seg string) string {
	if parent == "/" {
		return "/" + seg
	}
	return parent + "/" + seg
}

func fsError(p, msg string, err error) *Error {
	return &Error{
		Kind:    Filesystem,
		Message: msg + " " + p,
		Files:   []string{p},
		Details: err.Error(),
		Err:     err,
	}
}
