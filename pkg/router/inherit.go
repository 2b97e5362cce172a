package router

import "slices"

// resolvePage builds the layout and error chains for the leaf in tree node
// leaf. The walk goes from the leaf's own directory up to the root. A
// "@name" override on the leaf or on a layout skips every directory until
// one whose segment is name; "@" alone skips to the root.
//
// A directory with a layout or an error contributes one entry to both
// chains, NoNode standing in for the unit it lacks, so both chains stay
// aligned by depth. Trailing NoNode entries are trimmed.
func resolvePage(t *Tree, leaf int, idx nodeIndex) (*PageRef, error) {
	unit := t.Nodes[leaf].Leaf
	target := unit.ParentOverride
	from := unitFile(unit)

	var layouts, errs []int
	for i := leaf; i >= 0; i = t.Nodes[i].Parent {
		n := &t.Nodes[i]
		if target != nil && n.Segment.Raw != *target {
			continue
		}

		if n.Layout != nil || n.Error != nil {
			layouts = append(layouts, idx.layout[i])
			errs = append(errs, idx.error[i])
		}

		if n.Layout != nil {
			target = n.Layout.ParentOverride
			from = unitFile(n.Layout)
		} else {
			target = nil
		}
	}

	if target != nil {
		return nil, newError(UnresolvedLayoutReference, "%s references missing segment %q", from, *target).
			withFiles(from).
			withRoute(t.Nodes[leaf].ID).
			withDetails("no ancestor directory is named %q", *target)
	}

	slices.Reverse(layouts)
	slices.Reverse(errs)
	return &PageRef{
		Leaf:    idx.leaf[leaf],
		Layouts: trimTrailing(layouts),
		Errors:  trimTrailing(errs),
	}, nil
}

func trimTrailing(s []int) []int {
	for len(s) > 0 && s[len(s)-1] == NoNode {
		s = s[:len(s)-1]
	}
	if s == nil {
		return []int{}
	}
	return s
}

func unitFile(u *PageNode) string {
	switch {
	case u.Component != "":
		return u.Component
	case u.Shared != "":
		return u.Shared
	default:
		return u.Server
	}
}
