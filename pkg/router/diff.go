package router

import (
	"reflect"
	"slices"
)

// Changes describes how one route table differs from another.
type Changes struct {
	Added   []string `json:"added,omitempty"`
	Removed []string `json:"removed,omitempty"`
	Changed []string `json:"changed,omitempty"`

	// NodesChanged is set when the unit list differs, meaning downstream
	// module generation must rerun even if no route changed.
	NodesChanged bool `json:"nodesChanged,omitempty"`

	// OrderChanged is set when surviving routes were reordered.
	OrderChanged bool `json:"orderChanged,omitempty"`
}

// Empty reports whether the tables are equivalent.
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Changed) == 0 &&
		!c.NodesChanged && !c.OrderChanged
}

// Diff compares two tables by route id. A nil prev diffs against an empty
// table. Route ids in each list are sorted.
func Diff(prev, next *RouteTable) Changes {
	if prev == nil {
		prev = &RouteTable{}
	}
	if next == nil {
		next = &RouteTable{}
	}

	before := make(map[string]*CompiledRoute, len(prev.Routes))
	for i := range prev.Routes {
		before[prev.Routes[i].ID] = &prev.Routes[i]
	}
	after := make(map[string]*CompiledRoute, len(next.Routes))
	for i := range next.Routes {
		after[next.Routes[i].ID] = &next.Routes[i]
	}

	var c Changes
	var prevOrder, nextOrder []string
	for _, r := range prev.Routes {
		if _, ok := after[r.ID]; !ok {
			c.Removed = append(c.Removed, r.ID)
		} else {
			prevOrder = append(prevOrder, r.ID)
		}
	}
	for i := range next.Routes {
		r := &next.Routes[i]
		old, ok := before[r.ID]
		if !ok {
			c.Added = append(c.Added, r.ID)
			continue
		}
		nextOrder = append(nextOrder, r.ID)
		if !sameRoute(old, r) {
			c.Changed = append(c.Changed, r.ID)
		}
	}

	slices.Sort(c.Added)
	slices.Sort(c.Removed)
	slices.Sort(c.Changed)
	c.NodesChanged = !reflect.DeepEqual(prev.Nodes, next.Nodes)
	c.OrderChanged = !slices.Equal(prevOrder, nextOrder)
	return c
}

func sameRoute(a, b *CompiledRoute) bool {
	return a.Pattern.String() == b.Pattern.String() &&
		reflect.DeepEqual(a.Params, b.Params) &&
		reflect.DeepEqual(a.Page, b.Page) &&
		reflect.DeepEqual(a.Endpoint, b.Endpoint)
}
