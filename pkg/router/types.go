package router

import (
	"encoding/json"
	"regexp"
)

// NoNode marks a depth with no layout or error unit in a PageRef.
const NoNode = -1

// Part is one piece of a parsed segment: literal text or a parameter.
// Exactly one of Literal and Name is set.
type Part struct {
	Literal  string `json:"literal,omitempty"`
	Name     string `json:"name,omitempty"`
	Optional bool   `json:"optional,omitempty"`
	Rest     bool   `json:"rest,omitempty"`
	Matcher  string `json:"matcher,omitempty"`
}

// IsParam reports whether the part is a parameter.
func (p Part) IsParam() bool { return p.Name != "" }

// Segment is one path component of a route id.
type Segment struct {
	// Raw is the directory name as written on disk
	Raw string

	// Parts is the parsed form; nil for groups
	Parts []Part

	// Group is set for "(name)" segments, which add no URL segment
	Group bool
}

// standalone reports whether the segment is a single optional or rest
// parameter, which may match zero URL segments.
func (s Segment) standalone() bool {
	return len(s.Parts) == 1 && (s.Parts[0].Optional || s.Parts[0].Rest)
}

// UnitKind identifies the role of a PageNode.
type UnitKind string

const (
	KindLayout UnitKind = "layout"
	KindError  UnitKind = "error"
	KindLeaf   UnitKind = "leaf"
)

// PageNode is a layout, error or leaf unit. In the compiled table, nodes
// are referenced by index.
type PageNode struct {
	Kind  UnitKind `json:"kind"`
	Depth int      `json:"depth"`

	// Component is the rendering file
	Component string `json:"component,omitempty"`

	// Shared is the module loaded on both server and client
	Shared string `json:"shared,omitempty"`

	// Server is the server-only module
	Server string `json:"server,omitempty"`

	// ParentOverride is the "@name" target; an empty string targets the root
	ParentOverride *string `json:"parentOverride,omitempty"`
}

// EndpointUnit is a request handler module with no rendering identity.
type EndpointUnit struct {
	File string `json:"file"`
}

// RouteNode is one directory in the scanned tree. Nodes live in Tree.Nodes;
// Parent is an index into that slice, or -1 for the root.
type RouteNode struct {
	ID       string
	Parent   int
	Dir      string
	Segment  Segment
	Depth    int
	Layout   *PageNode
	Error    *PageNode
	Leaf     *PageNode
	Endpoint *EndpointUnit

	hasRest bool
}

// IsRoute reports whether the node produces a route.
func (n *RouteNode) IsRoute() bool { return n.Leaf != nil || n.Endpoint != nil }

// Tree is the arena of scanned directories in pre-order. Nodes[0] is the root.
type Tree struct {
	Nodes []RouteNode
}

// Root returns the root node.
func (t *Tree) Root() *RouteNode { return &t.Nodes[0] }

// Segments returns the segments from the root down to node i.
func (t *Tree) Segments(i int) []Segment {
	var segs []Segment
	for n := i; n > 0; n = t.Nodes[n].Parent {
		segs = append(segs, t.Nodes[n].Segment)
	}
	for l, r := 0, len(segs)-1; l < r; l, r = l+1, r-1 {
		segs[l], segs[r] = segs[r], segs[l]
	}
	return segs
}

// PageRef locates a leaf and its wrappers in RouteTable.Nodes. Layouts and
// Errors are root first; NoNode marks a depth without a unit.
type PageRef struct {
	Leaf    int   `json:"leaf"`
	Layouts []int `json:"layouts"`
	Errors  []int `json:"errors"`
}

// CompiledRoute is one row of the route table.
type CompiledRoute struct {
	ID       string        `json:"id"`
	Pattern  Pattern       `json:"pattern"`
	Params   []Part        `json:"params"`
	Page     *PageRef      `json:"page,omitempty"`
	Endpoint *EndpointUnit `json:"endpoint,omitempty"`
}

// Matchers maps matcher names to the file that defines them.
type Matchers map[string]string

// RouteTable is the output of a compile: routes most specific first, the
// indexed units they reference, and the matchers they use.
type RouteTable struct {
	Routes   []CompiledRoute `json:"routes"`
	Nodes    []PageNode      `json:"nodes"`
	Matchers Matchers        `json:"matchers"`
}

// Pattern is a compiled route pattern. It serializes as its source.
type Pattern struct {
	re *regexp.Regexp
}

// String returns the pattern source.
func (p Pattern) String() string {
	if p.re == nil {
		return ""
	}
	return p.re.String()
}

// Regexp returns the compiled expression.
func (p Pattern) Regexp() *regexp.Regexp { return p.re }

func (p Pattern) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Pattern) UnmarshalJSON(data []byte) error {
	var src string
	if err := json.Unmarshal(data, &src); err != nil {
		return err
	}
	re, err := regexp.Compile(src)
	if err != nil {
		return err
	}
	p.re = re
	return nil
}
