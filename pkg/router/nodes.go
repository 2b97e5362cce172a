package router

// nodeIndex maps tree node positions to PageNode indices. Entries are
// NoNode where the directory has no unit of that kind.
type nodeIndex struct {
	layout []int
	error  []int
	leaf   []int
}

// indexNodes numbers every unit in the tree. Layouts and errors come first
// in tree order, so the root layout and root error are always 0 and 1;
// leaves follow.
func indexNodes(t *Tree) ([]PageNode, nodeIndex) {
	idx := nodeIndex{
		layout: filled(len(t.Nodes)),
		error:  filled(len(t.Nodes)),
		leaf:   filled(len(t.Nodes)),
	}

	var nodes []PageNode
	for i := range t.Nodes {
		n := &t.Nodes[i]
		if n.Layout != nil {
			idx.layout[i] = len(nodes)
			nodes = append(nodes, *n.Layout)
		}
		if n.Error != nil {
			idx.error[i] = len(nodes)
			nodes = append(nodes, *n.Error)
		}
	}
	for i := range t.Nodes {
		if n := &t.Nodes[i]; n.Leaf != nil {
			idx.leaf[i] = len(nodes)
			nodes = append(nodes, *n.Leaf)
		}
	}
	return nodes, idx
}

func filled(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = NoNode
	}
	return s
}
