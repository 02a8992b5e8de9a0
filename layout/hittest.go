package layout

// HitTest returns the layout nodes whose content box contains (x, y),
// ordered deepest-first (the element that would receive a pointer event,
// followed by its ancestors). Later siblings paint over earlier ones, so
// when multiple top-level roots overlap the last match wins; within one
// subtree the deepest descendant is preferred over its container.
func (t *Tree) HitTest(x, y float64) []*Node {
	var hit []*Node
	for _, root := range t.Roots {
		if path := hitTestNode(root, x, y); path != nil {
			hit = path
		}
	}
	return hit
}

// hitTestNode returns the deepest-first ancestor chain from the deepest
// box under (x, y) within n's subtree up to n itself, or nil if (x, y)
// misses n entirely.
func hitTestNode(n *Node, x, y float64) []*Node {
	if !n.Dimensions.Content.Contains(x, y) {
		return nil
	}
	for i := len(n.Children) - 1; i >= 0; i-- {
		if path := hitTestNode(n.Children[i], x, y); path != nil {
			return append(path, n)
		}
	}
	return []*Node{n}
}
