package pick

// ApplyState sets the node's state and cascades it through the subtree.
// Files cannot be PartiallySelected; such a request is coerced to
// FullySelected. PartiallySelected never cascades: a directory set to it
// keeps its children untouched.
func ApplyState(nodes []Node, idx int, desired State) {
	if idx < 0 || idx >= len(nodes) {
		return
	}
	if !nodes[idx].IsDir && desired == PartiallySelected {
		desired = FullySelected
	}
	nodes[idx].State = desired
	if !nodes[idx].IsDir || desired == PartiallySelected {
		return
	}

	stack := append([]int(nil), nodes[idx].Children...)
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		nodes[i].State = desired
		if nodes[i].IsDir {
			stack = append(stack, nodes[i].Children...)
		}
	}
}

// RefreshAncestors walks from the node's parent up to its forest root,
// recomputing each directory's state from its children: FullySelected iff
// it has at least one child and all are FullySelected, NotSelected iff no
// child is selected at all, PartiallySelected otherwise. A directory with
// no children in the arena is left unchanged.
func RefreshAncestors(nodes []Node, idx int) {
	if idx < 0 || idx >= len(nodes) {
		return
	}
	for p := nodes[idx].Parent; p >= 0; p = nodes[p].Parent {
		recomputeFromChildren(nodes, p)
	}
}

func recomputeFromChildren(nodes []Node, idx int) {
	if !nodes[idx].IsDir || len(nodes[idx].Children) == 0 {
		return
	}
	full, touched := 0, 0
	for _, c := range nodes[idx].Children {
		switch nodes[c].State {
		case FullySelected:
			full++
			touched++
		case PartiallySelected:
			touched++
		}
	}
	switch {
	case full == len(nodes[idx].Children):
		nodes[idx].State = FullySelected
	case touched == 0:
		nodes[idx].State = NotSelected
	default:
		nodes[idx].State = PartiallySelected
	}
}

// Toggle flips the node's selection: not or partially selected becomes
// fully selected, fully selected becomes deselected. The change cascades
// down and ancestors are recomputed.
func Toggle(nodes []Node, idx int) {
	if idx < 0 || idx >= len(nodes) {
		return
	}
	desired := FullySelected
	if nodes[idx].State == FullySelected {
		desired = NotSelected
	}
	ApplyState(nodes, idx, desired)
	RefreshAncestors(nodes, idx)
}
