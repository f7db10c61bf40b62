// Package pick implements the hierarchical multi-select engine behind the
// interactive picker: tree-drawn labels, a tri-state selection arena with
// ancestor/descendant propagation, expansion- and filter-based visibility,
// and a viewport-aware interaction state machine.
package pick

import "path/filepath"

// State is the tri-state selection status of a node. File nodes are
// binary: they are never PartiallySelected.
type State int

const (
	NotSelected State = iota
	PartiallySelected
	FullySelected
)

func (s State) String() string {
	switch s {
	case PartiallySelected:
		return "partial"
	case FullySelected:
		return "full"
	default:
		return "none"
	}
}

// Node is one element of the selection arena. Children and Parent are
// indices into the arena; Parent is -1 for forest roots. The parent link
// is lookup-only and implies no ownership.
type Node struct {
	Path     string
	Label    string
	IsDir    bool
	Expanded bool
	State    State
	Children []int
	Parent   int
}

// BuildNodes builds the selection arena from the scanner's flat listing
// and its precomputed labels, linking each node to its filesystem parent
// when that parent appears in the listing. A node whose parent is absent
// becomes an independent forest root; this is not an error.
func BuildNodes(entries []Entry, labels []string, root string) []Node {
	nodes := make([]Node, len(entries))
	lookup := make(map[string]int, len(entries))
	rootKey := filepath.Clean(root)

	for i, e := range entries {
		nodes[i] = Node{
			Path:     e.Path,
			Label:    labels[i],
			IsDir:    e.IsDir,
			Expanded: e.IsDir,
			State:    NotSelected,
			Parent:   -1,
		}
		lookup[filepath.Clean(e.Path)] = i
	}

	for i, e := range entries {
		key := filepath.Clean(e.Path)
		if key == rootKey {
			continue
		}
		parent, ok := lookup[filepath.Dir(key)]
		if !ok || parent == i {
			continue
		}
		nodes[i].Parent = parent
		nodes[parent].Children = append(nodes[parent].Children, i)
	}

	return nodes
}

// SelectedFiles returns the paths of every fully selected file node, in
// arena order.
func SelectedFiles(nodes []Node) []string {
	var paths []string
	for i := range nodes {
		if !nodes[i].IsDir && nodes[i].State == FullySelected {
			paths = append(paths, nodes[i].Path)
		}
	}
	return paths
}
