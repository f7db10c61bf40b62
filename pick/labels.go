package pick

import (
	"path/filepath"
	"strings"
)

// Entry is one element of the scanner's flat listing.
type Entry struct {
	Path  string
	IsDir bool
}

// BuildTreeLabels renders tree-drawing labels for a flat path listing in
// O(n). The input must be sorted ascending by path; one label is returned
// per entry, in input order. The root entry renders as "./", directories
// get a trailing slash.
//
// An entry whose immediate parent is missing from the listing is rendered
// as if it sat directly under the root. It is never dropped.
func BuildTreeLabels(entries []Entry, root string) []string {
	n := len(entries)
	labels := make([]string, n)

	rels := make([]string, n)
	present := make(map[string]bool, n)
	for i, e := range entries {
		rels[i] = relTo(root, e.Path)
		present[rels[i]] = true
	}

	// Pass 1: record each parent's last immediate child. Overwriting on
	// every sighting is correct because the input is sorted, so the final
	// write is the true last child.
	parents := make([]string, n)
	lastChild := make(map[string]int, n)
	for i := range entries {
		p := relParent(rels[i])
		if p != "." && !present[p] {
			p = "." // parent not in the listing: attach under the root
		}
		parents[i] = p
		lastChild[p] = i
	}

	// Pass 2: one walk with a stack of ancestor indices, sized to the
	// current depth.
	isLast := make([]bool, n)
	var stack []int
	for i, e := range entries {
		depth := relDepth(rels[i])
		if depth > 1 && parents[i] == "." {
			depth = 1
		}
		for len(stack) > depth {
			stack = stack[:len(stack)-1]
		}
		isLast[i] = lastChild[parents[i]] == i

		if depth == 0 {
			labels[i] = "./"
		} else {
			var b strings.Builder
			// Continuation glyphs for ancestors between the root and the
			// parent, blank where that ancestor was itself a last sibling.
			for _, anc := range ancestorsBelowRoot(stack) {
				if isLast[anc] {
					b.WriteString("   ")
				} else {
					b.WriteString("│  ")
				}
			}
			if isLast[i] {
				b.WriteString("└─ ")
			} else {
				b.WriteString("├─ ")
			}
			b.WriteString(filepath.Base(rels[i]))
			if e.IsDir {
				b.WriteString("/")
			}
			labels[i] = b.String()
		}

		for len(stack) <= depth {
			stack = append(stack, i)
		}
		stack[depth] = i
	}

	return labels
}

// ancestorsBelowRoot skips the root level of the stack; the root never
// contributes a continuation glyph.
func ancestorsBelowRoot(stack []int) []int {
	if len(stack) < 2 {
		return nil
	}
	return stack[1:]
}

func relTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.Clean(path)
	}
	return rel
}

func relParent(rel string) string {
	if rel == "." {
		return "."
	}
	return filepath.Dir(rel)
}

func relDepth(rel string) int {
	if rel == "." || rel == "" {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}
