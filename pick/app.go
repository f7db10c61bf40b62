package pick

import "strings"

// Mode is the interaction mode of the picker. Normal handles navigation
// and selection; Filtering routes input into the filter text.
type Mode int

const (
	ModeNormal Mode = iota
	ModeFiltering
)

// App is the interaction state machine driving one picker session. It owns
// the node arena for the lifetime of the session and is mutated only from
// the event loop; there is no concurrent access.
type App struct {
	Nodes          []Node
	Current        int // arena index of the selected node
	ScrollOffset   int // offset of the first rendered row in the visible list
	ViewportHeight int
	Mode           Mode

	// Terminal flags. Quit ends the loop; Confirmed tells the caller
	// whether the final node states should be used or discarded.
	Quit      bool
	Confirmed bool

	filter []rune
	cursor int // rune offset into filter
}

// NewApp wraps a node arena in a fresh session.
func NewApp(nodes []Node) *App {
	return &App{Nodes: nodes}
}

// Filter returns the active filter text.
func (a *App) Filter() string { return string(a.filter) }

// FilterCursor returns the rune offset of the filter cursor.
func (a *App) FilterCursor() int { return a.cursor }

// SetViewportHeight records the display height and revalidates the scroll
// window. Called on every resize; the height may change between draws.
func (a *App) SetViewportHeight(h int) {
	a.ViewportHeight = h
	a.Revalidate()
}

// VisibleIndices returns the arena indices currently navigable, in arena
// order: every ancestor expanded, and matching the filter (a node matches
// when its own label contains the filter text case-insensitively, or any
// descendant does). Recomputed from scratch on every call; nothing is
// cached across mutations.
func (a *App) VisibleIndices() []int {
	needle := strings.ToLower(string(a.filter))
	var vis []int
	for i := range a.Nodes {
		if !a.expandedThroughAncestors(i) {
			continue
		}
		if needle != "" && !a.matchesFilter(i, needle) {
			continue
		}
		vis = append(vis, i)
	}
	return vis
}

func (a *App) expandedThroughAncestors(i int) bool {
	for p := a.Nodes[i].Parent; p >= 0; p = a.Nodes[p].Parent {
		if !a.Nodes[p].Expanded {
			return false
		}
	}
	return true
}

func (a *App) matchesFilter(i int, needle string) bool {
	stack := []int{i}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if strings.Contains(strings.ToLower(a.Nodes[n].Label), needle) {
			return true
		}
		stack = append(stack, a.Nodes[n].Children...)
	}
	return false
}

// Next moves the selection one step down the visible list, wrapping at
// the end.
func (a *App) Next() { a.step(1) }

// Previous moves the selection one step up the visible list, wrapping at
// the start.
func (a *App) Previous() { a.step(-1) }

func (a *App) step(delta int) {
	vis := a.VisibleIndices()
	if len(vis) == 0 {
		return
	}
	pos := indexOf(vis, a.Current)
	switch {
	case pos < 0 && delta > 0:
		pos = 0
	case pos < 0:
		pos = len(vis) - 1
	default:
		pos = ((pos+delta)%len(vis) + len(vis)) % len(vis)
	}
	a.Current = vis[pos]
	a.scrollIntoView(vis)
}

// ToggleSelection toggles the selected node, cascading down and refreshing
// ancestors.
func (a *App) ToggleSelection() {
	if len(a.Nodes) == 0 {
		return
	}
	Toggle(a.Nodes, a.Current)
}

// ToggleExpansion folds or unfolds the selected directory. Files are
// unaffected. The selection and viewport are revalidated afterwards in
// case descendants of the selection were hidden.
func (a *App) ToggleExpansion() {
	if len(a.Nodes) == 0 || !a.Nodes[a.Current].IsDir {
		return
	}
	a.Nodes[a.Current].Expanded = !a.Nodes[a.Current].Expanded
	a.Revalidate()
}

// ExpandAll unfolds every directory.
func (a *App) ExpandAll() {
	for i := range a.Nodes {
		if a.Nodes[i].IsDir {
			a.Nodes[i].Expanded = true
		}
	}
	a.Revalidate()
}

// CollapseAll folds every directory except parent-free top-level ones,
// which stay expanded so the list is never empty.
func (a *App) CollapseAll() {
	for i := range a.Nodes {
		if a.Nodes[i].IsDir {
			a.Nodes[i].Expanded = a.Nodes[i].Parent < 0
		}
	}
	a.Revalidate()
}

// SelectAllVisible fully selects every visible file node. Directories are
// not targeted directly; their state follows their children.
func (a *App) SelectAllVisible() {
	for _, i := range a.VisibleIndices() {
		if a.Nodes[i].IsDir {
			continue
		}
		ApplyState(a.Nodes, i, FullySelected)
		RefreshAncestors(a.Nodes, i)
	}
}

// DeselectAllVisible deselects every visible node, files and directories
// alike. The asymmetry with SelectAllVisible is deliberate.
func (a *App) DeselectAllVisible() {
	for _, i := range a.VisibleIndices() {
		ApplyState(a.Nodes, i, NotSelected)
		RefreshAncestors(a.Nodes, i)
	}
}

// EnterFilter switches to filtering mode. Existing filter text is kept.
func (a *App) EnterFilter() { a.Mode = ModeFiltering }

// CommitFilter returns to normal mode keeping the filter text active.
func (a *App) CommitFilter() {
	a.Mode = ModeNormal
	a.Revalidate()
}

// CancelFilter returns to normal mode and clears the filter text.
func (a *App) CancelFilter() {
	a.Mode = ModeNormal
	a.filter = a.filter[:0]
	a.cursor = 0
	a.Revalidate()
}

// InsertFilterRune inserts a rune at the filter cursor. Filtering is live:
// every edit revalidates immediately.
func (a *App) InsertFilterRune(r rune) {
	a.filter = append(a.filter, 0)
	copy(a.filter[a.cursor+1:], a.filter[a.cursor:])
	a.filter[a.cursor] = r
	a.cursor++
	a.Revalidate()
}

// DeleteFilterRune removes the rune before the filter cursor.
func (a *App) DeleteFilterRune() {
	if a.cursor == 0 || len(a.filter) == 0 {
		return
	}
	a.filter = append(a.filter[:a.cursor-1], a.filter[a.cursor:]...)
	a.cursor--
	a.Revalidate()
}

// MoveFilterCursorLeft moves the filter cursor one rune left.
func (a *App) MoveFilterCursorLeft() {
	if a.cursor > 0 {
		a.cursor--
	}
}

// MoveFilterCursorRight moves the filter cursor one rune right.
func (a *App) MoveFilterCursorRight() {
	if a.cursor < len(a.filter) {
		a.cursor++
	}
}

// Abort ends the session discarding the selection.
func (a *App) Abort() { a.Quit = true }

// ConfirmAndQuit ends the session keeping the selection.
func (a *App) ConfirmAndQuit() {
	a.Confirmed = true
	a.Quit = true
}

// Revalidate restores the two session invariants after a structural
// mutation: the selection must be a visible node (falling back to its
// nearest visible ancestor, then the first visible node), and its position
// in the visible list must lie inside the scroll window.
func (a *App) Revalidate() {
	vis := a.VisibleIndices()
	if len(vis) == 0 {
		a.ScrollOffset = 0
		return
	}
	if indexOf(vis, a.Current) < 0 {
		a.Current = a.fallbackSelection(vis)
	}
	a.scrollIntoView(vis)
}

func (a *App) fallbackSelection(vis []int) int {
	if a.Current >= 0 && a.Current < len(a.Nodes) {
		for p := a.Nodes[a.Current].Parent; p >= 0; p = a.Nodes[p].Parent {
			if indexOf(vis, p) >= 0 {
				return p
			}
		}
	}
	return vis[0]
}

// scrollIntoView clamps the scroll offset to the visible list and then
// shifts it by the minimal amount needed to bring the selection inside the
// window: aligned to the top edge when above it, to the bottom edge when
// below it.
func (a *App) scrollIntoView(vis []int) {
	if a.ViewportHeight <= 0 {
		return
	}
	maxOffset := len(vis) - a.ViewportHeight
	if maxOffset < 0 {
		maxOffset = 0
	}
	if a.ScrollOffset > maxOffset {
		a.ScrollOffset = maxOffset
	}
	if a.ScrollOffset < 0 {
		a.ScrollOffset = 0
	}
	pos := indexOf(vis, a.Current)
	if pos < 0 {
		return
	}
	if pos < a.ScrollOffset {
		a.ScrollOffset = pos
	} else if pos >= a.ScrollOffset+a.ViewportHeight {
		a.ScrollOffset = pos - a.ViewportHeight + 1
	}
}

func indexOf(s []int, v int) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}
