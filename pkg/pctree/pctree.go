package pctree

import (
	"slices"
	"strconv"
	"strings"
)

// Tree is a PC-tree over the elements [0..n-1].
//
// A Tree represents a set of circular orderings. Apply narrows the set by a
// consecutivity restriction; when Apply returns false the restrictions are
// contradictory and the tree is left in an undefined state.
//
// The zero value of Tree is not usable; use New.
type Tree struct {
	root   *pcNode
	leaves []*pcNode
}

type nodeKind int

const (
	leafNode nodeKind = iota
	pNode
	cNode
)

type markKind int

const (
	unmarked markKind = iota
	empty
	full
	partial
)

type pcNode struct {
	kind     nodeKind
	value    int
	children []*pcNode
	parent   *pcNode
	mark     markKind
}

// New creates a PC-tree representing all circular orders of n elements.
//
// For n <= 2 every restriction is trivially satisfiable and the tree never
// changes shape. Larger trees start as a single P-node over n leaves.
func New(n int) *Tree {
	if n == 0 {
		return &Tree{}
	}
	leaves := make([]*pcNode, n)
	for i := range leaves {
		leaves[i] = &pcNode{kind: leafNode, value: i}
	}
	if n == 1 {
		return &Tree{root: leaves[0], leaves: leaves}
	}
	root := &pcNode{kind: pNode, children: slices.Clone(leaves)}
	for _, l := range leaves {
		l.parent = root
	}
	return &Tree{root: root, leaves: leaves}
}

// Size returns the number of elements.
func (t *Tree) Size() int { return len(t.leaves) }

// Apply narrows the tree by a circular consecutivity restriction: the given
// elements must appear consecutively in every remaining circular order.
//
// Returns false when the restriction contradicts previously applied ones;
// the tree must then be discarded. Out-of-range and duplicate elements are
// ignored. Restrictions whose set or complement has fewer than two elements
// are trivially satisfiable and leave the tree unchanged.
//
// A restriction and its complement are equivalent in circular order, and
// Apply always works on the smaller of the two.
func (t *Tree) Apply(restriction []int) bool {
	n := len(t.leaves)
	if t.root == nil || n <= 2 {
		return true
	}

	in := make([]bool, n)
	k := 0
	for _, e := range restriction {
		if e >= 0 && e < n && !in[e] {
			in[e] = true
			k++
		}
	}
	if 2*k > n {
		for i := range in {
			in[i] = !in[i]
		}
		k = n - k
	}
	if k <= 1 || k >= n-1 {
		return true
	}

	t.clearMarks(t.root)
	for i, leaf := range t.leaves {
		if in[i] {
			leaf.mark = full
		}
	}
	t.bubbleUp(t.root)

	pert := t.pertinentRoot()
	if pert.mark == full {
		// All full leaves live below a single node; already consecutive.
		return true
	}
	if !t.reduceNode(pert, true) {
		return false
	}
	t.collapseRoot()
	return true
}

func (t *Tree) clearMarks(n *pcNode) {
	n.mark = unmarked
	for _, c := range n.children {
		t.clearMarks(c)
	}
}

func (t *Tree) bubbleUp(n *pcNode) markKind {
	if n.kind == leafNode {
		if n.mark == unmarked {
			n.mark = empty
		}
		return n.mark
	}
	fulls, partials := 0, 0
	for _, c := range n.children {
		switch t.bubbleUp(c) {
		case full:
			fulls++
		case partial:
			partials++
		}
	}
	switch {
	case fulls == len(n.children):
		n.mark = full
	case fulls == 0 && partials == 0:
		n.mark = empty
	default:
		n.mark = partial
	}
	return n.mark
}

// pertinentRoot descends to the lowest node whose subtree contains all full
// leaves: while exactly one child is non-empty, the pertinent subtree lies
// entirely inside that child.
func (t *Tree) pertinentRoot() *pcNode {
	n := t.root
	for n.kind != leafNode {
		var only *pcNode
		count := 0
		for _, c := range n.children {
			if c.mark != empty {
				only = c
				count++
			}
		}
		if count != 1 || only.kind == leafNode {
			return n
		}
		n = only
	}
	return n
}

// reduceNode restructures n so that its full leaves become consecutive.
// At the pertinent root the full block may lie in the middle of n's arc;
// below it, n must normalize into a partial C-node whose children read
// empty side first, full side last.
func (t *Tree) reduceNode(n *pcNode, atPert bool) bool {
	if n.kind == leafNode || n.mark != partial {
		return true
	}
	for _, c := range n.children {
		if c.mark == partial && !t.reduceNode(c, false) {
			return false
		}
	}
	if n.kind == pNode {
		return t.reduceP(n, atPert)
	}
	return t.reduceC(n, atPert)
}

func (t *Tree) reduceP(n *pcNode, atPert bool) bool {
	var empties, fulls, partials []*pcNode
	for _, c := range n.children {
		switch c.mark {
		case full:
			fulls = append(fulls, c)
		case partial:
			partials = append(partials, c)
		default:
			empties = append(empties, c)
		}
	}
	maxPartials := 1
	if atPert {
		maxPartials = 2
	}
	if len(partials) > maxPartials {
		return false
	}

	fullGroup := t.group(fulls, full)

	if atPert {
		if len(partials) == 0 {
			// Group the full children so they stay consecutive.
			if fullGroup != nil {
				n.children = append(append([]*pcNode{}, empties...), fullGroup)
				fullGroup.parent = n
			}
			return true
		}
		// Assemble one C-node child carrying the whole pertinent block:
		// q1 empty→full, fulls, q2 full→empty.
		var seq []*pcNode
		seq = append(seq, partials[0].children...)
		if fullGroup != nil {
			seq = append(seq, fullGroup)
		}
		if len(partials) == 2 {
			rev := slices.Clone(partials[1].children)
			slices.Reverse(rev)
			seq = append(seq, rev...)
		}
		block := &pcNode{kind: cNode, mark: partial, children: seq, parent: n}
		for _, c := range seq {
			c.parent = block
		}
		n.children = append(append([]*pcNode{}, empties...), block)
		return true
	}

	// Partial P below the pertinent root: normalize into a C-node reading
	// empty side → full side.
	emptyGroup := t.group(empties, empty)
	var seq []*pcNode
	if emptyGroup != nil {
		seq = append(seq, emptyGroup)
	}
	if len(partials) == 1 {
		seq = append(seq, partials[0].children...)
	}
	if fullGroup != nil {
		seq = append(seq, fullGroup)
	}
	n.kind = cNode
	n.children = seq
	for _, c := range seq {
		c.parent = n
	}
	n.mark = partial
	return true
}

// group wraps nodes under a fresh P-node when there are at least two;
// a single node is returned as-is and an empty slice yields nil.
func (t *Tree) group(nodes []*pcNode, m markKind) *pcNode {
	switch len(nodes) {
	case 0:
		return nil
	case 1:
		return nodes[0]
	}
	g := &pcNode{kind: pNode, mark: m, children: slices.Clone(nodes)}
	for _, c := range nodes {
		c.parent = g
	}
	return g
}

func (t *Tree) reduceC(n *pcNode, atPert bool) bool {
	circular := atPert && n == t.root
	ch := slices.Clone(n.children)

	if circular {
		// Rotating the children of the root C-node does not change the
		// represented circular orders; rotate so the block cannot wrap.
		rot := -1
		for i, c := range ch {
			if c.mark == empty {
				rot = i
				break
			}
		}
		if rot < 0 {
			// No empty child: park a partial child at the end instead.
			for i, c := range ch {
				if c.mark == partial {
					rot = i
					break
				}
			}
		}
		if rot >= 0 {
			ch = append(ch[rot+1:], ch[:rot+1]...)
		}
	}

	first, last := -1, -1
	partialCount := 0
	for i, c := range ch {
		if c.mark != empty {
			if first < 0 {
				first = i
			}
			last = i
		}
		if c.mark == partial {
			partialCount++
		}
	}
	if first < 0 {
		return true
	}
	for i := first; i <= last; i++ {
		if ch[i].mark == empty {
			return false
		}
		if ch[i].mark == partial && i != first && i != last {
			return false
		}
	}

	if !atPert {
		if partialCount > 1 {
			return false
		}
		// The block must sit at one end so the node reads empty→full.
		if last != len(ch)-1 {
			if first != 0 {
				return false
			}
			slices.Reverse(ch)
			first, last = len(ch)-1-last, len(ch)-1
		}
		// Any partial child has to border the block on its empty side.
		if partialCount == 1 && ch[first].mark != partial {
			return false
		}
	} else if partialCount > 2 {
		return false
	}

	// Splice partial boundary children inline, full sides facing the block.
	out := make([]*pcNode, 0, len(ch)+4)
	for i, c := range ch {
		if c.mark != partial {
			out = append(out, c)
			continue
		}
		sub := slices.Clone(c.children)
		if i == last && i != first {
			slices.Reverse(sub)
		}
		out = append(out, sub...)
	}
	n.children = out
	for _, c := range out {
		c.parent = n
	}
	if !atPert {
		n.mark = partial
	}
	return true
}

// collapseRoot removes a degenerate single-child root created by bundling.
func (t *Tree) collapseRoot() {
	for t.root != nil && t.root.kind != leafNode && len(t.root.children) == 1 {
		t.root = t.root.children[0]
		t.root.parent = nil
	}
}

// Clone creates an independent deep copy of the tree.
//
// Cloning lets search code explore alternative restriction branches without
// mutating the original.
func (t *Tree) Clone() *Tree {
	if t.root == nil {
		return &Tree{}
	}
	mapping := make(map[*pcNode]*pcNode)
	newRoot := cloneNode(t.root, mapping)
	newLeaves := make([]*pcNode, len(t.leaves))
	for i, l := range t.leaves {
		newLeaves[i] = mapping[l]
	}
	return &Tree{root: newRoot, leaves: newLeaves}
}

func cloneNode(n *pcNode, mapping map[*pcNode]*pcNode) *pcNode {
	c := &pcNode{kind: n.kind, value: n.value, mark: n.mark}
	mapping[n] = c
	if len(n.children) > 0 {
		c.children = make([]*pcNode, len(n.children))
		for i, child := range n.children {
			c.children[i] = cloneNode(child, mapping)
			c.children[i].parent = c
		}
	}
	return c
}

// Restrictions returns a set of restrictions that reproduces the tree's
// constraints when applied to a fresh universal tree of the same size:
// the leaf set of every non-root internal node, plus, for each C-node, the
// merged leaf sets of each pair of adjacent children (cyclically adjacent
// for the root). Used to intersect two PC-trees through a bijection.
func (t *Tree) Restrictions() [][]int {
	if t.root == nil || t.root.kind == leafNode {
		return nil
	}
	var out [][]int
	var walk func(n *pcNode)
	walk = func(n *pcNode) {
		if n.kind == leafNode {
			return
		}
		if n != t.root {
			out = append(out, leafValues(n))
		}
		if n.kind == cNode {
			k := len(n.children)
			for i := 0; i < k; i++ {
				if i == k-1 && n != t.root {
					break
				}
				pair := append(leafValues(n.children[i]), leafValues(n.children[(i+1)%k])...)
				out = append(out, pair)
			}
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(t.root)
	return out
}

func leafValues(n *pcNode) []int {
	var out []int
	var walk func(x *pcNode)
	walk = func(x *pcNode) {
		if x.kind == leafNode {
			out = append(out, x.value)
			return
		}
		for _, c := range x.children {
			walk(c)
		}
	}
	walk(n)
	return out
}

// OrderCount returns the number of circular orders the tree represents,
// counting reflections as distinct. The root P-node contributes (k-1)!
// (circular arrangements of k children), every other P-node k!, and every
// C-node with at least three children a factor of two.
func (t *Tree) OrderCount() int {
	if t.root == nil || t.root.kind == leafNode {
		return 1
	}
	count := 1
	var walk func(n *pcNode)
	walk = func(n *pcNode) {
		switch n.kind {
		case pNode:
			k := len(n.children)
			if n == t.root {
				k--
			}
			for i := 2; i <= k; i++ {
				count *= i
			}
		case cNode:
			if len(n.children) >= 3 || n != t.root {
				count *= 2
			}
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(t.root)
	return count
}

// Rotations enumerates the represented circular orders as leaf sequences
// normalized to start at element 0. If limit > 0 at most limit orders are
// returned. Exponential in tree size; intended for tests and debugging.
func (t *Tree) Rotations(limit int) [][]int {
	if t.root == nil {
		return [][]int{{}}
	}
	raw := linearizations(t.root)
	seen := make(map[string]bool)
	var out [][]int
	for _, seq := range raw {
		norm := normalizeRotation(seq)
		key := keyOf(norm)
		if !seen[key] {
			seen[key] = true
			out = append(out, norm)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out
}

func linearizations(n *pcNode) [][]int {
	if n.kind == leafNode {
		return [][]int{{n.value}}
	}
	var orders [][]*pcNode
	switch n.kind {
	case pNode:
		orders = permuteNodes(n.children)
	case cNode:
		fwd := slices.Clone(n.children)
		rev := slices.Clone(n.children)
		slices.Reverse(rev)
		orders = [][]*pcNode{fwd, rev}
	}
	var out [][]int
	for _, order := range orders {
		partial := [][]int{{}}
		for _, c := range order {
			sub := linearizations(c)
			var next [][]int
			for _, p := range partial {
				for _, s := range sub {
					next = append(next, append(slices.Clone(p), s...))
				}
			}
			partial = next
		}
		out = append(out, partial...)
	}
	return out
}

func permuteNodes(nodes []*pcNode) [][]*pcNode {
	if len(nodes) <= 1 {
		return [][]*pcNode{slices.Clone(nodes)}
	}
	var out [][]*pcNode
	for i, n := range nodes {
		rest := make([]*pcNode, 0, len(nodes)-1)
		rest = append(rest, nodes[:i]...)
		rest = append(rest, nodes[i+1:]...)
		for _, p := range permuteNodes(rest) {
			out = append(out, append([]*pcNode{n}, p...))
		}
	}
	return out
}

func normalizeRotation(seq []int) []int {
	at := 0
	for i, v := range seq {
		if v == 0 {
			at = i
			break
		}
	}
	return append(slices.Clone(seq[at:]), seq[:at]...)
}

func keyOf(seq []int) string {
	var sb strings.Builder
	for _, v := range seq {
		sb.WriteByte(',')
		sb.WriteString(strconv.Itoa(v))
	}
	return sb.String()
}

// String renders the tree with numeric leaf labels. P-nodes use round
// brackets, C-nodes square brackets.
func (t *Tree) String() string { return t.StringWithLabels(nil) }

// StringWithLabels renders the tree using labels[i] for element i when
// available, falling back to the numeric index.
func (t *Tree) StringWithLabels(labels []string) string {
	if t.root == nil {
		return "()"
	}
	var sb strings.Builder
	t.writeNode(&sb, t.root, labels)
	return sb.String()
}

func (t *Tree) writeNode(sb *strings.Builder, n *pcNode, labels []string) {
	switch n.kind {
	case leafNode:
		sb.WriteString(t.leafLabel(n, labels))
	case pNode:
		sb.WriteByte('(')
		for i, c := range n.children {
			if i > 0 {
				sb.WriteByte(' ')
			}
			t.writeNode(sb, c, labels)
		}
		sb.WriteByte(')')
	case cNode:
		sb.WriteByte('[')
		for i, c := range n.children {
			if i > 0 {
				sb.WriteByte(' ')
			}
			t.writeNode(sb, c, labels)
		}
		sb.WriteByte(']')
	}
}

func (t *Tree) leafLabel(n *pcNode, labels []string) string {
	if n.value >= 0 && n.value < len(labels) {
		return labels[n.value]
	}
	return strconv.Itoa(n.value)
}
