package syntax

import (
	"errors"
	"fmt"
	"strings"
)

// ErrWidthMismatch is returned by ValidateWidth.
var ErrWidthMismatch = errors.New("syntax tree width mismatch")

// Cursor is a node together with its absolute start offset. Cursors are
// computed during a walk and are never stored in the tree.
type Cursor struct {
	Node   *Node
	Offset int
}

// End returns the offset just past the node.
func (c Cursor) End() int {
	return c.Offset + c.Node.Width()
}

// WalkFunc is the function signature for Walk callbacks.
// Return a non-nil error to stop the walk.
type WalkFunc func(n *Node) error

// Walk performs a pre-order traversal starting at root.
func Walk(root *Node, walkFunc WalkFunc) error {
	if root == nil {
		return nil
	}

	if err := walkFunc(root); err != nil {
		return err
	}

	for _, child := range root.children {
		if err := Walk(child, walkFunc); err != nil {
			return err
		}
	}

	return nil
}

// VisitFunc is called by WalkWithContext. path holds the ancestors of the
// current node, root first, followed by the node itself. The slice is
// reused between calls and must not be retained.
type VisitFunc func(path []Cursor) error

// WalkWithContext performs a traversal with enter and leave callbacks that
// receive the transient ancestor path. Either callback may be nil.
func WalkWithContext(root *Node, enter, leave VisitFunc) error {
	if root == nil {
		return nil
	}
	path := make([]Cursor, 0, 16)
	return walkPath(Cursor{Node: root}, path, enter, leave)
}

func walkPath(cur Cursor, path []Cursor, enter, leave VisitFunc) error {
	path = append(path, cur)

	if enter != nil {
		if err := enter(path); err != nil {
			return err
		}
	}

	offset := cur.Offset
	for _, child := range cur.Node.children {
		if err := walkPath(Cursor{Node: child, Offset: offset}, path, enter, leave); err != nil {
			return err
		}
		offset += child.width
	}

	if leave != nil {
		if err := leave(path); err != nil {
			return err
		}
	}

	return nil
}

// FindAll returns all nodes matching the predicate.
func FindAll(root *Node, predicate func(n *Node) bool) []*Node {
	var result []*Node

	//nolint:errcheck,revive // Walk only returns nil errors in this usage
	Walk(root, func(node *Node) error {
		if predicate(node) {
			result = append(result, node)
		}
		return nil
	})

	return result
}

// FindFirst returns the first node matching the predicate, or nil if none found.
func FindFirst(root *Node, predicate func(n *Node) bool) *Node {
	var found *Node

	//nolint:errcheck,revive // errStopWalk is expected and intentionally ignored
	Walk(root, func(node *Node) error {
		if predicate(node) {
			found = node
			return errStopWalk
		}
		return nil
	})

	return found
}

// FindByKind returns all nodes of the specified kind.
func FindByKind(root *Node, kind NodeKind) []*Node {
	return FindAll(root, func(n *Node) bool {
		return n.kind == kind
	})
}

// Positioned returns every node matching predicate with its offset.
func Positioned(root *Node, predicate func(n *Node) bool) []Cursor {
	var result []Cursor

	//nolint:errcheck,revive // the callback never fails
	WalkWithContext(root, func(path []Cursor) error {
		cur := path[len(path)-1]
		if predicate(cur.Node) {
			result = append(result, cur)
		}
		return nil
	}, nil)

	return result
}

// FindPath returns the path from root to the token leaf owning offset, root
// first. A leaf owns [start, end); the end of the document is owned by the
// last non-empty leaf. It returns nil when offset is outside the tree.
func FindPath(root *Node, offset int) []Cursor {
	if root == nil || offset < 0 || offset > root.width {
		return nil
	}

	var path []Cursor
	cur := Cursor{Node: root}
	for {
		path = append(path, cur)
		if cur.Node.IsToken() {
			return path
		}
		next, ok := ownerChild(cur, offset)
		if !ok {
			return path
		}
		cur = next
	}
}

func ownerChild(parent Cursor, offset int) (Cursor, bool) {
	start := parent.Offset
	var last Cursor
	found := false
	for _, child := range parent.Node.children {
		end := start + child.width
		if child.width > 0 {
			if offset >= start && offset < end {
				return Cursor{Node: child, Offset: start}, true
			}
			last, found = Cursor{Node: child, Offset: start}, true
		}
		start = end
	}
	if found && offset == last.End() {
		return last, true
	}
	return Cursor{}, false
}

// FindOwner returns the token leaf owning offset, or nil.
func FindOwner(root *Node, offset int) *Node {
	path := FindPath(root, offset)
	if len(path) == 0 {
		return nil
	}
	leaf := path[len(path)-1].Node
	if !leaf.IsToken() {
		return nil
	}
	return leaf
}

// Tokens returns the leaf tokens of root in document order.
func Tokens(root *Node) []Token {
	var tokens []Token

	//nolint:errcheck,revive // the callback never fails
	Walk(root, func(n *Node) error {
		if n.IsToken() {
			tokens = append(tokens, n.token)
		}
		return nil
	})

	return tokens
}

// Text reassembles the source covered by root.
func Text(root *Node) string {
	if root == nil {
		return ""
	}
	return root.Text()
}

// ValidateWidth checks that root covers exactly want bytes and that every
// interior node's width is the sum of its children's widths.
func ValidateWidth(root *Node, want int) error {
	if root == nil {
		if want == 0 {
			return nil
		}
		return fmt.Errorf("%w: empty tree, want %d", ErrWidthMismatch, want)
	}
	if root.width != want {
		return fmt.Errorf("%w: root covers %d bytes, want %d", ErrWidthMismatch, root.width, want)
	}
	return Walk(root, func(n *Node) error {
		if n.IsToken() {
			if n.width != len(n.token.Content) {
				return fmt.Errorf("%w: token %s width %d", ErrWidthMismatch, n.token.Kind, n.width)
			}
			return nil
		}
		sum := 0
		for _, child := range n.children {
			sum += child.width
		}
		if sum != n.width {
			return fmt.Errorf("%w: %s width %d, children sum %d", ErrWidthMismatch, n.kind, n.width, sum)
		}
		return nil
	})
}

// Replace returns a copy of root in which target is replaced by
// replacements. Only the nodes on the path from root to target are rebuilt.
// Replace returns root unchanged when target is not found.
func Replace(root, target *Node, replacements ...*Node) *Node {
	if root == nil || target == nil {
		return root
	}
	if root == target {
		if len(replacements) == 1 {
			return replacements[0]
		}
		return root
	}
	rebuilt, ok := replaceIn(root, target, replacements)
	if !ok {
		return root
	}
	return rebuilt
}

func replaceIn(node, target *Node, replacements []*Node) (*Node, bool) {
	for i, child := range node.children {
		if child == target {
			children := make([]*Node, 0, len(node.children)-1+len(replacements))
			children = append(children, node.children[:i]...)
			children = append(children, replacements...)
			children = append(children, node.children[i+1:]...)
			return node.WithChildren(children...), true
		}
		if child.IsToken() {
			continue
		}
		if rebuilt, ok := replaceIn(child, target, replacements); ok {
			children := make([]*Node, len(node.children))
			copy(children, node.children)
			children[i] = rebuilt
			return node.WithChildren(children...), true
		}
	}
	return nil, false
}

// Describe returns a one-line summary of n for error messages.
func Describe(n *Node) string {
	if n == nil {
		return "<nil>"
	}
	if n.IsToken() {
		return fmt.Sprintf("%s %q", n.token.Kind, n.token.Content)
	}
	var sb strings.Builder
	sb.WriteString(n.kind.String())
	if name := n.annotations.Name; name != "" {
		sb.WriteString(" <")
		sb.WriteString(name)
		sb.WriteString(">")
	}
	return sb.String()
}

// errStopWalk is a sentinel error used to stop walking early.
var errStopWalk = &stopWalkError{}

type stopWalkError struct{}

func (e *stopWalkError) Error() string {
	return "stop walk"
}
