package syntax

import (
	"slices"
	"strings"

	"github.com/yaklabco/razorparse/pkg/diagnostic"
	"github.com/yaklabco/razorparse/pkg/directive"
	"github.com/yaklabco/razorparse/pkg/taghelper"
)

// SpanKind classifies what a literal node contributes to generated code.
type SpanKind uint8

// Span kinds.
const (
	SpanNone SpanKind = iota
	SpanMarkup
	SpanCode
	SpanTransition
	SpanMetaCode
	SpanComment
)

func (k SpanKind) String() string {
	switch k {
	case SpanNone:
		return "None"
	case SpanMarkup:
		return "Markup"
	case SpanCode:
		return "Code"
	case SpanTransition:
		return "Transition"
	case SpanMetaCode:
		return "MetaCode"
	case SpanComment:
		return "Comment"
	default:
		return "SpanKind(?)"
	}
}

// TagMode records how a tag helper element was written.
type TagMode uint8

// Tag modes.
const (
	TagModeStartTagAndEndTag TagMode = iota
	TagModeSelfClosing
	TagModeStartTagOnly
)

func (m TagMode) String() string {
	switch m {
	case TagModeStartTagAndEndTag:
		return "StartTagAndEndTag"
	case TagModeSelfClosing:
		return "SelfClosing"
	case TagModeStartTagOnly:
		return "StartTagOnly"
	default:
		return "TagMode(?)"
	}
}

// Annotations carry parse results that are not text: the role of a span,
// the directive a node belongs to, the tag helpers bound to an element.
// Every pointer refers to an immutable descriptor.
type Annotations struct {
	SpanKind SpanKind

	// Name is the element, attribute or directive name the node represents.
	Name string

	Directive      *directive.Descriptor
	DirectiveToken *directive.TokenDescriptor

	Binding        *taghelper.Binding
	BoundAttribute *taghelper.BoundAttribute
	TagMode        TagMode

	// Unconditional marks data- attributes whose value is always rendered.
	Unconditional bool

	// Transition marks <text> pseudo-elements, which emit no markup.
	Transition bool

	// OptOut marks elements written "<!name" that are never tag helpers.
	OptOut bool
}

// Node is an immutable syntax tree node. A node is either a token leaf
// (Kind() == KindToken) or an interior node with children. Nodes hold no
// parent pointers and no absolute positions; positions are derived from
// widths during a walk. Width() always equals the sum of the children's
// widths.
type Node struct {
	kind        NodeKind
	token       Token
	children    []*Node
	width       int
	diagnostics []diagnostic.Diagnostic
	annotations Annotations
}

// NewToken returns a leaf node for a token.
func NewToken(kind TokenKind, content string) *Node {
	return &Node{kind: KindToken, token: Token{Kind: kind, Content: content}, width: len(content)}
}

// NewTokenNode returns a leaf node for tok.
func NewTokenNode(tok Token) *Node {
	return NewToken(tok.Kind, tok.Content)
}

// NewNode returns an interior node. Nil children are dropped.
func NewNode(kind NodeKind, children ...*Node) *Node {
	node := &Node{kind: kind}
	node.setChildren(children)
	return node
}

func (n *Node) setChildren(children []*Node) {
	kept := make([]*Node, 0, len(children))
	width := 0
	for _, child := range children {
		if child == nil {
			continue
		}
		kept = append(kept, child)
		width += child.width
	}
	n.children = kept
	n.width = width
}

// Kind returns the node kind.
func (n *Node) Kind() NodeKind { return n.kind }

// IsToken reports whether n is a token leaf.
func (n *Node) IsToken() bool { return n.kind == KindToken }

// Token returns the token of a leaf; the zero Token for interior nodes.
func (n *Node) Token() Token { return n.token }

// Width returns the number of source bytes the node covers.
func (n *Node) Width() int { return n.width }

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return len(n.children) }

// Child returns the i-th child, or nil when out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Children returns a copy of the children.
func (n *Node) Children() []*Node {
	return slices.Clone(n.children)
}

// Diagnostics returns the diagnostics attached to this node.
func (n *Node) Diagnostics() []diagnostic.Diagnostic {
	return slices.Clone(n.diagnostics)
}

// Annotations returns the node's annotations.
func (n *Node) Annotations() Annotations { return n.annotations }

// Text reassembles the source text covered by n.
func (n *Node) Text() string {
	if n.IsToken() {
		return n.token.Content
	}
	var sb strings.Builder
	sb.Grow(n.width)
	n.writeText(&sb)
	return sb.String()
}

func (n *Node) writeText(sb *strings.Builder) {
	if n.IsToken() {
		sb.WriteString(n.token.Content)
		return
	}
	for _, child := range n.children {
		child.writeText(sb)
	}
}

// FirstToken returns the first leaf, or nil.
func (n *Node) FirstToken() *Node {
	if n.IsToken() {
		return n
	}
	for _, child := range n.children {
		if tok := child.FirstToken(); tok != nil {
			return tok
		}
	}
	return nil
}

// LastToken returns the last leaf, or nil.
func (n *Node) LastToken() *Node {
	if n.IsToken() {
		return n
	}
	for i := len(n.children) - 1; i >= 0; i-- {
		if tok := n.children[i].LastToken(); tok != nil {
			return tok
		}
	}
	return nil
}

func (n *Node) clone() *Node {
	c := *n
	return &c
}

// WithChildren returns a copy of n with new children. It returns n itself
// when children are identical to the current ones.
func (n *Node) WithChildren(children ...*Node) *Node {
	if slices.Equal(n.children, children) {
		return n
	}
	c := n.clone()
	c.setChildren(children)
	return c
}

// WithKind returns a copy of n with a different kind.
func (n *Node) WithKind(kind NodeKind) *Node {
	if n.kind == kind {
		return n
	}
	c := n.clone()
	c.kind = kind
	return c
}

// WithDiagnostics returns a copy of n with diags appended.
func (n *Node) WithDiagnostics(diags ...diagnostic.Diagnostic) *Node {
	if len(diags) == 0 {
		return n
	}
	c := n.clone()
	c.diagnostics = append(slices.Clone(n.diagnostics), diags...)
	return c
}

// WithAnnotations returns a copy of n with the given annotations.
func (n *Node) WithAnnotations(annotations Annotations) *Node {
	c := n.clone()
	c.annotations = annotations
	return c
}

// WithSpanKind returns a copy of n with its span kind set.
func (n *Node) WithSpanKind(kind SpanKind) *Node {
	annotations := n.annotations
	annotations.SpanKind = kind
	return n.WithAnnotations(annotations)
}
