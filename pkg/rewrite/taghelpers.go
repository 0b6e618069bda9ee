package rewrite

import (
	"strings"

	"github.com/yaklabco/razorparse/pkg/diagnostic"
	"github.com/yaklabco/razorparse/pkg/language"
	"github.com/yaklabco/razorparse/pkg/parser"
	"github.com/yaklabco/razorparse/pkg/source"
	"github.com/yaklabco/razorparse/pkg/syntax"
	"github.com/yaklabco/razorparse/pkg/taghelper"
)

// TagHelpers binds elements to the tag helpers registered in binder. A bound
// element becomes a MarkupTagHelperElement whose start tag, end tag and
// bound attributes take the tag helper kinds. Elements written "<!name"
// and <text> transitions are never bound. An empty binder returns tree
// unchanged.
func TagHelpers(tree *syntax.Tree, binder *taghelper.Binder) (*syntax.Tree, error) {
	if tree == nil {
		return nil, ErrNilTree
	}
	if binder.Len() == 0 {
		return tree, nil
	}

	rw := &tagRewriter{
		doc:    tree.Source,
		binder: binder,
		flags:  tree.Options.Flags(),
	}
	return finish("tag helpers", tree, rw.node(tree.Root, 0, scope{}))
}

// scope is the element context of a node.
type scope struct {
	parentTag string

	// parent is set for nodes directly inside a bound element.
	parent *taghelper.Binding
}

type tagRewriter struct {
	doc    *source.Document
	binder *taghelper.Binder
	flags  language.FeatureFlags
}

func (rw *tagRewriter) node(node *syntax.Node, offset int, sc scope) *syntax.Node {
	if node.IsToken() {
		return node
	}
	return node.WithChildren(rw.children(node.Children(), offset, sc)...)
}

func (rw *tagRewriter) children(nodes []*syntax.Node, offset int, sc scope) []*syntax.Node {
	out := make([]*syntax.Node, 0, len(nodes))
	for _, child := range nodes {
		switch {
		case child.Kind() == syntax.KindMarkupElement:
			out = append(out, rw.element(child, offset, sc)...)
		case child.Kind() == syntax.KindMarkupCommentBlock && sc.parent != nil && !rw.flags.AllowHTMLCommentsInTagHelpers:
			out = append(out, flattenComment(child))
		default:
			out = append(out, rw.node(child, offset, sc))
		}
		offset += child.Width()
	}
	return out
}

// element rewrites one element. It may return more than one node: the body
// of a start-tag-only tag helper moves out of the element.
//
//nolint:funlen // tag mode resolution reads best in one place
func (rw *tagRewriter) element(elem *syntax.Node, offset int, sc scope) []*syntax.Node {
	ann := elem.Annotations()
	switch {
	case ann.Transition:
		return []*syntax.Node{rw.node(elem, offset, sc)}
	case ann.OptOut:
		return []*syntax.Node{rw.node(elem, offset, scope{parentTag: ann.Name})}
	}

	name := ann.Name
	nameSpan := rw.doc.Span(offset+1, len(name))
	var diags []diagnostic.Diagnostic
	if sc.parent != nil {
		if allowed := sc.parent.AllowedChildren(); len(allowed) > 0 && !rw.childAllowed(allowed, name) {
			diags = append(diags, diagnostic.TagHelperChildNotAllowed.New(nameSpan,
				name, sc.parentTag, strings.Join(allowed, ", ")))
		}
	}

	children := elem.Children()
	start := children[0]
	binding := rw.binder.Bind(name, sc.parentTag, startTagAttributes(start))
	if binding == nil {
		return []*syntax.Node{rw.node(elem, offset, scope{parentTag: name}).WithDiagnostics(diags...)}
	}

	body := children[1:]
	var end *syntax.Node
	if last := children[len(children)-1]; len(children) > 1 && last.Kind() == syntax.KindMarkupEndTag {
		end = last
		body = children[1 : len(children)-1]
	}
	bodyOffset := offset + start.Width()

	structure, conflict, consistent := binding.TagStructure()
	if !consistent {
		diags = append(diags, diagnostic.TagHelperInconsistentTagStructure.New(nameSpan,
			structureOwner(binding).DisplayName(), conflict.DisplayName(), name))
	}

	mode := syntax.TagModeStartTagAndEndTag
	var trailing []*syntax.Node
	switch {
	case strings.HasSuffix(start.Text(), "/>"):
		mode = syntax.TagModeSelfClosing
	case end != nil:
		if structure == taghelper.TagStructureWithoutEndTag {
			endOffset := offset + elem.Width() - end.Width()
			diags = append(diags, diagnostic.TagHelperMustNotHaveEndTag.New(rw.doc.Span(endOffset+2, len(name)),
				name, structureOwner(binding).DisplayName()))
		}
	case structure == taghelper.TagStructureWithoutEndTag, parser.IsVoidElement(name):
		mode = syntax.TagModeStartTagOnly
		trailing, body = body, nil
	default:
		diags = append(diags, diagnostic.TagHelperMissingCloseTag.New(nameSpan, name))
	}

	rewritten := []*syntax.Node{rw.startTag(start, offset, binding, name, scope{parentTag: name})}
	rewritten = append(rewritten, rw.children(body, bodyOffset, scope{parentTag: name, parent: binding})...)
	if end != nil {
		rewritten = append(rewritten, end.WithKind(syntax.KindMarkupTagHelperEndTag))
	}

	ann.Binding = binding
	ann.TagMode = mode
	ann.SpanKind = syntax.SpanMarkup
	helper := elem.WithKind(syntax.KindMarkupTagHelperElement).
		WithChildren(rewritten...).
		WithAnnotations(ann).
		WithDiagnostics(diags...)

	return append([]*syntax.Node{helper}, rw.children(trailing, bodyOffset, sc)...)
}

func (rw *tagRewriter) startTag(
	tag *syntax.Node, offset int, binding *taghelper.Binding, tagName string, sc scope,
) *syntax.Node {
	seen := make(map[string]bool)

	children := tag.Children()
	for i, child := range children {
		switch child.Kind() {
		case syntax.KindMarkupAttributeBlock, syntax.KindMarkupMinimizedAttributeBlock:
			children[i] = rw.attribute(child, offset, binding, tagName, seen, sc)
		default:
			children[i] = rw.node(child, offset, sc)
		}
		offset += child.Width()
	}
	return tag.WithKind(syntax.KindMarkupTagHelperStartTag).WithChildren(children...)
}

// attribute rewrites a bound attribute and reports value problems on it.
// Unbound attributes stay plain markup.
func (rw *tagRewriter) attribute(
	attr *syntax.Node, offset int, binding *taghelper.Binding, tagName string, seen map[string]bool, sc scope,
) *syntax.Node {
	ann := attr.Annotations()
	bound, _, ok := binding.BoundAttribute(ann.Name)
	if !ok {
		return rw.node(attr, offset, sc)
	}

	nameSpan := rw.doc.Span(offset+attributeNameOffset(attr), len(ann.Name))
	var diags []diagnostic.Diagnostic

	key := strings.ToLower(ann.Name)
	if seen[key] {
		diags = append(diags, diagnostic.TagHelperDuplicateAttribute.New(nameSpan, ann.Name, tagName))
	}
	seen[key] = true

	minimized := attr.Kind() == syntax.KindMarkupMinimizedAttributeBlock
	switch {
	case minimized && bound.IsBoolean():
		if !rw.flags.AllowMinimizedBooleanTagHelperAttributes {
			diags = append(diags, diagnostic.TagHelperMinimizedBooleanAttribute.New(nameSpan, ann.Name, tagName))
		}
	case minimized, !bound.IsStringProperty() && strings.TrimSpace(attributeValue(attr)) == "":
		diags = append(diags, diagnostic.TagHelperAttributeRequiresValue.New(nameSpan, ann.Name, tagName, bound.TypeName))
	}

	ann.BoundAttribute = bound
	return rw.node(attr, offset, sc).
		WithKind(syntax.KindMarkupTagHelperAttribute).
		WithAnnotations(ann).
		WithDiagnostics(diags...)
}

func (rw *tagRewriter) childAllowed(allowed []string, name string) bool {
	prefix := rw.binder.Prefix()
	if len(name) > len(prefix) && strings.EqualFold(name[:len(prefix)], prefix) {
		name = name[len(prefix):]
	}
	for _, tag := range allowed {
		if strings.EqualFold(tag, name) {
			return true
		}
	}
	return false
}

// structureOwner returns the first descriptor that demands a tag structure.
func structureOwner(binding *taghelper.Binding) *taghelper.Descriptor {
	for _, desc := range binding.Descriptors {
		for _, rule := range binding.Rules[desc] {
			if rule.TagStructure != taghelper.TagStructureUnspecified {
				return desc
			}
		}
	}
	return binding.Descriptors[0]
}

// startTagAttributes reads the attributes written on a start tag.
func startTagAttributes(tag *syntax.Node) []taghelper.Attribute {
	var attrs []taghelper.Attribute
	for _, child := range tag.Children() {
		switch child.Kind() {
		case syntax.KindMarkupAttributeBlock, syntax.KindMarkupMinimizedAttributeBlock:
			attrs = append(attrs, taghelper.Attribute{Name: child.Annotations().Name, Value: attributeValue(child)})
		}
	}
	return attrs
}

// attributeValue returns the text between an attribute's quotes.
func attributeValue(attr *syntax.Node) string {
	for _, child := range attr.Children() {
		if child.Kind() == syntax.KindMarkupBlock {
			return child.Text()
		}
	}
	return ""
}

// attributeNameOffset returns the offset of the attribute name within attr,
// past any leading whitespace.
func attributeNameOffset(attr *syntax.Node) int {
	name := attr.Annotations().Name
	offset := 0
	for _, child := range attr.Children() {
		if child.Text() == name {
			return offset
		}
		offset += child.Width()
	}
	return 0
}

// flattenComment turns a comment block into plain text.
func flattenComment(comment *syntax.Node) *syntax.Node {
	var leaves []*syntax.Node
	for _, tok := range syntax.Tokens(comment) {
		leaves = append(leaves, syntax.NewTokenNode(tok))
	}
	return syntax.NewNode(syntax.KindMarkupTextLiteral, leaves...).
		WithSpanKind(syntax.SpanMarkup).
		WithDiagnostics(comment.Diagnostics()...)
}
