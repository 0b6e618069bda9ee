package syntax

import "strconv"

// NodeKind identifies the shape of a syntax node. The set is closed; passes
// switch over every kind and panic on an unknown one.
type NodeKind uint16

// Node kinds.
const (
	KindToken NodeKind = iota

	KindRazorDocument

	// Markup.
	KindMarkupBlock
	KindMarkupTextLiteral
	KindMarkupEphemeralTextLiteral
	KindMarkupCommentBlock
	KindMarkupElement
	KindMarkupStartTag
	KindMarkupEndTag
	KindMarkupAttributeBlock
	KindMarkupMinimizedAttributeBlock
	KindMarkupLiteralAttributeValue
	KindMarkupDynamicAttributeValue
	KindMarkupTransition

	// Tag helpers.
	KindMarkupTagHelperElement
	KindMarkupTagHelperStartTag
	KindMarkupTagHelperEndTag
	KindMarkupTagHelperAttribute

	// C#.
	KindCSharpCodeBlock
	KindCSharpTransition
	KindCSharpStatement
	KindCSharpStatementBody
	KindCSharpStatementLiteral
	KindCSharpExplicitExpression
	KindCSharpExplicitExpressionBody
	KindCSharpImplicitExpression
	KindCSharpImplicitExpressionBody
	KindCSharpExpressionLiteral
	KindCSharpEphemeralTextLiteral
	KindCSharpTemplateBlock

	// Razor.
	KindRazorDirective
	KindRazorDirectiveBody
	KindRazorMetaCode
	KindRazorComment

	nodeKindCount
)

//nolint:gochecknoglobals // Read-only lookup table.
var nodeKindNames = [...]string{
	KindToken:                         "Token",
	KindRazorDocument:                 "RazorDocument",
	KindMarkupBlock:                   "MarkupBlock",
	KindMarkupTextLiteral:             "MarkupTextLiteral",
	KindMarkupEphemeralTextLiteral:    "MarkupEphemeralTextLiteral",
	KindMarkupCommentBlock:            "MarkupCommentBlock",
	KindMarkupElement:                 "MarkupElement",
	KindMarkupStartTag:                "MarkupStartTag",
	KindMarkupEndTag:                  "MarkupEndTag",
	KindMarkupAttributeBlock:          "MarkupAttributeBlock",
	KindMarkupMinimizedAttributeBlock: "MarkupMinimizedAttributeBlock",
	KindMarkupLiteralAttributeValue:   "MarkupLiteralAttributeValue",
	KindMarkupDynamicAttributeValue:   "MarkupDynamicAttributeValue",
	KindMarkupTransition:              "MarkupTransition",
	KindMarkupTagHelperElement:        "MarkupTagHelperElement",
	KindMarkupTagHelperStartTag:       "MarkupTagHelperStartTag",
	KindMarkupTagHelperEndTag:         "MarkupTagHelperEndTag",
	KindMarkupTagHelperAttribute:      "MarkupTagHelperAttribute",
	KindCSharpCodeBlock:               "CSharpCodeBlock",
	KindCSharpTransition:              "CSharpTransition",
	KindCSharpStatement:               "CSharpStatement",
	KindCSharpStatementBody:           "CSharpStatementBody",
	KindCSharpStatementLiteral:        "CSharpStatementLiteral",
	KindCSharpExplicitExpression:      "CSharpExplicitExpression",
	KindCSharpExplicitExpressionBody:  "CSharpExplicitExpressionBody",
	KindCSharpImplicitExpression:      "CSharpImplicitExpression",
	KindCSharpImplicitExpressionBody:  "CSharpImplicitExpressionBody",
	KindCSharpExpressionLiteral:       "CSharpExpressionLiteral",
	KindCSharpEphemeralTextLiteral:    "CSharpEphemeralTextLiteral",
	KindCSharpTemplateBlock:           "CSharpTemplateBlock",
	KindRazorDirective:                "RazorDirective",
	KindRazorDirectiveBody:            "RazorDirectiveBody",
	KindRazorMetaCode:                 "RazorMetaCode",
	KindRazorComment:                  "RazorComment",
}

func (k NodeKind) String() string {
	if k < nodeKindCount {
		return nodeKindNames[k]
	}
	return "NodeKind(" + strconv.Itoa(int(k)) + ")"
}

// IsToken reports whether the kind is a token leaf.
func (k NodeKind) IsToken() bool {
	return k == KindToken
}

// IsLiteral reports whether nodes of this kind hold only token children.
func (k NodeKind) IsLiteral() bool {
	switch k {
	case KindMarkupTextLiteral, KindMarkupEphemeralTextLiteral, KindMarkupLiteralAttributeValue,
		KindCSharpStatementLiteral, KindCSharpExpressionLiteral, KindCSharpEphemeralTextLiteral,
		KindRazorMetaCode, KindCSharpTransition, KindMarkupTransition:
		return true
	default:
		return false
	}
}

// IsMarkup reports whether the kind belongs to the markup family.
func (k NodeKind) IsMarkup() bool {
	return k >= KindMarkupBlock && k <= KindMarkupTagHelperAttribute
}

// IsCSharp reports whether the kind belongs to the C# family.
func (k NodeKind) IsCSharp() bool {
	return k >= KindCSharpCodeBlock && k <= KindCSharpTemplateBlock
}

// IsValid reports whether k is one of the declared kinds.
func (k NodeKind) IsValid() bool {
	return k < nodeKindCount
}
