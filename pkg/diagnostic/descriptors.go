package diagnostic

import (
	"fmt"

	"github.com/yaklabco/razorparse/pkg/source"
)

// Descriptor is a diagnostic template: a stable ID, a severity and a
// fmt-style message format.
type Descriptor struct {
	ID       string
	Severity Severity
	Format   string
}

// New creates a diagnostic for span with args substituted into the format.
func (d Descriptor) New(span source.Span, args ...any) Diagnostic {
	return Diagnostic{
		ID:       d.ID,
		Severity: d.Severity,
		Message:  fmt.Sprintf(d.Format, args...),
		Span:     span,
	}
}

func errorDescriptor(id, format string) Descriptor {
	return Descriptor{ID: id, Severity: SeverityError, Format: format}
}

func warningDescriptor(id, format string) Descriptor {
	return Descriptor{ID: id, Severity: SeverityWarning, Format: format}
}

// Lexical diagnostics.
//
//nolint:gochecknoglobals // Immutable descriptor catalogue.
var (
	UnterminatedStringLiteral = errorDescriptor("RZ1000",
		`Unterminated string literal. Strings that start with a quotation mark (") must be terminated `+
			`before the end of the line. However, strings that start with @ and a quotation mark (@") can span multiple lines.`)
	UnterminatedBlockComment = errorDescriptor("RZ1001",
		`End of file was reached before the end of the block comment. All comments started with "/*" `+
			`sequence must be terminated with a matching "*/" sequence.`)
	UnterminatedCharacterLiteral = errorDescriptor("RZ1002",
		`Unterminated character literal. Character literals must be terminated with a single quote (').`)
	UnterminatedRazorComment = errorDescriptor("RZ1003",
		`End of file was reached before the end of the Razor comment. Comments that start with "@*" `+
			`must be terminated with "*@".`)
	UnterminatedHTMLComment = errorDescriptor("RZ1004",
		`End of file was reached before the end of the HTML comment. Comments that start with "<!--" `+
			`must be terminated with "-->".`)
)

// Block structure diagnostics.
//
//nolint:gochecknoglobals // Immutable descriptor catalogue.
var (
	UnexpectedCharacterAtStartOfCodeBlock = errorDescriptor("RZ1005",
		`"%s" is not valid at the start of a code block. Only identifiers, keywords, comments, "(" and "{" are valid.`)
	UnterminatedBlock = errorDescriptor("RZ1006",
		`The %s block is missing a closing "%s" character. Make sure you have a matching "%s" character `+
			`for all the "%s" characters within this block, and that none of the "%s" characters are being interpreted as markup.`)
	UnexpectedWhitespaceAtStartOfCodeBlock = errorDescriptor("RZ1007",
		`A space or line break was encountered after the "@" character. Only valid identifiers, keywords, `+
			`comments, "(" and "{" are valid at the start of a code block and they must occur immediately following "@" with no space in between.`)
	UnexpectedEndOfFileAtStartOfCodeBlock = errorDescriptor("RZ1008",
		`End-of-file was found after the "@" character. "@" must be followed by a valid code block. `+
			`If you want to output an "@", escape it using the sequence: "@@"`)
	ReservedWordInImplicitExpression = errorDescriptor("RZ1009",
		`"%s" is a reserved word and cannot be used in implicit expressions. An explicit expression ("@()") must be used.`)
	UnexpectedNestedCodeBlock = errorDescriptor("RZ1010",
		`Unexpected "{" after "@" character. Once inside the body of a code block (@if {}, @{}, etc.) `+
			`you do not need to use "@{" to switch to code.`)
	MissingEndTag = errorDescriptor("RZ1011",
		`The "%s" element was not closed. All elements must be either self-closing or have a matching end tag.`)
	UnexpectedEndTag = errorDescriptor("RZ1012",
		`Encountered end tag "%s" with no matching start tag. Are your start/end tags properly balanced?`)
	UnfinishedTag = errorDescriptor("RZ1013",
		`End of file or an unexpected character was reached before the "%s" tag could be parsed. `+
			`Elements inside markup blocks must be complete. They must either be self-closing ("<br />") `+
			`or have matching end tags ("<p>Hello</p>"). If you intended to display a "<" character, use the "&lt;" HTML entity.`)
	TextTagCannotContainAttributes = errorDescriptor("RZ1014",
		`"<text>" and "</text>" tags cannot contain attributes.`)
	ExpectedWhileAfterDo = errorDescriptor("RZ1015",
		`Expected a "while" clause after the "do" block.`)
	SingleLineMarkupAtEndOfFile = warningDescriptor("RZ1016",
		`End of file was reached inside the "@:" single-line markup; a line break was expected.`)
	TrailingDotInImplicitExpression = warningDescriptor("RZ1017",
		`The implicit expression ends with an incomplete member access ".".`)
	ComponentFileKindNotSupported = errorDescriptor("RZ1018",
		`Component files require Razor language version 3.0 or later; the configured version is %s.`)
)

// Directive diagnostics.
//
//nolint:gochecknoglobals // Immutable descriptor catalogue.
var (
	DirectiveExpectsToken = errorDescriptor("RZ2000",
		`The '%s' directive expects %s.`)
	UnexpectedDirectiveLiteral = errorDescriptor("RZ2001",
		`Unexpected literal following the '%s' directive. Expected '%s'.`)
	DirectiveTokensMustBeSeparatedByWhitespace = errorDescriptor("RZ2002",
		`The '%s' directive tokens must be separated by space.`)
	UnexpectedEndOfFileAfterDirective = errorDescriptor("RZ2003",
		`Unexpected end of file following the '%s' directive. Expected '%s'.`)
	DuplicateDirective = errorDescriptor("RZ2004",
		`The '%s' directive may only occur once per document.`)
	DirectiveMustAppearAtStartOfLine = errorDescriptor("RZ2005",
		`The '%s' directive must appear at the start of the line.`)
	DirectiveMustBeAtTopLevel = errorDescriptor("RZ2006",
		`The '%s' directive must appear at the top level of the document and cannot be nested in code or markup blocks.`)
	DirectiveTokenExpectsSpace = warningDescriptor("RZ2007",
		`The '%s' directive has a trailing optional token that was not separated by space.`)
)

// Tag helper diagnostics.
//
//nolint:gochecknoglobals // Immutable descriptor catalogue.
var (
	TagHelperMustNotHaveEndTag = errorDescriptor("RZ3000",
		`Found an end tag (</%s>) for tag helper '%s' with tag structure that disallows an end tag ('WithoutEndTag').`)
	TagHelperMissingCloseTag = errorDescriptor("RZ3001",
		`Found a malformed '%s' tag helper. Tag helpers must have a start and end tag or be self closing.`)
	TagHelperAttributeRequiresValue = errorDescriptor("RZ3002",
		`Attribute '%s' on tag helper element '%s' requires a value. Tag helper bound attributes of type '%s' `+
			`cannot be empty or contain only whitespace.`)
	TagHelperMinimizedBooleanAttribute = errorDescriptor("RZ3003",
		`Minimized attribute '%s' on tag helper element '%s' requires Razor language version 2.1 or later.`)
	TagHelperInconsistentTagStructure = errorDescriptor("RZ3004",
		`Tag helpers '%s' and '%s' targeting element '%s' must not expect different TagStructure values.`)
	TagHelperChildNotAllowed = errorDescriptor("RZ3005",
		`The <%s> tag is not allowed by parent <%s> tag helper. Only child tags with name(s) '%s' are allowed.`)
	TagHelperDuplicateAttribute = warningDescriptor("RZ3006",
		`The tag helper attribute '%s' on element '%s' is specified more than once; the last value wins.`)
)
