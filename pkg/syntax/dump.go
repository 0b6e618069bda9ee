package syntax

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Dump writes an indented debug rendering of root to w. Interior nodes are
// written as "Kind [start..end)"; tokens add their kind and quoted content.
func Dump(w io.Writer, root *Node) error {
	buf := bufio.NewWriter(w)

	err := WalkWithContext(root, func(path []Cursor) error {
		cur := path[len(path)-1]
		buf.WriteString(strings.Repeat("  ", len(path)-1))
		fmt.Fprintf(buf, "%s [%d..%d)", cur.Node.kind, cur.Offset, cur.End())

		if cur.Node.IsToken() {
			fmt.Fprintf(buf, " %s %s", cur.Node.token.Kind, strconv.Quote(cur.Node.token.Content))
		} else {
			writeAnnotations(buf, cur.Node.annotations)
		}
		for _, diag := range cur.Node.diagnostics {
			fmt.Fprintf(buf, " !%s", diag.ID)
		}
		buf.WriteByte('\n')
		return nil
	}, nil)
	if err != nil {
		return err
	}

	return buf.Flush()
}

func writeAnnotations(buf *bufio.Writer, ann Annotations) {
	if ann.SpanKind != SpanNone {
		fmt.Fprintf(buf, " span=%s", ann.SpanKind)
	}
	if ann.Name != "" {
		fmt.Fprintf(buf, " name=%s", ann.Name)
	}
	if ann.Directive != nil {
		fmt.Fprintf(buf, " directive=%s", ann.Directive.Directive)
	}
	if ann.DirectiveToken != nil {
		fmt.Fprintf(buf, " token=%s", ann.DirectiveToken.Kind)
	}
	if ann.Binding != nil {
		names := make([]string, 0, len(ann.Binding.Descriptors))
		for _, desc := range ann.Binding.Descriptors {
			names = append(names, desc.Name)
		}
		fmt.Fprintf(buf, " taghelpers=%s mode=%s", strings.Join(names, ","), ann.TagMode)
	}
	if ann.BoundAttribute != nil {
		fmt.Fprintf(buf, " bound=%s", ann.BoundAttribute.PropertyName)
	}
	if ann.Unconditional {
		buf.WriteString(" unconditional")
	}
	if ann.Transition {
		buf.WriteString(" transition")
	}
	if ann.OptOut {
		buf.WriteString(" optout")
	}
}

// DumpString returns the Dump rendering of root.
func DumpString(root *Node) string {
	var sb strings.Builder
	//nolint:errcheck // strings.Builder never fails
	Dump(&sb, root)
	return sb.String()
}
