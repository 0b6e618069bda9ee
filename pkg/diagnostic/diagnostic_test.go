package diagnostic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/razorparse/pkg/diagnostic"
	"github.com/yaklabco/razorparse/pkg/source"
)

func TestDescriptor_New(t *testing.T) {
	t.Parallel()

	doc := source.NewDocumentString("Index.cshtml", "@functions{")
	diag := diagnostic.UnterminatedBlock.New(doc.Span(10, 1), "functions", "}", "}", "{", "}")

	assert.Equal(t, "RZ1006", diag.ID)
	assert.True(t, diag.IsError())
	assert.Contains(t, diag.Message, `The functions block is missing a closing "}" character`)
	assert.Equal(t, "Index.cshtml(1,11): Error RZ1006: "+diag.Message, diag.Error())
}

func TestSorted(t *testing.T) {
	t.Parallel()

	doc := source.NewDocumentString("a.cshtml", "0123456789")
	late := diagnostic.DuplicateDirective.New(doc.Span(8, 1), "page")
	early := diagnostic.TrailingDotInImplicitExpression.New(doc.Span(2, 1))

	sorted := diagnostic.Sorted([]diagnostic.Diagnostic{late, early, late})

	assert.Equal(t, []diagnostic.Diagnostic{early, late}, sorted)
	assert.True(t, diagnostic.HasErrors(sorted))
	assert.False(t, diagnostic.HasErrors([]diagnostic.Diagnostic{early}))
}

func TestBag(t *testing.T) {
	t.Parallel()

	var bag diagnostic.Bag
	bag.Add(diagnostic.UnexpectedEndOfFileAtStartOfCodeBlock.New(source.Undefined))
	mark := bag.Len()
	bag.Add(diagnostic.UnterminatedRazorComment.New(source.Undefined))

	assert.Equal(t, 2, bag.Len())
	assert.Len(t, bag.Since(mark), 1)
	assert.Equal(t, "RZ1003", bag.Since(mark)[0].ID)
	assert.Empty(t, bag.Since(5))
}
