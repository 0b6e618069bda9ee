package engine_test

import (
	"context"
	"strings"
	"testing"

	"github.com/yaklabco/razorparse/pkg/engine"
	"github.com/yaklabco/razorparse/pkg/source"
)

const benchView = `@model App.Catalog
@{
    ViewData["Title"] = "Catalog";
}
<h1>@ViewData["Title"]</h1>
<ul class="items">
@foreach (var item in Model.Items) {
    <li class="@(item.Active ? "on" : "off")">
        <a asp-page="/Item" asp-route-id="@item.Id">@item.Name</a>
        @if (item.Price > 0) {
            <span>@item.Price.ToString("C")</span>
        } else {
            <text>free</text>
        }
    </li>
}
</ul>
@section Scripts {
    <script src="~/js/catalog.js"></script>
}
`

func BenchmarkProcess(b *testing.B) {
	eng := engine.New(testBinder(b))
	input := strings.Repeat(benchView, 20)
	ctx := context.Background()

	b.SetBytes(int64(len(input)))
	b.ReportAllocs()
	for b.Loop() {
		if _, err := eng.Process(ctx, source.NewDocumentString("Catalog.cshtml", input)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkReparse(b *testing.B) {
	eng := engine.New(nil)
	ctx := context.Background()
	prev, err := eng.Process(ctx, source.NewDocumentString("Catalog.cshtml", benchView))
	if err != nil {
		b.Fatal(err)
	}
	at := strings.Index(benchView, "Catalog\";")

	b.ReportAllocs()
	for b.Loop() {
		if _, err := eng.Reparse(ctx, prev, source.NewChange(at, at+7, "Products")); err != nil {
			b.Fatal(err)
		}
	}
}
