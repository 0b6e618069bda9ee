package directive

// Well-known directives. Each is built once; descriptors are immutable so
// the same value may be shared by any number of sets.
//
//nolint:gochecknoglobals // Immutable descriptor catalogue.
var (
	Page = NewBuilder("page", SingleLine).
		WithOccurrence(FileScopedSinglyOccurring).
		WithDescription("@page", "Mark the page as a routable endpoint.").
		AddOptionalStringToken("RouteTemplate", "An optional route template for the page.").
		MustBuild()

	ComponentPage = NewBuilder("page", SingleLine).
		WithOccurrence(FileScopedMultipleOccurring).
		WithDescription("@page", "Mark the component as a routable page.").
		AddStringToken("route template", "The route template for the component.").
		MustBuild()

	Model = NewBuilder("model", SingleLine).
		WithOccurrence(FileScopedSinglyOccurring).
		WithDescription("@model", "Specify the view or page model for the page.").
		AddTypeToken("TypeName", "The model type.").
		MustBuild()

	Inject = NewBuilder("inject", SingleLine).
		WithOccurrence(MultipleOccurring).
		WithDescription("@inject", "Inject a service from the application's service container into a property.").
		AddTypeToken("TypeName", "The type of the service to inject.").
		AddMemberToken("PropertyName", "The name of the property.").
		MustBuild()

	Inherits = NewBuilder("inherits", SingleLine).
		WithOccurrence(FileScopedSinglyOccurring).
		WithDescription("@inherits", "Specify the base class for the current document.").
		AddTypeToken("TypeName", "The base class that the current page inherits.").
		MustBuild()

	Implements = NewBuilder("implements", SingleLine).
		WithOccurrence(MultipleOccurring).
		WithDescription("@implements", "Declare an interface implementation for the current document.").
		AddTypeToken("TypeName", "The interface type implemented by the current document.").
		MustBuild()

	Layout = NewBuilder("layout", SingleLine).
		WithOccurrence(FileScopedSinglyOccurring).
		WithDescription("@layout", "Declare a layout type for the current document.").
		AddTypeToken("TypeName", "The layout type.").
		MustBuild()

	Namespace = NewBuilder("namespace", SingleLine).
		WithOccurrence(FileScopedSinglyOccurring).
		WithDescription("@namespace", "Specify the base namespace for the document.").
		AddNamespaceToken("Namespace", "The namespace for the document.").
		MustBuild()

	Functions = NewBuilder("functions", CodeBlock).
		WithOccurrence(MultipleOccurring).
		WithDescription("@functions", "Specify a C# code block.").
		MustBuild()

	Code = NewBuilder("code", CodeBlock).
		WithOccurrence(MultipleOccurring).
		WithDescription("@code", "Specify a C# code block.").
		MustBuild()

	Section = NewBuilder("section", RazorBlock).
		WithOccurrence(MultipleOccurring).
		WithDescription("@section", "Define a section to be rendered in the configured layout page.").
		AddMemberToken("SectionName", "The name of the section.").
		MustBuild()

	Attribute = NewBuilder("attribute", SingleLine).
		WithOccurrence(MultipleOccurring).
		WithDescription("@attribute", "Specify a C# attribute.").
		AddAttributeToken("Attribute", "The C# attribute to add to the generated class.").
		MustBuild()

	TypeParam = NewBuilder("typeparam", SingleLine).
		WithOccurrence(MultipleOccurring).
		WithDescription("@typeparam", "Declare a generic type parameter for the generated component class.").
		AddMemberToken("type parameter", "The name of the type parameter.").
		AddOptionalGenericTypeConstraintToken("type parameter constraint", "The constraints on the type parameter.").
		MustBuild()

	PreserveWhitespace = NewBuilder("preservewhitespace", SingleLine).
		WithOccurrence(FileScopedSinglyOccurring).
		WithDescription("@preservewhitespace", "Specify whether whitespace in the component is preserved.").
		AddBooleanToken("Preserve", "True to preserve whitespace; otherwise false.").
		MustBuild()

	RenderMode = NewBuilder("rendermode", SingleLine).
		WithOccurrence(FileScopedSinglyOccurring).
		WithDescription("@rendermode", "Specify the render mode for the component.").
		AddMemberToken("RenderMode", "The render mode for the component.").
		MustBuild()

	AddTagHelper = NewBuilder("addTagHelper", SingleLine).
		WithOccurrence(MultipleOccurring).
		WithDescription("@addTagHelper", "Register tag helpers from an assembly.").
		AddStringToken("LookupText", "The tag helper type pattern and assembly name.").
		MustBuild()

	RemoveTagHelper = NewBuilder("removeTagHelper", SingleLine).
		WithOccurrence(MultipleOccurring).
		WithDescription("@removeTagHelper", "Remove previously registered tag helpers.").
		AddStringToken("LookupText", "The tag helper type pattern and assembly name.").
		MustBuild()

	TagHelperPrefix = NewBuilder("tagHelperPrefix", SingleLine).
		WithOccurrence(FileScopedSinglyOccurring).
		WithDescription("@tagHelperPrefix", "Specify a prefix required in an element name for it to be a tag helper.").
		AddStringToken("Prefix", "The tag prefix.").
		MustBuild()

	// Using is never registered in a set: "using" is a C# keyword and the
	// parser decides between the statement and the directive by lookahead.
	Using = NewBuilder("using", SingleLine).
		WithOccurrence(MultipleOccurring).
		WithDescription("@using", "Import a namespace into the generated code.").
		AddNamespaceToken("Namespace", "The namespace to import.").
		MustBuild()
)

// LegacyDefaults returns the directives of .cshtml documents.
func LegacyDefaults() *Set {
	return MustNewSet(
		Page, Model, Inject, Inherits, Namespace, Functions, Section, Attribute,
		AddTagHelper, RemoveTagHelper, TagHelperPrefix,
	)
}

// ComponentDefaults returns the directives of .razor components.
func ComponentDefaults() *Set {
	return MustNewSet(
		ComponentPage, Inject, Inherits, Implements, Layout, Namespace, Code, Functions,
		Attribute, TypeParam, PreserveWhitespace, RenderMode,
	)
}
