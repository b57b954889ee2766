package schema

import "git.home.luguber.info/inful/docsite/internal/markup"

// Component names rendered by the default schema.
const (
	Callout       = "Callout"
	Card          = "Card"
	CodeBlock     = "CodeBlock"
	Heading       = "Heading"
	Link          = "Link"
	Image         = "Image"
	Table         = "Table"
	TableHead     = "TableHead"
	Row           = "Row"
	Cell          = "Cell"
	List          = "List"
	ListItem      = "ListItem"
	Paragraph     = "Paragraph"
	Blockquote    = "Blockquote"
	Divider       = "Divider"
	Emphasis      = "Emphasis"
	Strong        = "Strong"
	Strikethrough = "Strikethrough"
	Code          = "Code"
	HTML          = "HTML"
	Document      = "Document"
	LineBreak     = "LineBreak"
)

func str() Attribute { return Attribute{Type: markup.TypeString} }
func num() Attribute { return Attribute{Type: markup.TypeNumber} }

func required(a Attribute) Attribute {
	a.Required = true
	return a
}

func withDefault(a Attribute, v markup.Value) Attribute {
	a.Default = &v
	return a
}

func oneOf(a Attribute, values ...string) Attribute {
	for _, v := range values {
		a.Matches = append(a.Matches, markup.StringValue(v))
	}
	return a
}

func boolean(def bool) Attribute {
	return withDefault(Attribute{Type: markup.TypeBoolean}, markup.BoolValue(def))
}

func entry(component string, attrs map[string]Attribute) Entry {
	return Entry{Component: component, Attributes: attrs}
}

// Default returns the schema for the standard node set plus the callout and
// card tags.
func Default() *Schema {
	align := oneOf(str(), "left", "center", "right")

	return NewBuilder().
		Tag("callout", entry(Callout, map[string]Attribute{
			"type":  oneOf(withDefault(str(), markup.StringValue("info")), "info", "warning", "error", "success"),
			"title": str(),
		})).
		Tag("card", entry(Card, map[string]Attribute{
			"title": required(str()),
			"href":  str(),
			"icon":  str(),
		})).
		Node(markup.KindDocument, entry(Document, nil)).
		Node(markup.KindHeading, entry(Heading, map[string]Attribute{
			"level": required(num()),
			"id":    str(),
		})).
		Node(markup.KindParagraph, entry(Paragraph, nil)).
		Node(markup.KindHardBreak, entry(LineBreak, nil)).
		Node(markup.KindEmphasis, entry(Emphasis, nil)).
		Node(markup.KindStrong, entry(Strong, nil)).
		Node(markup.KindStrikethrough, entry(Strikethrough, nil)).
		Node(markup.KindCodeSpan, entry(Code, map[string]Attribute{
			"content": str(),
		})).
		Node(markup.KindFence, entry(CodeBlock, map[string]Attribute{
			"language": str(),
			"content":  str(),
		})).
		Node(markup.KindLink, entry(Link, map[string]Attribute{
			"href":  required(str()),
			"title": str(),
		})).
		Node(markup.KindImage, entry(Image, map[string]Attribute{
			"src":   required(str()),
			"alt":   withDefault(str(), markup.StringValue("")),
			"title": str(),
		})).
		Node(markup.KindList, entry(List, map[string]Attribute{
			"ordered": boolean(false),
			"start":   num(),
		})).
		Node(markup.KindItem, entry(ListItem, nil)).
		Node(markup.KindBlockquote, entry(Blockquote, nil)).
		Node(markup.KindHorizontalRule, entry(Divider, nil)).
		Node(markup.KindTable, entry(Table, nil)).
		Node(markup.KindTableHead, entry(TableHead, nil)).
		Node(markup.KindTableRow, entry(Row, nil)).
		Node(markup.KindTableCell, entry(Cell, map[string]Attribute{
			"align":  align,
			"header": boolean(false),
		})).
		Node(markup.KindHTML, entry(HTML, map[string]Attribute{
			"content": str(),
		})).
		Build()
}
