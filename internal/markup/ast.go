// Package markup parses documentation sources (CommonMark with GFM tables plus
// block-level `{% tag %}` extensions) into an immutable syntax tree.
package markup

import (
	"strconv"
)

// Kind discriminates AST nodes. The set is closed: custom tags are KindTag with a
// Name, and fragments that could not be interpreted are KindRaw.
type Kind int

const (
	KindDocument Kind = iota
	KindHeading
	KindParagraph
	KindText
	KindSoftBreak
	KindHardBreak
	KindEmphasis
	KindStrong
	KindStrikethrough
	KindCodeSpan
	KindFence
	KindLink
	KindImage
	KindList
	KindItem
	KindBlockquote
	KindHorizontalRule
	KindTable
	KindTableHead
	KindTableRow
	KindTableCell
	KindHTML
	KindTag
	KindRaw
)

var kindNames = [...]string{
	KindDocument:       "document",
	KindHeading:        "heading",
	KindParagraph:      "paragraph",
	KindText:           "text",
	KindSoftBreak:      "softbreak",
	KindHardBreak:      "hardbreak",
	KindEmphasis:       "em",
	KindStrong:         "strong",
	KindStrikethrough:  "s",
	KindCodeSpan:       "code",
	KindFence:          "fence",
	KindLink:           "link",
	KindImage:          "image",
	KindList:           "list",
	KindItem:           "item",
	KindBlockquote:     "blockquote",
	KindHorizontalRule: "hr",
	KindTable:          "table",
	KindTableHead:      "thead",
	KindTableRow:       "tr",
	KindTableCell:      "td",
	KindHTML:           "html",
	KindTag:            "tag",
	KindRaw:            "raw",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// KindByName resolves a node kind from its String form.
func KindByName(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}

// ValueType enumerates attribute value types.
type ValueType int

const (
	TypeString ValueType = iota
	TypeNumber
	TypeBoolean
)

func (t ValueType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeNumber:
		return "number"
	case TypeBoolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// Value is an attribute value. Values are comparable with ==.
type Value struct {
	Type ValueType
	Str  string
	Num  float64
	Bool bool
}

func StringValue(s string) Value  { return Value{Type: TypeString, Str: s} }
func NumberValue(n float64) Value { return Value{Type: TypeNumber, Num: n} }
func BoolValue(b bool) Value      { return Value{Type: TypeBoolean, Bool: b} }

// String formats the value the way it would be written in an attribute.
func (v Value) String() string {
	switch v.Type {
	case TypeNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case TypeBoolean:
		return strconv.FormatBool(v.Bool)
	default:
		return v.Str
	}
}

// Interface returns the value as a plain Go value (string, float64 or bool).
func (v Value) Interface() any {
	switch v.Type {
	case TypeNumber:
		return v.Num
	case TypeBoolean:
		return v.Bool
	default:
		return v.Str
	}
}

// Node is a single AST node. Nodes are created by the Parser and must not be
// modified afterwards.
type Node struct {
	Kind       Kind
	Name       string // tag name, KindTag only
	Attributes map[string]Value
	Children   []*Node
	Content    string // text, code, HTML or literal source
}

// FrontmatterAttribute is the root attribute holding the raw frontmatter block.
const FrontmatterAttribute = "frontmatter"

// Empty returns the sentinel produced for zero-length input.
func Empty() *Node {
	return &Node{Kind: KindDocument}
}

// IsEmpty reports whether n is an empty document.
func IsEmpty(n *Node) bool {
	return n != nil && n.Kind == KindDocument && len(n.Children) == 0 && len(n.Attributes) == 0
}

// Attr returns the named attribute.
func (n *Node) Attr(name string) (Value, bool) {
	v, ok := n.Attributes[name]
	return v, ok
}

// Equal reports whether two trees are structurally identical.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.Kind != o.Kind || n.Name != o.Name || n.Content != o.Content {
		return false
	}
	if len(n.Attributes) != len(o.Attributes) || len(n.Children) != len(o.Children) {
		return false
	}
	for k, v := range n.Attributes {
		if ov, ok := o.Attributes[k]; !ok || ov != v {
			return false
		}
	}
	for i := range n.Children {
		if !n.Children[i].Equal(o.Children[i]) {
			return false
		}
	}
	return true
}

// TextContent concatenates the text of n and its descendants.
func (n *Node) TextContent() string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case KindText, KindCodeSpan:
		return n.Content
	case KindSoftBreak, KindHardBreak:
		return " "
	}
	var out []byte
	for _, c := range n.Children {
		out = append(out, c.TextContent()...)
	}
	return string(out)
}
