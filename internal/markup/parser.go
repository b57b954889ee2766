package markup

import (
	"bytes"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	gtext "github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parser turns document source into a Node tree. A Parser holds no per-document
// state and is safe for concurrent use.
type Parser struct {
	extensions []goldmark.Extender
}

// NewParser returns a parser for CommonMark with GFM tables and strikethrough.
func NewParser() *Parser {
	return &Parser{extensions: []goldmark.Extender{extension.Table, extension.Strikethrough}}
}

// Parse converts src into a Document node.
//
// Zero-length input yields the Empty sentinel. Input that is not UTF-8 text is a
// parse error; every other input parses, with uninterpretable tag syntax kept as
// KindRaw nodes. A leading frontmatter block is stored verbatim on the root
// under FrontmatterAttribute and excluded from the children.
func (p *Parser) Parse(src []byte) (*Node, error) {
	if len(src) == 0 {
		return Empty(), nil
	}
	src = bytes.TrimPrefix(src, utf8BOM)
	if err := checkText(src); err != nil {
		return nil, err
	}

	root := &Node{Kind: KindDocument}
	fm, body, had, err := splitFrontmatter(src)
	if err != nil {
		body = src
	} else if had {
		root.Attributes = map[string]Value{FrontmatterAttribute: StringValue(string(fm))}
	}

	slugs := newSlugger()
	root.Children = p.parseBlocks(splitLines(string(body)), slugs)
	return root, nil
}

func checkText(src []byte) error {
	if i := bytes.IndexByte(src, 0); i >= 0 {
		return errors.ParseError("document contains a NUL byte").
			WithContext("offset", i).
			Build()
	}
	if !utf8.Valid(src) {
		return errors.ParseError("document is not valid UTF-8").Build()
	}
	return nil
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.SplitAfter(s, "\n")
}

// parseBlocks separates tag lines from Markdown runs and parses each run.
func (p *Parser) parseBlocks(lines []string, slugs *slugger) []*Node {
	var (
		out   []*Node
		chunk []string
		fence string
	)
	flush := func() {
		if len(chunk) > 0 {
			out = appendNodes(out, p.parseMarkdown(strings.Join(chunk, ""), slugs))
			chunk = nil
		}
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		if fence != "" {
			chunk = append(chunk, line)
			if fenceCloses(trimmed, fence) {
				fence = ""
			}
			continue
		}
		if f := fenceOpen(trimmed); f != "" && !isIndentedCode(line) {
			fence = f
			chunk = append(chunk, line)
			continue
		}

		tok, ok := parseTagLine(trimmed)
		if !ok || isIndentedCode(line) {
			chunk = append(chunk, line)
			continue
		}
		flush()

		switch {
		case tok.closing:
			out = append(out, rawNode(line))
		case tok.selfClosing:
			attrs, err := parseAttributes(tok.attrs)
			if err != nil {
				out = append(out, rawNode(line))
				continue
			}
			out = append(out, &Node{Kind: KindTag, Name: tok.name, Attributes: attrs})
		default:
			end := findClose(lines, i+1, tok.name)
			if end < 0 {
				out = append(out, rawNode(line))
				continue
			}
			attrs, err := parseAttributes(tok.attrs)
			if err != nil {
				out = append(out, rawNode(strings.Join(lines[i:end+1], "")))
				i = end
				continue
			}
			out = append(out, &Node{
				Kind:       KindTag,
				Name:       tok.name,
				Attributes: attrs,
				Children:   p.parseBlocks(lines[i+1:end], slugs),
			})
			i = end
		}
	}
	flush()
	return out
}

func (p *Parser) parseMarkdown(src string, slugs *slugger) []*Node {
	source := []byte(src)
	md := goldmark.New(goldmark.WithExtensions(p.extensions...))
	doc := md.Parser().Parse(gtext.NewReader(source))

	c := &converter{src: source, slugs: slugs}
	return c.children(doc)
}

type converter struct {
	src   []byte
	slugs *slugger
}

func (c *converter) children(n gmast.Node) []*Node {
	return c.siblings(n.FirstChild(), nil)
}

// siblings converts the nodes from first up to, not including, stop.
func (c *converter) siblings(first, stop gmast.Node) []*Node {
	var out []*Node
	for ch := first; ch != nil && ch != stop; ch = ch.NextSibling() {
		if raw, ok := ch.(*gmast.RawHTML); ok {
			if node, end := c.inlineElement(raw, stop); node != nil {
				out = append(out, node)
				ch = end
				continue
			}
		}
		out = c.appendNode(out, ch)
	}
	return out
}

// inlineElement pairs an inline opening tag with its closing tag among the
// following siblings. The result holds both tags as Content and the nodes
// between them as Children; end is the closing tag's node.
func (c *converter) inlineElement(open *gmast.RawHTML, stop gmast.Node) (node *Node, end gmast.Node) {
	openTag := c.rawHTML(open)
	name, ok := openingTagName(openTag)
	if !ok {
		return nil, nil
	}
	depth := 0
	for sib := open.NextSibling(); sib != nil && sib != stop; sib = sib.NextSibling() {
		raw, ok := sib.(*gmast.RawHTML)
		if !ok {
			continue
		}
		tag := c.rawHTML(raw)
		if n, ok := openingTagName(tag); ok && n == name {
			depth++
			continue
		}
		if closingTagName(tag) != name {
			continue
		}
		if depth > 0 {
			depth--
			continue
		}
		return &Node{
			Kind:     KindHTML,
			Content:  openTag + tag,
			Children: c.siblings(open.NextSibling(), sib),
		}, sib
	}
	return nil, nil
}

func (c *converter) rawHTML(v *gmast.RawHTML) string {
	var b strings.Builder
	for i := 0; i < v.Segments.Len(); i++ {
		seg := v.Segments.At(i)
		b.Write(seg.Value(c.src))
	}
	return b.String()
}

func (c *converter) appendNode(out []*Node, n gmast.Node) []*Node {
	switch v := n.(type) {
	case *gmast.TextBlock:
		return appendNodes(out, c.children(v))
	case *gmast.Text:
		seg := v.Segment.Value(c.src)
		if !v.IsRaw() {
			seg = unescape(seg)
		}
		out = appendText(out, string(seg))
		if v.HardLineBreak() {
			out = append(out, &Node{Kind: KindHardBreak})
		} else if v.SoftLineBreak() {
			out = append(out, &Node{Kind: KindSoftBreak})
		}
		return out
	case *gmast.String:
		if v.IsCode() {
			return appendText(out, string(v.Value))
		}
		return appendText(out, string(unescape(v.Value)))
	case *gmast.Heading:
		children := c.children(v)
		id := c.slugs.slug(textOf(children))
		return append(out, &Node{
			Kind: KindHeading,
			Attributes: map[string]Value{
				"level": NumberValue(float64(v.Level)),
				"id":    StringValue(id),
			},
			Children: children,
		})
	case *gmast.Paragraph:
		return append(out, &Node{Kind: KindParagraph, Children: c.children(v)})
	case *gmast.Emphasis:
		kind := KindEmphasis
		if v.Level >= 2 {
			kind = KindStrong
		}
		return append(out, &Node{Kind: kind, Children: c.children(v)})
	case *east.Strikethrough:
		return append(out, &Node{Kind: KindStrikethrough, Children: c.children(v)})
	case *gmast.CodeSpan:
		var b strings.Builder
		for ch := v.FirstChild(); ch != nil; ch = ch.NextSibling() {
			switch t := ch.(type) {
			case *gmast.Text:
				b.Write(t.Segment.Value(c.src))
			case *gmast.String:
				b.Write(t.Value)
			}
		}
		return append(out, &Node{Kind: KindCodeSpan, Content: b.String()})
	case *gmast.FencedCodeBlock:
		node := &Node{Kind: KindFence, Content: c.lines(v.Lines())}
		if lang := string(v.Language(c.src)); lang != "" {
			node.Attributes = map[string]Value{"language": StringValue(lang)}
		}
		return append(out, node)
	case *gmast.CodeBlock:
		return append(out, &Node{Kind: KindFence, Content: c.lines(v.Lines())})
	case *gmast.Link:
		return append(out, linkNode(KindLink, string(unescape(v.Destination)), string(unescape(v.Title)), c.children(v)))
	case *gmast.AutoLink:
		label := string(v.Label(c.src))
		url := string(v.URL(c.src))
		return append(out, linkNode(KindLink, url, "", []*Node{{Kind: KindText, Content: label}}))
	case *gmast.Image:
		node := &Node{Kind: KindImage, Attributes: map[string]Value{
			"src": StringValue(string(unescape(v.Destination))),
			"alt": StringValue(textOf(c.children(v))),
		}}
		if len(v.Title) > 0 {
			node.Attributes["title"] = StringValue(string(unescape(v.Title)))
		}
		return append(out, node)
	case *gmast.List:
		attrs := map[string]Value{"ordered": BoolValue(v.IsOrdered())}
		if v.IsOrdered() && v.Start != 1 {
			attrs["start"] = NumberValue(float64(v.Start))
		}
		return append(out, &Node{Kind: KindList, Attributes: attrs, Children: c.children(v)})
	case *gmast.ListItem:
		return append(out, &Node{Kind: KindItem, Children: c.children(v)})
	case *gmast.Blockquote:
		return append(out, &Node{Kind: KindBlockquote, Children: c.children(v)})
	case *gmast.ThematicBreak:
		return append(out, &Node{Kind: KindHorizontalRule})
	case *gmast.HTMLBlock:
		content := c.lines(v.Lines())
		if v.HasClosure() {
			content += string(v.ClosureLine.Value(c.src))
		}
		return append(out, &Node{Kind: KindHTML, Content: strings.TrimRight(content, "\n")})
	case *gmast.RawHTML:
		return append(out, &Node{Kind: KindHTML, Content: c.rawHTML(v)})
	case *east.Table:
		return append(out, &Node{Kind: KindTable, Children: c.children(v)})
	case *east.TableHeader:
		row := &Node{Kind: KindTableRow, Children: c.cells(v, true)}
		return append(out, &Node{Kind: KindTableHead, Children: []*Node{row}})
	case *east.TableRow:
		return append(out, &Node{Kind: KindTableRow, Children: c.cells(v, false)})
	default:
		var content string
		if n.Type() == gmast.TypeBlock {
			content = c.lines(n.Lines())
		}
		return append(out, &Node{Kind: KindRaw, Content: content, Children: c.children(n)})
	}
}

func (c *converter) cells(row gmast.Node, header bool) []*Node {
	var out []*Node
	for ch := row.FirstChild(); ch != nil; ch = ch.NextSibling() {
		cell, ok := ch.(*east.TableCell)
		if !ok {
			continue
		}
		node := &Node{Kind: KindTableCell, Children: c.children(cell)}
		if header || cell.Alignment != east.AlignNone {
			node.Attributes = map[string]Value{}
			if header {
				node.Attributes["header"] = BoolValue(true)
			}
			if cell.Alignment != east.AlignNone {
				node.Attributes["align"] = StringValue(cell.Alignment.String())
			}
		}
		out = append(out, node)
	}
	return out
}

func (c *converter) lines(segs *gtext.Segments) string {
	if segs == nil {
		return ""
	}
	var b strings.Builder
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		b.Write(seg.Value(c.src))
	}
	return b.String()
}

func linkNode(kind Kind, href, title string, children []*Node) *Node {
	attrs := map[string]Value{"href": StringValue(href)}
	if title != "" {
		attrs["title"] = StringValue(title)
	}
	return &Node{Kind: kind, Attributes: attrs, Children: children}
}

func unescape(b []byte) []byte {
	return util.ResolveEntityNames(util.ResolveNumericReferences(util.UnescapePunctuations(b)))
}

// appendText merges adjacent text runs.
func appendText(out []*Node, s string) []*Node {
	if s == "" {
		return out
	}
	if n := len(out); n > 0 && out[n-1].Kind == KindText {
		out[n-1].Content += s
		return out
	}
	return append(out, &Node{Kind: KindText, Content: s})
}

func appendNodes(out []*Node, nodes []*Node) []*Node {
	for _, n := range nodes {
		if n.Kind == KindText {
			out = appendText(out, n.Content)
			continue
		}
		out = append(out, n)
	}
	return out
}

func textOf(nodes []*Node) string {
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(n.TextContent())
	}
	return b.String()
}

// slugger derives unique heading ids within one document.
type slugger struct {
	seen map[string]int
}

func newSlugger() *slugger {
	return &slugger{seen: make(map[string]int)}
}

func (s *slugger) slug(title string) string {
	base := Slugify(title)
	if _, taken := s.seen[base]; !taken {
		s.seen[base] = 1
		return base
	}
	for n := s.seen[base]; ; n++ {
		candidate := base + "-" + strconv.Itoa(n)
		if _, taken := s.seen[candidate]; !taken {
			s.seen[base] = n + 1
			s.seen[candidate] = 1
			return candidate
		}
	}
}

// Slugify lowercases title and joins its words with hyphens.
func Slugify(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_' || r == '\t':
			dash = true
		}
	}
	if b.Len() == 0 {
		return "section"
	}
	return b.String()
}
