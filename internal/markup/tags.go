package markup

import (
	"fmt"
	"strconv"
	"strings"
)

// tagLine is a single `{% ... %}` line.
type tagLine struct {
	name        string
	attrs       string
	closing     bool
	selfClosing bool
}

// parseTagLine recognizes `{% name attrs %}`, `{% name attrs /%}` and `{% /name %}`.
func parseTagLine(trimmed string) (tagLine, bool) {
	if !strings.HasPrefix(trimmed, "{%") || !strings.HasSuffix(trimmed, "%}") || len(trimmed) < 4 {
		return tagLine{}, false
	}
	inner := strings.TrimSpace(trimmed[2 : len(trimmed)-2])
	if inner == "" {
		return tagLine{}, false
	}

	var tok tagLine
	if strings.HasPrefix(inner, "/") {
		tok.closing = true
		inner = strings.TrimSpace(inner[1:])
	} else if strings.HasSuffix(inner, "/") {
		tok.selfClosing = true
		inner = strings.TrimSpace(inner[:len(inner)-1])
	}

	name, rest, _ := strings.Cut(inner, " ")
	if tab := strings.IndexByte(name, '\t'); tab >= 0 {
		name, rest = name[:tab], name[tab+1:]+" "+rest
	}
	if !validTagName(name) {
		return tagLine{}, false
	}
	tok.name = name
	tok.attrs = strings.TrimSpace(rest)
	if tok.closing && tok.attrs != "" {
		return tagLine{}, false
	}
	return tok, true
}

func validTagName(name string) bool {
	if name == "" || !isNameStart(name[0]) {
		return false
	}
	for i := 1; i < len(name); i++ {
		if !isNameByte(name[i]) {
			return false
		}
	}
	return true
}

func isNameStart(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isNameByte(b byte) bool {
	return isNameStart(b) || (b >= '0' && b <= '9') || b == '_' || b == '-'
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t'
}

// parseAttributes parses `name="text" count=3 open=true` lists.
func parseAttributes(s string) (map[string]Value, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	attrs := make(map[string]Value)
	for i := 0; i < len(s); {
		for i < len(s) && isSpace(s[i]) {
			i++
		}
		if i >= len(s) {
			break
		}

		start := i
		for i < len(s) && isNameByte(s[i]) {
			i++
		}
		name := s[start:i]
		if name == "" || !isNameStart(name[0]) {
			return nil, fmt.Errorf("expected attribute name at offset %d", start)
		}
		if i >= len(s) || s[i] != '=' {
			return nil, fmt.Errorf("attribute %q has no value", name)
		}
		i++
		if i >= len(s) || isSpace(s[i]) {
			return nil, fmt.Errorf("attribute %q has no value", name)
		}

		var v Value
		if s[i] == '"' {
			quoted, err := strconv.QuotedPrefix(s[i:])
			if err != nil {
				return nil, fmt.Errorf("attribute %q: unterminated string", name)
			}
			str, err := strconv.Unquote(quoted)
			if err != nil {
				return nil, fmt.Errorf("attribute %q: %w", name, err)
			}
			v = StringValue(str)
			i += len(quoted)
		} else {
			start := i
			for i < len(s) && !isSpace(s[i]) {
				i++
			}
			v = parseScalar(s[start:i])
		}

		if _, dup := attrs[name]; dup {
			return nil, fmt.Errorf("duplicate attribute %q", name)
		}
		attrs[name] = v
	}
	return attrs, nil
}

// parseScalar types a bare token: true/false, a number, or a string.
func parseScalar(tok string) Value {
	switch tok {
	case "true":
		return BoolValue(true)
	case "false":
		return BoolValue(false)
	}
	if n, err := strconv.ParseFloat(tok, 64); err == nil {
		return NumberValue(n)
	}
	return StringValue(tok)
}

// fenceOpen returns the fence marker when trimmed opens a fenced code block.
func fenceOpen(trimmed string) string {
	for _, ch := range []byte{'`', '~'} {
		n := 0
		for n < len(trimmed) && trimmed[n] == ch {
			n++
		}
		if n >= 3 {
			return trimmed[:n]
		}
	}
	return ""
}

// fenceCloses reports whether trimmed closes a block opened with fence.
func fenceCloses(trimmed, fence string) bool {
	return strings.HasPrefix(trimmed, fence) && strings.Trim(trimmed, fence[:1]) == ""
}

// findClose returns the index of the line closing the tag opened before from,
// honoring nested tags of the same name and skipping fenced code.
func findClose(lines []string, from int, name string) int {
	depth := 0
	fence := ""
	for j := from; j < len(lines); j++ {
		trimmed := strings.TrimSpace(lines[j])
		if fence != "" {
			if fenceCloses(trimmed, fence) {
				fence = ""
			}
			continue
		}
		if isIndentedCode(lines[j]) {
			continue
		}
		if f := fenceOpen(trimmed); f != "" {
			fence = f
			continue
		}
		tok, ok := parseTagLine(trimmed)
		if !ok || tok.name != name || tok.selfClosing {
			continue
		}
		if !tok.closing {
			depth++
			continue
		}
		if depth == 0 {
			return j
		}
		depth--
	}
	return -1
}

func rawNode(text string) *Node {
	return &Node{Kind: KindRaw, Content: strings.TrimRight(text, "\r\n")}
}

func isIndentedCode(line string) bool {
	return strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t")
}
