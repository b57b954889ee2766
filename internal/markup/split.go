package markup

import (
	"bytes"
	"errors"
)

// errUnclosedFrontmatter is returned by splitFrontmatter when a document opens a
// YAML block but never closes it. The parser treats such input as plain body.
var errUnclosedFrontmatter = errors.New("frontmatter start delimiter found but closing delimiter is missing")

// splitFrontmatter separates a leading `---` delimited block from the body.
//
// If the document does not start with a delimiter, had is false and body is the
// full input. Both LF and CRLF newlines are recognized.
func splitFrontmatter(content []byte) (frontmatter []byte, body []byte, had bool, err error) {
	nl := detectNewline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		return []byte{}, content[start+len(open):], true, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		// A closing delimiter on the last line without a trailing newline.
		tail := []byte(nl + "---")
		if bytes.HasSuffix(content, tail) && len(content)-len(tail) >= start {
			return content[start : len(content)-len(tail)+len(nl)], []byte{}, true, nil
		}
		return nil, content, false, errUnclosedFrontmatter
	}

	end := start + idx + len(nl)
	return content[start:end], content[start+idx+len(closeSeq):], true, nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// Body returns src without its frontmatter block. Input whose frontmatter is
// never closed is returned unchanged, matching how Parse treats it.
func Body(src []byte) []byte {
	src = bytes.TrimPrefix(src, utf8BOM)
	_, body, _, err := splitFrontmatter(src)
	if err != nil {
		return src
	}
	return body
}
