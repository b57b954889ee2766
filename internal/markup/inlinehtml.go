package markup

import (
	"regexp"
	"strings"
)

var (
	openingTag = regexp.MustCompile(`^<([A-Za-z][A-Za-z0-9-]*)(?:\s[^<>]*)?>$`)
	closingTag = regexp.MustCompile(`^</([A-Za-z][A-Za-z0-9-]*)\s*>$`)
)

// voidElements never have a closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// openingTagName returns the lowercased element name of an inline opening
// tag that expects a matching close.
func openingTagName(tag string) (string, bool) {
	if strings.HasSuffix(tag, "/>") {
		return "", false
	}
	m := openingTag.FindStringSubmatch(tag)
	if m == nil {
		return "", false
	}
	name := strings.ToLower(m[1])
	if voidElements[name] {
		return "", false
	}
	return name, true
}

func closingTagName(tag string) string {
	m := closingTag.FindStringSubmatch(tag)
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1])
}
