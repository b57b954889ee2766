package markup

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseMetadata parses a raw frontmatter block as an independent metadata
// document and returns its typed values.
//
// A well-formed YAML mapping is decoded directly. Anything else falls back to a
// line-wise `key: value` scan so that a block with one broken line still yields
// its other keys. Nested YAML values are kept as their flow-style text.
func (p *Parser) ParseMetadata(raw string) map[string]Value {
	out := make(map[string]Value)
	if strings.TrimSpace(raw) == "" {
		return out
	}

	var doc map[string]any
	if err := yaml.Unmarshal([]byte(raw), &doc); err == nil {
		for k, v := range doc {
			if val, ok := yamlValue(v); ok {
				out[k] = val
			}
		}
		return out
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || line[0] == ' ' || line[0] == '\t' || line[0] == '#' {
			continue
		}
		key, rest, ok := strings.Cut(line, ":")
		key = strings.TrimSpace(key)
		if !ok || key == "" || strings.ContainsAny(key, " \t") {
			continue
		}
		rest = strings.TrimSpace(rest)
		if rest == "" {
			continue
		}
		out[key] = metadataScalar(rest)
	}
	return out
}

func yamlValue(v any) (Value, bool) {
	switch t := v.(type) {
	case nil:
		return Value{}, false
	case string:
		return StringValue(t), true
	case bool:
		return BoolValue(t), true
	case int:
		return NumberValue(float64(t)), true
	case int64:
		return NumberValue(float64(t)), true
	case uint64:
		return NumberValue(float64(t)), true
	case float64:
		return NumberValue(t), true
	default:
		b, err := yaml.Marshal(v)
		if err != nil {
			return StringValue(fmt.Sprint(v)), true
		}
		return StringValue(strings.TrimSpace(string(b))), true
	}
}

func metadataScalar(s string) Value {
	if len(s) >= 2 {
		switch {
		case s[0] == '"' && s[len(s)-1] == '"':
			if u, err := strconv.Unquote(s); err == nil {
				return StringValue(u)
			}
			return StringValue(s[1 : len(s)-1])
		case s[0] == '\'' && s[len(s)-1] == '\'':
			return StringValue(strings.ReplaceAll(s[1:len(s)-1], "''", "'"))
		}
	}
	return parseScalar(s)
}
