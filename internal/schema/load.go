package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/foundation/normalization"
	"git.home.luguber.info/inful/docsite/internal/markup"
)

var valueTypes = normalization.NewNormalizer(map[string]markup.ValueType{
	"string":  markup.TypeString,
	"str":     markup.TypeString,
	"text":    markup.TypeString,
	"number":  markup.TypeNumber,
	"int":     markup.TypeNumber,
	"integer": markup.TypeNumber,
	"float":   markup.TypeNumber,
	"boolean": markup.TypeBoolean,
	"bool":    markup.TypeBoolean,
}, markup.TypeString)

type fileSchema struct {
	Tags  map[string]fileEntry `yaml:"tags"`
	Nodes map[string]fileEntry `yaml:"nodes"`
}

type fileEntry struct {
	Render     string                   `yaml:"render"`
	Attributes map[string]fileAttribute `yaml:"attributes"`
}

type fileAttribute struct {
	Type     string `yaml:"type"`
	Required bool   `yaml:"required"`
	Default  any    `yaml:"default"`
	Matches  []any  `yaml:"matches"`
}

// Load reads tag and node entries from a YAML file and merges them over the
// default schema. Entries in the file replace default entries with the same key.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "read schema file").
			WithContext("path", path).
			Fatal().
			Build()
	}
	s, err := Parse(data, Default())
	if err != nil {
		return nil, errors.WrapError(err, errors.CategorySchema, "load schema").
			WithContext("path", path).
			Fatal().
			Build()
	}
	return s, nil
}

// Parse decodes YAML schema data and merges it over base.
func Parse(data []byte, base *Schema) (*Schema, error) {
	var fs fileSchema
	if err := yaml.Unmarshal(data, &fs); err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}

	b := NewBuilder()
	if base != nil {
		b = base.Extend()
	}
	for name, fe := range fs.Tags {
		if !validName(name) {
			return nil, fmt.Errorf("tag %q: invalid tag name", name)
		}
		e, err := fe.entry()
		if err != nil {
			return nil, fmt.Errorf("tag %q: %w", name, err)
		}
		b.Tag(name, e)
	}
	for name, fe := range fs.Nodes {
		kind, ok := markup.KindByName(name)
		if !ok || kind == markup.KindTag || kind == markup.KindRaw || kind == markup.KindText {
			return nil, fmt.Errorf("node %q: unknown node kind", name)
		}
		e, err := fe.entry()
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", name, err)
		}
		b.Node(kind, e)
	}

	s := b.Build()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (fe fileEntry) entry() (Entry, error) {
	if fe.Render == "" {
		return Entry{}, fmt.Errorf("render component is required")
	}
	e := Entry{Component: fe.Render, Attributes: make(map[string]Attribute, len(fe.Attributes))}
	for name, fa := range fe.Attributes {
		a, err := fa.attribute()
		if err != nil {
			return Entry{}, fmt.Errorf("attribute %q: %w", name, err)
		}
		e.Attributes[name] = a
	}
	return e, nil
}

func (fa fileAttribute) attribute() (Attribute, error) {
	t := markup.TypeString
	if fa.Type != "" {
		var err error
		if t, err = valueTypes.NormalizeWithError(fa.Type); err != nil {
			return Attribute{}, err
		}
	}

	a := Attribute{Type: t, Required: fa.Required}
	if fa.Default != nil {
		v, err := typedValue(fa.Default, t)
		if err != nil {
			return Attribute{}, fmt.Errorf("default: %w", err)
		}
		a.Default = &v
	}
	for _, m := range fa.Matches {
		v, err := typedValue(m, t)
		if err != nil {
			return Attribute{}, fmt.Errorf("matches: %w", err)
		}
		a.Matches = append(a.Matches, v)
	}
	return a, nil
}

func typedValue(raw any, t markup.ValueType) (markup.Value, error) {
	switch t {
	case markup.TypeNumber:
		switch n := raw.(type) {
		case int:
			return markup.NumberValue(float64(n)), nil
		case float64:
			return markup.NumberValue(n), nil
		}
	case markup.TypeBoolean:
		if b, ok := raw.(bool); ok {
			return markup.BoolValue(b), nil
		}
	default:
		if s, ok := raw.(string); ok {
			return markup.StringValue(s), nil
		}
	}
	return markup.Value{}, fmt.Errorf("%v is not a %s", raw, t)
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '-' || r == '_'):
		default:
			return false
		}
	}
	return true
}
