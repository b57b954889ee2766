// Package schema declares how AST nodes and custom tags map to renderable
// components and which attributes each one accepts.
package schema

import (
	"fmt"
	"maps"
	"slices"
	"sort"

	"git.home.luguber.info/inful/docsite/internal/markup"
)

// Attribute describes one accepted attribute of an entry.
type Attribute struct {
	Type     markup.ValueType
	Required bool
	// Default is substituted when the attribute is missing or invalid.
	Default *markup.Value
	// Matches, when non-empty, is the closed set of allowed values.
	Matches []markup.Value
}

// Accepts reports whether v has the declared type and, if a value set is
// declared, is one of its members.
func (a Attribute) Accepts(v markup.Value) bool {
	if v.Type != a.Type {
		return false
	}
	return len(a.Matches) == 0 || slices.Contains(a.Matches, v)
}

// Entry maps a node kind or tag name to a component.
type Entry struct {
	Component  string
	Attributes map[string]Attribute
}

// Schema is an immutable set of entries. Built-in nodes are keyed by Kind and
// custom tags by name.
type Schema struct {
	nodes map[markup.Kind]Entry
	tags  map[string]Entry
}

// Builder assembles a Schema.
type Builder struct {
	nodes map[markup.Kind]Entry
	tags  map[string]Entry
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{nodes: map[markup.Kind]Entry{}, tags: map[string]Entry{}}
}

// Node registers the entry for a built-in node kind.
func (b *Builder) Node(kind markup.Kind, e Entry) *Builder {
	b.nodes[kind] = e
	return b
}

// Tag registers the entry for a custom tag.
func (b *Builder) Tag(name string, e Entry) *Builder {
	b.tags[name] = e
	return b
}

// Build freezes the builder into a Schema. The builder may be reused.
func (b *Builder) Build() *Schema {
	s := &Schema{nodes: make(map[markup.Kind]Entry, len(b.nodes)), tags: make(map[string]Entry, len(b.tags))}
	for k, e := range b.nodes {
		s.nodes[k] = cloneEntry(e)
	}
	for k, e := range b.tags {
		s.tags[k] = cloneEntry(e)
	}
	return s
}

func cloneEntry(e Entry) Entry {
	out := Entry{Component: e.Component, Attributes: make(map[string]Attribute, len(e.Attributes))}
	for name, a := range e.Attributes {
		if a.Default != nil {
			d := *a.Default
			a.Default = &d
		}
		a.Matches = slices.Clone(a.Matches)
		out.Attributes[name] = a
	}
	return out
}

// Node returns the entry for a built-in kind.
func (s *Schema) Node(kind markup.Kind) (Entry, bool) {
	e, ok := s.nodes[kind]
	return e, ok
}

// Tag returns the entry for a custom tag.
func (s *Schema) Tag(name string) (Entry, bool) {
	e, ok := s.tags[name]
	return e, ok
}

// Tags lists custom tag names in sorted order.
func (s *Schema) Tags() []string {
	names := slices.Collect(maps.Keys(s.tags))
	sort.Strings(names)
	return names
}

// Components lists every component the schema renders to, sorted and unique.
func (s *Schema) Components() []string {
	set := map[string]struct{}{}
	for _, e := range s.nodes {
		set[e.Component] = struct{}{}
	}
	for _, e := range s.tags {
		set[e.Component] = struct{}{}
	}
	out := slices.Collect(maps.Keys(set))
	sort.Strings(out)
	return out
}

// Extend returns a builder seeded with the entries of s.
func (s *Schema) Extend() *Builder {
	b := NewBuilder()
	for k, e := range s.nodes {
		b.nodes[k] = cloneEntry(e)
	}
	for k, e := range s.tags {
		b.tags[k] = cloneEntry(e)
	}
	return b
}

// Validate checks that every entry names a component and that every declared
// default and allowed value has the attribute's type.
func (s *Schema) Validate() error {
	var problems []string
	check := func(key string, e Entry) {
		if e.Component == "" {
			problems = append(problems, fmt.Sprintf("%s: no component", key))
		}
		for name, a := range e.Attributes {
			for _, m := range a.Matches {
				if m.Type != a.Type {
					problems = append(problems, fmt.Sprintf("%s.%s: allowed value %q is not a %s", key, name, m.String(), a.Type))
				}
			}
			if a.Default != nil && !a.Accepts(*a.Default) {
				problems = append(problems, fmt.Sprintf("%s.%s: default %q is not an accepted value", key, name, a.Default.String()))
			}
		}
	}
	for k, e := range s.nodes {
		check(k.String(), e)
	}
	for name, e := range s.tags {
		check("tag "+name, e)
	}
	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return &InvalidError{Problems: problems}
}

// InvalidError lists every problem found by Validate.
type InvalidError struct {
	Problems []string
}

func (e *InvalidError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid schema: " + e.Problems[0]
	}
	return fmt.Sprintf("invalid schema: %d problems, first: %s", len(e.Problems), e.Problems[0])
}
