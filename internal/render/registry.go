// Package render turns component descriptor trees into HTML node trees using
// a registry of named components.
package render

import (
	stderrors "errors"
	"maps"
	"slices"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/schema"
	"git.home.luguber.info/inful/docsite/internal/transform"
)

// ErrUnregisteredComponent is wrapped by every error reporting a component
// name with no registered implementation.
var ErrUnregisteredComponent = stderrors.New("unregistered component")

// Component renders one descriptor. children are the already rendered child
// nodes, detached and ready to be appended.
type Component interface {
	Render(d *transform.Descriptor, children []*html.Node) ([]*html.Node, error)
}

// ComponentFunc adapts a function to Component.
type ComponentFunc func(d *transform.Descriptor, children []*html.Node) ([]*html.Node, error)

func (f ComponentFunc) Render(d *transform.Descriptor, children []*html.Node) ([]*html.Node, error) {
	return f(d, children)
}

// Registry maps component names to implementations. It is immutable; With
// returns an extended copy.
type Registry struct {
	components map[string]Component
}

// NewRegistry returns a registry holding a copy of components.
func NewRegistry(components map[string]Component) *Registry {
	return &Registry{components: maps.Clone(components)}
}

// With returns a copy of r with name bound to c.
func (r *Registry) With(name string, c Component) *Registry {
	next := maps.Clone(r.components)
	if next == nil {
		next = map[string]Component{}
	}
	next[name] = c
	return &Registry{components: next}
}

// Lookup returns the component registered under name.
func (r *Registry) Lookup(name string) (Component, bool) {
	c, ok := r.components[name]
	return c, ok
}

// Names lists registered component names in sorted order.
func (r *Registry) Names() []string {
	names := slices.Collect(maps.Keys(r.components))
	sort.Strings(names)
	return names
}

// Check verifies that every component s renders to is registered. The error
// lists all missing names and is fatal.
func (r *Registry) Check(s *schema.Schema) error {
	var missing []string
	for _, name := range s.Components() {
		if _, ok := r.components[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return unregistered(missing...)
}

func unregistered(names ...string) error {
	return errors.WrapError(ErrUnregisteredComponent, errors.CategoryRender,
		"schema references unregistered components: "+strings.Join(names, ", ")).
		WithContext("components", names).
		Fatal().
		Build()
}
