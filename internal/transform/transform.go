package transform

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/markup"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/schema"
)

// Result is the output of a transformation.
type Result struct {
	Root   *Descriptor
	Issues []Issue
}

// LogIssues writes every issue as a warning.
func (r *Result) LogIssues(ctx context.Context, logger *slog.Logger, path string) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, is := range r.Issues {
		attrs := []slog.Attr{
			logfields.Path(path),
			logfields.Issue(string(is.Kind)),
			logfields.Tag(is.Node),
		}
		if is.Attribute != "" {
			attrs = append(attrs, logfields.Attribute(is.Attribute))
		}
		logger.LogAttrs(ctx, slog.LevelWarn, is.Message, attrs...)
	}
}

// Transformer resolves AST nodes against a schema. It holds no per-document
// state and is safe for concurrent use.
type Transformer struct {
	schema   *schema.Schema
	recorder metrics.Recorder
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithRecorder sets the metrics recorder issues are counted on.
func WithRecorder(r metrics.Recorder) Option {
	return func(t *Transformer) { t.recorder = metrics.OrNoop(r) }
}

// New returns a transformer for s.
func New(s *schema.Schema, opts ...Option) *Transformer {
	t := &Transformer{schema: s, recorder: metrics.NoopRecorder{}}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transform walks root depth-first and builds the descriptor tree. Child order
// is preserved. Problems are recorded as issues and never abort the walk.
func (t *Transformer) Transform(root *markup.Node) *Result {
	w := &walker{schema: t.schema}
	res := &Result{Root: w.node(root), Issues: w.issues}
	for _, is := range res.Issues {
		t.recorder.IncTransformIssue(string(is.Kind))
	}
	return res
}

type walker struct {
	schema *schema.Schema
	issues []Issue
}

func (w *walker) issue(kind IssueKind, node, attr, format string, args ...any) {
	w.issues = append(w.issues, Issue{Kind: kind, Node: node, Attribute: attr, Message: fmt.Sprintf(format, args...)})
}

func (w *walker) children(n *markup.Node) []*Descriptor {
	if len(n.Children) == 0 {
		return nil
	}
	out := make([]*Descriptor, 0, len(n.Children))
	for _, c := range n.Children {
		if d := w.node(c); d != nil {
			out = append(out, d)
		}
	}
	return out
}

func (w *walker) node(n *markup.Node) *Descriptor {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case markup.KindText:
		return &Descriptor{Component: TextComponent, Text: n.Content}
	case markup.KindSoftBreak:
		return &Descriptor{Component: TextComponent, Text: "\n"}
	case markup.KindRaw:
		return &Descriptor{Component: LiteralComponent, Text: n.Content, Children: w.children(n)}
	case markup.KindTag:
		entry, ok := w.schema.Tag(n.Name)
		if !ok {
			w.issue(IssueUnregisteredTag, n.Name, "", "tag %q is not declared; rendering it as literal text", n.Name)
			return w.literalTag(n)
		}
		return &Descriptor{
			Component:  entry.Component,
			Attributes: w.coerce(n.Name, entry, n.Attributes),
			Children:   w.children(n),
		}
	}

	entry, ok := w.schema.Node(n.Kind)
	if !ok {
		w.issue(IssueUnregisteredTag, n.Kind.String(), "", "node kind %q has no schema entry; rendering it as literal text", n.Kind)
		return &Descriptor{Component: LiteralComponent, Text: n.Content, Children: w.children(n)}
	}

	attrs := n.Attributes
	switch n.Kind {
	case markup.KindDocument:
		attrs = without(attrs, markup.FrontmatterAttribute)
	case markup.KindFence, markup.KindCodeSpan, markup.KindHTML:
		attrs = maps.Clone(attrs)
		if attrs == nil {
			attrs = map[string]markup.Value{}
		}
		attrs["content"] = markup.StringValue(n.Content)
	}
	return &Descriptor{
		Component:  entry.Component,
		Attributes: w.coerce(n.Kind.String(), entry, attrs),
		Children:   w.children(n),
	}
}

// coerce keeps conforming attributes, substitutes defaults for missing or
// invalid ones and drops undeclared ones.
func (w *walker) coerce(node string, entry schema.Entry, in map[string]markup.Value) map[string]markup.Value {
	var out map[string]markup.Value
	set := func(name string, v markup.Value) {
		if out == nil {
			out = make(map[string]markup.Value, len(entry.Attributes))
		}
		out[name] = v
	}

	for _, name := range slices.Sorted(maps.Keys(entry.Attributes)) {
		spec := entry.Attributes[name]
		v, present := in[name]
		switch {
		case present && spec.Accepts(v):
			set(name, v)
		case present:
			if spec.Default != nil {
				w.issue(IssueSchemaMismatch, node, name, "value %q is not an accepted %s; using default %q", v.String(), spec.Type, spec.Default.String())
				set(name, *spec.Default)
			} else {
				w.issue(IssueSchemaMismatch, node, name, "value %q is not an accepted %s; attribute dropped", v.String(), spec.Type)
			}
		case spec.Default != nil:
			set(name, *spec.Default)
		case spec.Required:
			w.issue(IssueSchemaMismatch, node, name, "required attribute is missing")
		}
	}

	for _, name := range slices.Sorted(maps.Keys(in)) {
		if _, declared := entry.Attributes[name]; !declared {
			w.issue(IssueSchemaMismatch, node, name, "attribute is not declared; dropped")
		}
	}
	return out
}

func (w *walker) literalTag(n *markup.Node) *Descriptor {
	var b strings.Builder
	b.WriteString("{% ")
	b.WriteString(n.Name)
	for _, name := range slices.Sorted(maps.Keys(n.Attributes)) {
		v := n.Attributes[name]
		b.WriteByte(' ')
		b.WriteString(name)
		b.WriteByte('=')
		if v.Type == markup.TypeString {
			b.WriteString(strconv.Quote(v.Str))
		} else {
			b.WriteString(v.String())
		}
	}
	d := &Descriptor{Component: LiteralComponent, Children: w.children(n)}
	if len(n.Children) == 0 {
		b.WriteString(" /%}")
	} else {
		b.WriteString(" %}")
		d.Closing = "{% /" + n.Name + " %}"
	}
	d.Text = b.String()
	return d
}

func without(m map[string]markup.Value, key string) map[string]markup.Value {
	if _, ok := m[key]; !ok {
		return m
	}
	out := maps.Clone(m)
	delete(out, key)
	return out
}
