package transform

import "fmt"

// IssueKind classifies a non-fatal transform problem.
type IssueKind string

const (
	// IssueUnregisteredTag is a custom tag absent from the schema.
	IssueUnregisteredTag IssueKind = "unregistered_tag"
	// IssueSchemaMismatch is an attribute that does not conform to its entry.
	IssueSchemaMismatch IssueKind = "schema_mismatch"
)

// Issue records one problem found while transforming a document. Issues never
// stop the transformation.
type Issue struct {
	Kind      IssueKind
	Node      string // tag name or node kind
	Attribute string
	Message   string
}

func (i Issue) String() string {
	if i.Attribute != "" {
		return fmt.Sprintf("%s: %s.%s: %s", i.Kind, i.Node, i.Attribute, i.Message)
	}
	return fmt.Sprintf("%s: %s: %s", i.Kind, i.Node, i.Message)
}
