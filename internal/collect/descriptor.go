// Package collect walks the path table of a document and groups one
// handler descriptor per operation by tag.
package collect

import (
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
)

// FallbackTag groups operations that declare no tag
const FallbackTag = "NoTag"

// Descriptor is the resolved, per-operation model that drives code synthesis
type Descriptor struct {
	// OperationID is the operation id in snake case
	OperationID string
	// Method is the HTTP method, e.g. "GET"
	Method string
	// Path is the normalized path template, e.g. "/pets/:pet_id"
	Path string
	// PathParams are the snake case names of the resolved path parameters, in declaration order
	PathParams []string
	// RequestBody is the resolved request body, nil when absent or unresolved
	RequestBody *openapi3.RequestBody
	// BodySchemas maps a content type to the component name of its schema, when it is a reference
	BodySchemas map[string]string

	Tag        string
	Summary    string
	SourcePath string
}

// HasBody reports whether the descriptor carries a resolved request body
func (d *Descriptor) HasBody() bool {
	return d.RequestBody != nil
}

// BodyRequired reports whether the request body is mandatory
func (d *Descriptor) BodyRequired() bool {
	return d.RequestBody != nil && d.RequestBody.Required
}

// ContentTypes returns the content types of the request body, sorted
func (d *Descriptor) ContentTypes() []string {
	if d.RequestBody == nil {
		return nil
	}
	types := make([]string, 0, len(d.RequestBody.Content))
	for contentType := range d.RequestBody.Content {
		types = append(types, contentType)
	}
	sort.Strings(types)
	return types
}

// Groups is a multimap from tag to descriptors. Tags keep the order in which
// they were first inserted and each tag keeps its descriptors in insertion order.
type Groups struct {
	tags  []string
	byTag map[string][]*Descriptor
}

// NewGroups creates an empty multimap
func NewGroups() *Groups {
	return &Groups{byTag: make(map[string][]*Descriptor)}
}

// Insert appends a descriptor to the bucket of tag
func (g *Groups) Insert(tag string, d *Descriptor) {
	if _, ok := g.byTag[tag]; !ok {
		g.tags = append(g.tags, tag)
	}
	g.byTag[tag] = append(g.byTag[tag], d)
}

// Tags returns every tag with at least one descriptor
func (g *Groups) Tags() []string {
	return append([]string(nil), g.tags...)
}

// Get returns the descriptors of tag
func (g *Groups) Get(tag string) []*Descriptor {
	return g.byTag[tag]
}

// Len returns the number of tags
func (g *Groups) Len() int {
	return len(g.tags)
}

// Count returns the number of descriptors across all tags
func (g *Groups) Count() int {
	total := 0
	for _, descriptors := range g.byTag {
		total += len(descriptors)
	}
	return total
}

// IsEmpty reports whether no descriptor was inserted
func (g *Groups) IsEmpty() bool {
	return len(g.tags) == 0
}
