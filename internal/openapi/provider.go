package openapi

import "github.com/getkin/kin-openapi/openapi3"

// Component categories addressed by references
const (
	CategoryParameters    = "parameters"
	CategoryRequestBody   = "request_body"
	CategoryRequestBodies = "request_bodies"
	CategoryRequestBodyJS = "requestBodies"
	CategorySchemas       = "schemas"
)

// ReferenceProvider looks up reusable definitions by category and name.
// A returned definition may itself be a reference.
type ReferenceProvider interface {
	Parameter(category, name string) (*openapi3.ParameterRef, bool)
	RequestBody(category, name string) (*openapi3.RequestBodyRef, bool)
	Schema(category, name string) (*openapi3.SchemaRef, bool)
}

// NewProvider selects the provider for a document: one backed by its
// components, or one that never resolves anything when there are none.
func NewProvider(doc *Document) ReferenceProvider {
	if !doc.HasComponents() {
		return EmptyProvider{}
	}
	return &ComponentProvider{components: doc.API.Components}
}

// ComponentProvider resolves against a components table
type ComponentProvider struct {
	components *openapi3.Components
}

// NewComponentProvider creates a provider over components
func NewComponentProvider(components *openapi3.Components) *ComponentProvider {
	return &ComponentProvider{components: components}
}

func (p *ComponentProvider) Parameter(category, name string) (*openapi3.ParameterRef, bool) {
	if category != CategoryParameters {
		return nil, false
	}
	ref, ok := p.components.Parameters[name]
	return ref, ok && ref != nil
}

func (p *ComponentProvider) RequestBody(category, name string) (*openapi3.RequestBodyRef, bool) {
	switch category {
	case CategoryRequestBody, CategoryRequestBodies, CategoryRequestBodyJS:
		ref, ok := p.components.RequestBodies[name]
		return ref, ok && ref != nil
	}
	return nil, false
}

func (p *ComponentProvider) Schema(category, name string) (*openapi3.SchemaRef, bool) {
	if category != CategorySchemas {
		return nil, false
	}
	ref, ok := p.components.Schemas[name]
	return ref, ok && ref != nil
}

// EmptyProvider is used for documents without components
type EmptyProvider struct{}

func (EmptyProvider) Parameter(string, string) (*openapi3.ParameterRef, bool) {
	return nil, false
}

func (EmptyProvider) RequestBody(string, string) (*openapi3.RequestBodyRef, bool) {
	return nil, false
}

func (EmptyProvider) Schema(string, string) (*openapi3.SchemaRef, bool) {
	return nil, false
}

// ResolveParameter resolves a parameter declaration
func ResolveParameter(p ReferenceProvider, param *openapi3.ParameterRef) Resolution[openapi3.Parameter] {
	if param == nil {
		return Resolution[openapi3.Parameter]{State: Absent}
	}
	return Resolve[openapi3.Parameter](param.Ref, param.Value, func(category, name string) (string, *openapi3.Parameter, bool) {
		found, ok := p.Parameter(category, name)
		if !ok {
			return "", nil, false
		}
		return found.Ref, found.Value, true
	})
}

// ResolveRequestBody resolves a request body declaration
func ResolveRequestBody(p ReferenceProvider, body *openapi3.RequestBodyRef) Resolution[openapi3.RequestBody] {
	if body == nil {
		return Resolution[openapi3.RequestBody]{State: Absent}
	}
	return Resolve[openapi3.RequestBody](body.Ref, body.Value, func(category, name string) (string, *openapi3.RequestBody, bool) {
		found, ok := p.RequestBody(category, name)
		if !ok {
			return "", nil, false
		}
		return found.Ref, found.Value, true
	})
}

// ResolveSchema resolves a schema declaration
func ResolveSchema(p ReferenceProvider, schema *openapi3.SchemaRef) Resolution[openapi3.Schema] {
	if schema == nil {
		return Resolution[openapi3.Schema]{State: Absent}
	}
	return Resolve[openapi3.Schema](schema.Ref, schema.Value, func(category, name string) (string, *openapi3.Schema, bool) {
		found, ok := p.Schema(category, name)
		if !ok {
			return "", nil, false
		}
		return found.Ref, found.Value, true
	})
}
