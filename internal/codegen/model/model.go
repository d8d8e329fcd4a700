// Package model holds the target-independent structures handed to code
// generation targets.
package model

// Param is a path parameter extracted by a handler stub
type Param struct {
	// Name is the snake case router parameter name
	Name string
	// Local is the Go variable holding the value
	Local string
}

// Stub is one generated handler function
type Stub struct {
	// Name is the snake case handler name, e.g. "add_pet_application_json"
	Name string
	// Symbol is the exported Go function name, e.g. "AddPetApplicationJson"
	Symbol      string
	OperationID string
	Method      string
	Path        string
	Params      []Param
	Summary     string

	// ContentType is empty when the operation has no request body
	ContentType  string
	BodyRequired bool
	// JSONBody is set when the content type is decoded as JSON rather than read raw
	JSONBody bool
	// Schema is the component name of the body schema, when known
	Schema string
}

// HasBody reports whether the stub reads a request body
func (s Stub) HasBody() bool {
	return s.ContentType != ""
}

// RouteEntry binds a handler to its routing key
type RouteEntry struct {
	Path        string
	Method      string
	Handler     string
	Symbol      string
	ContentType string
	OperationID string
}

// Variant is a handler selected by request content type
type Variant struct {
	ContentType string
	Symbol      string
}

// Route is one registration on a router. Routes with more than one variant
// are served through a content type dispatcher.
type Route struct {
	Method   string
	Path     string
	Variants []Variant
}

// Dispatch reports whether the route needs content type dispatch
func (r Route) Dispatch() bool {
	return len(r.Variants) > 1
}

// Symbol returns the handler of a route without dispatch
func (r Route) Symbol() string {
	if len(r.Variants) == 0 {
		return ""
	}
	return r.Variants[0].Symbol
}

// HandlerFile is the handler module of one tag
type HandlerFile struct {
	Package string
	Tag     string
	Stubs   []Stub
}

// RouterFile is the router module of one tag
type RouterFile struct {
	Package        string
	HandlersImport string
	Tag            string
	// Name is the exported Go name of the tag, e.g. "Pets"
	Name   string
	Routes []Route
}

// ServerFile is the aggregate server nesting every tag router
type ServerFile struct {
	Package string
	// Routers are the Go names of the tags, in generation order
	Routers []string
}

// Artifact is one generated source file
type Artifact struct {
	// Path is relative to the output directory, e.g. "handlers/pets_handlers.go"
	Path   string
	Source []byte
}
