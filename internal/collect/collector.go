package collect

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/rs/zerolog"

	"github.com/okra-platform/oasgen/internal/naming"
	"github.com/okra-platform/oasgen/internal/openapi"
)

// ErrBrokenReference is returned in strict mode when a reference cannot be resolved
var ErrBrokenReference = errors.New("broken reference")

// Diagnostic records a problem that was recovered from during collection
type Diagnostic struct {
	Path        string
	Method      string
	OperationID string
	Message     string
	Err         error
}

// String returns a one-line description of the diagnostic
func (d Diagnostic) String() string {
	location := d.Path
	if d.Method != "" {
		location = d.Method + " " + location
	}
	if d.Err != nil {
		return fmt.Sprintf("%s: %s: %v", location, d.Message, d.Err)
	}
	return fmt.Sprintf("%s: %s", location, d.Message)
}

// Result is the outcome of a collection run
type Result struct {
	Groups      *Groups
	Diagnostics []Diagnostic
}

// Collector builds descriptors from a document
type Collector struct {
	provider openapi.ReferenceProvider
	logger   zerolog.Logger
	strict   bool
}

// Option configures a Collector
type Option func(*Collector)

// WithLogger sets the logger diagnostics are reported to
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Collector) {
		c.logger = logger
	}
}

// WithStrict makes broken references abort the run instead of being dropped
func WithStrict(strict bool) Option {
	return func(c *Collector) {
		c.strict = strict
	}
}

// NewCollector creates a collector resolving references through provider
func NewCollector(provider openapi.ReferenceProvider, opts ...Option) *Collector {
	c := &Collector{
		provider: provider,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect walks every path of doc and groups one descriptor per supported
// operation by its first tag. Reference cycles are always fatal.
func Collect(doc *openapi.Document, opts ...Option) (*Result, error) {
	return NewCollector(openapi.NewProvider(doc), opts...).Collect(doc)
}

// Collect walks every path of doc
func (c *Collector) Collect(doc *openapi.Document) (*Result, error) {
	result := &Result{Groups: NewGroups()}

	for _, template := range doc.PathTemplates() {
		item := doc.PathItem(template)
		if item == nil {
			continue
		}

		operations := []struct {
			method    string
			operation *openapi3.Operation
		}{
			{http.MethodGet, item.Get},
			{http.MethodPost, item.Post},
			{http.MethodPut, item.Put},
		}

		for _, op := range operations {
			if op.operation == nil {
				continue
			}
			if err := c.processOperation(result, template, op.method, op.operation); err != nil {
				return nil, err
			}
		}
	}

	c.logger.Debug().
		Int("tags", result.Groups.Len()).
		Int("operations", result.Groups.Count()).
		Int("diagnostics", len(result.Diagnostics)).
		Msg("collected operations")

	return result, nil
}

func (c *Collector) processOperation(result *Result, path, method string, operation *openapi3.Operation) error {
	if operation.OperationID == "" {
		c.note(result, Diagnostic{Path: path, Method: method, Message: "operation has no operationId, skipped"})
		return nil
	}

	c.logger.Debug().
		Str("path", path).
		Str("method", method).
		Str("operation", operation.OperationID).
		Msg("processing operation")

	d := &Descriptor{
		OperationID: naming.Snake(operation.OperationID),
		Method:      method,
		Path:        naming.NormalizePath(path),
		PathParams:  []string{},
		Summary:     operation.Summary,
		SourcePath:  path,
	}

	declared := make(map[string]bool)
	for i, param := range operation.Parameters {
		resolution := openapi.ResolveParameter(c.provider, param)
		if resolution.State == openapi.Absent {
			continue
		}
		if !resolution.Ok() {
			if err := c.broken(result, d, operation, fmt.Sprintf("parameter %d dropped", i), resolution.Err); err != nil {
				return err
			}
			continue
		}
		if resolution.Value.In != openapi3.ParameterInPath {
			continue
		}
		name := naming.Snake(resolution.Value.Name)
		declared[name] = true
		d.PathParams = append(d.PathParams, name)
	}

	for _, placeholder := range naming.PathParams(path) {
		if !declared[naming.Snake(placeholder)] {
			c.note(result, Diagnostic{
				Path:        path,
				Method:      method,
				OperationID: operation.OperationID,
				Message:     fmt.Sprintf("placeholder {%s} has no path parameter", placeholder),
			})
		}
	}

	if operation.RequestBody != nil {
		resolution := openapi.ResolveRequestBody(c.provider, operation.RequestBody)
		switch resolution.State {
		case openapi.Resolved:
			d.RequestBody = resolution.Value
			if err := c.resolveBodySchemas(result, d, operation); err != nil {
				return err
			}
		case openapi.Broken:
			if err := c.broken(result, d, operation, "request body treated as absent", resolution.Err); err != nil {
				return err
			}
		}
	}

	d.Tag = FallbackTag
	if len(operation.Tags) > 0 && operation.Tags[0] != "" {
		d.Tag = operation.Tags[0]
	}
	result.Groups.Insert(d.Tag, d)

	return nil
}

func (c *Collector) resolveBodySchemas(result *Result, d *Descriptor, operation *openapi3.Operation) error {
	for _, contentType := range d.ContentTypes() {
		media := d.RequestBody.Content[contentType]
		if media == nil || media.Schema == nil || media.Schema.Ref == "" {
			continue
		}

		resolution := openapi.ResolveSchema(c.provider, media.Schema)
		if !resolution.Ok() {
			if errors.Is(resolution.Err, openapi.ErrReferenceCycle) {
				return fmt.Errorf("%s %s: schema of %s: %w", d.Method, d.SourcePath, contentType, resolution.Err)
			}
			c.note(result, Diagnostic{
				Path:        d.SourcePath,
				Method:      d.Method,
				OperationID: operation.OperationID,
				Message:     fmt.Sprintf("schema of %s not resolved", contentType),
				Err:         resolution.Err,
			})
			continue
		}

		if d.BodySchemas == nil {
			d.BodySchemas = make(map[string]string)
		}
		_, name, _ := openapi.SplitReference(media.Schema.Ref)
		d.BodySchemas[contentType] = name
	}
	return nil
}

// broken handles an unresolved reference: cycles and strict mode abort the
// run, anything else is dropped with a diagnostic.
func (c *Collector) broken(result *Result, d *Descriptor, operation *openapi3.Operation, message string, cause error) error {
	if errors.Is(cause, openapi.ErrReferenceCycle) {
		return fmt.Errorf("%s %s: %w", d.Method, d.SourcePath, cause)
	}
	if c.strict {
		return fmt.Errorf("%s %s: %s: %w: %v", d.Method, d.SourcePath, message, ErrBrokenReference, cause)
	}
	c.note(result, Diagnostic{
		Path:        d.SourcePath,
		Method:      d.Method,
		OperationID: operation.OperationID,
		Message:     message,
		Err:         cause,
	})
	return nil
}

func (c *Collector) note(result *Result, diagnostic Diagnostic) {
	result.Diagnostics = append(result.Diagnostics, diagnostic)

	event := c.logger.Warn().
		Str("path", diagnostic.Path).
		Str("method", diagnostic.Method)
	if diagnostic.OperationID != "" {
		event = event.Str("operation", diagnostic.OperationID)
	}
	if diagnostic.Err != nil {
		event = event.Err(diagnostic.Err)
	}
	event.Msg(diagnostic.Message)
}
