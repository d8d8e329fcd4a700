// Package openapi loads API description documents and resolves the
// references they contain.
package openapi

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/iancoleman/orderedmap"
)

// Format identifies the encoding of a document
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Document is a loaded API description. It is read-only once loaded.
type Document struct {
	// API is the decoded document. References are left unresolved.
	API *openapi3.T

	// pathOrder holds the path templates in the order they appear in the source
	pathOrder []string
}

// NewDocument wraps an already decoded document. Paths are visited in
// lexical order since no source order is known.
func NewDocument(api *openapi3.T) *Document {
	return &Document{API: api}
}

// DetectFormat picks the document format from a file name
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, path)
	}
}

// LoadFile reads and decodes the document at path
func LoadFile(path string) (*Document, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", path, err)
	}

	return Load(data, format)
}

// Load decodes a document. Fields outside the supported subset are ignored.
func Load(data []byte, format Format) (*Document, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, ErrEmptyInput
	}

	switch format {
	case FormatJSON:
	case FormatYAML:
		converted, err := yamlToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		data = converted
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, format)
	}

	var api openapi3.T
	if err := json.Unmarshal(data, &api); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	order, err := pathOrder(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return &Document{API: &api, pathOrder: order}, nil
}

// pathOrder returns the keys of the paths object in source order
func pathOrder(data []byte) ([]string, error) {
	var raw struct {
		Paths *orderedmap.OrderedMap `json:"paths"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw.Paths == nil {
		return nil, nil
	}
	return raw.Paths.Keys(), nil
}

// PathTemplates returns every path template of the document, in source order.
// Templates not seen at load time follow in lexical order.
func (d *Document) PathTemplates() []string {
	if d.API == nil || d.API.Paths == nil {
		return nil
	}

	items := d.API.Paths.Map()
	templates := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))

	for _, template := range d.pathOrder {
		if _, ok := items[template]; ok && !seen[template] {
			templates = append(templates, template)
			seen[template] = true
		}
	}

	var rest []string
	for template := range items {
		if !seen[template] {
			rest = append(rest, template)
		}
	}
	sort.Strings(rest)

	return append(templates, rest...)
}

// PathItem returns the item registered under a path template
func (d *Document) PathItem(template string) *openapi3.PathItem {
	if d.API == nil || d.API.Paths == nil {
		return nil
	}
	return d.API.Paths.Value(template)
}

// HasComponents reports whether the document declares a components section
func (d *Document) HasComponents() bool {
	return d.API != nil && d.API.Components != nil
}
