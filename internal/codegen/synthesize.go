package codegen

import (
	"mime"
	"strconv"
	"strings"

	"github.com/okra-platform/oasgen/internal/codegen/model"
	"github.com/okra-platform/oasgen/internal/collect"
	"github.com/okra-platform/oasgen/internal/naming"
)

// Synthesize builds the handler stubs of one descriptor: a single stub when
// the operation takes no body, otherwise one stub per content type.
func Synthesize(d *collect.Descriptor) []model.Stub {
	base := model.Stub{
		Name:        d.OperationID,
		OperationID: d.OperationID,
		Method:      d.Method,
		Path:        d.Path,
		Params:      params(d.PathParams),
		Summary:     d.Summary,
	}

	contentTypes := d.ContentTypes()
	if len(contentTypes) == 0 {
		base.Symbol = naming.GoName(base.Name)
		return []model.Stub{base}
	}

	stubs := make([]model.Stub, 0, len(contentTypes))
	for _, contentType := range contentTypes {
		stub := base
		stub.Params = append([]model.Param(nil), base.Params...)
		stub.Name = d.OperationID + "_" + naming.ContentTypeSuffix(contentType)
		stub.Symbol = naming.GoName(stub.Name)
		stub.ContentType = contentType
		stub.BodyRequired = d.BodyRequired()
		stub.JSONBody = IsJSON(contentType)
		stub.Schema = d.BodySchemas[contentType]
		stubs = append(stubs, stub)
	}
	return stubs
}

// Entries returns the route entry of every stub
func Entries(stubs []model.Stub) []model.RouteEntry {
	entries := make([]model.RouteEntry, 0, len(stubs))
	for _, stub := range stubs {
		entries = append(entries, model.RouteEntry{
			Path:        stub.Path,
			Method:      stub.Method,
			Handler:     stub.Name,
			Symbol:      stub.Symbol,
			ContentType: stub.ContentType,
			OperationID: stub.OperationID,
		})
	}
	return entries
}

// IsJSON reports whether a content type carries a JSON document
func IsJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	return mediaType == "application/json" ||
		mediaType == "text/json" ||
		strings.HasSuffix(mediaType, "+json")
}

// params assigns every path parameter a distinct local variable
func params(names []string) []model.Param {
	result := make([]model.Param, 0, len(names))
	used := make(map[string]bool)
	for _, name := range names {
		local := naming.LocalName(name)
		for i := 2; used[local]; i++ {
			local = naming.LocalName(name) + strconv.Itoa(i)
		}
		used[local] = true
		result = append(result, model.Param{Name: name, Local: local})
	}
	return result
}
