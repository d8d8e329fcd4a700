// Package codegen turns collected descriptors into Go source artifacts for a
// router framework target.
package codegen

import "github.com/okra-platform/oasgen/internal/codegen/model"

// Target is the interface every router framework target must implement
type Target interface {
	// Name returns the name of the target framework (e.g., "gin", "echo")
	Name() string

	// Handlers renders the handler module of one tag
	Handlers(file *model.HandlerFile) ([]byte, error)

	// Router renders the router module of one tag
	Router(file *model.RouterFile) ([]byte, error)

	// Server renders the aggregate server nesting every tag router
	Server(file *model.ServerFile) ([]byte, error)
}
