package codegen

import (
	"github.com/okra-platform/oasgen/internal/codegen/echo"
	"github.com/okra-platform/oasgen/internal/codegen/gin"
)

// DefaultTarget is used when no target is configured
const DefaultTarget = "gin"

// DefaultRegistry is the global registry instance with pre-registered targets
var DefaultRegistry = NewRegistry()

func init() {
	DefaultRegistry.Register("gin", func() Target {
		return gin.NewTarget()
	})

	DefaultRegistry.Register("echo", func() Target {
		return echo.NewTarget()
	})
}
