package codegen

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/rs/zerolog"

	"github.com/okra-platform/oasgen/internal/codegen/model"
	"github.com/okra-platform/oasgen/internal/codegen/writer"
	"github.com/okra-platform/oasgen/internal/collect"
	"github.com/okra-platform/oasgen/internal/naming"
)

var (
	// ErrDuplicateRoute is returned when two operations share a path and method
	ErrDuplicateRoute = errors.New("duplicate route")
	// ErrDuplicateSymbol is returned when two handlers get the same Go name
	ErrDuplicateSymbol = errors.New("duplicate handler symbol")
	// ErrDuplicateTag is returned when two tags map to the same module
	ErrDuplicateTag = errors.New("duplicate tag module")
)

const (
	// DefaultPackage is the package of the router modules and the aggregate server
	DefaultPackage = "server"
	// HandlersPackage is the package, and output subdirectory, of the handler modules
	HandlersPackage = "handlers"
	// ModulesVar is the variable of the module index
	ModulesVar = "Modules"
)

type routeKey struct {
	path   string
	method string
}

// Generator synthesizes the artifacts of one run. A Generator tracks every
// route and symbol it produced, so it must not be reused across runs.
type Generator struct {
	target         Target
	pkg            string
	handlersImport string
	logger         zerolog.Logger

	routes  map[routeKey]string
	symbols map[string]string
	modules map[string]string
}

// Option configures a Generator
type Option func(*Generator)

// WithPackage sets the package name of the router modules and the server
func WithPackage(pkg string) Option {
	return func(g *Generator) {
		if pkg != "" {
			g.pkg = pkg
		}
	}
}

// WithHandlersImport sets the import path of the generated handlers package
func WithHandlersImport(importPath string) Option {
	return func(g *Generator) {
		g.handlersImport = importPath
	}
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// NewGenerator creates a generator rendering through target
func NewGenerator(target Target, opts ...Option) *Generator {
	g := &Generator{
		target:         target,
		pkg:            DefaultPackage,
		handlersImport: HandlersPackage,
		logger:         zerolog.Nop(),
		routes:         make(map[routeKey]string),
		symbols:        map[string]string{ModulesVar: "module index"},
		modules:        make(map[string]string),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate renders a handler module and a router module per tag, then the
// module index and the aggregate server.
func Generate(groups *collect.Groups, target Target, opts ...Option) ([]model.Artifact, error) {
	return NewGenerator(target, opts...).Generate(groups)
}

// Generate renders every artifact of groups
func (g *Generator) Generate(groups *collect.Groups) ([]model.Artifact, error) {
	var artifacts []model.Artifact
	var modules, routers []string

	for _, tag := range groups.Tags() {
		module := TagModule(tag)
		if owner, exists := g.modules[module]; exists {
			return nil, fmt.Errorf("%w: tags %q and %q both map to %q", ErrDuplicateTag, owner, tag, module)
		}
		g.modules[module] = tag

		stubs, err := g.stubs(groups.Get(tag))
		if err != nil {
			return nil, fmt.Errorf("tag %q: %w", tag, err)
		}

		handlers, err := g.target.Handlers(&model.HandlerFile{
			Package: HandlersPackage,
			Tag:     tag,
			Stubs:   stubs,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to render handlers of tag %q: %w", tag, err)
		}
		artifacts = append(artifacts, g.artifact(path.Join(HandlersPackage, module+"_handlers.go"), handlers))

		routes, err := g.assemble(Entries(stubs))
		if err != nil {
			return nil, fmt.Errorf("tag %q: %w", tag, err)
		}

		name := naming.GoName(module)
		router, err := g.target.Router(&model.RouterFile{
			Package:        g.pkg,
			HandlersImport: g.handlersImport,
			Tag:            tag,
			Name:           name,
			Routes:         routes,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to render router of tag %q: %w", tag, err)
		}
		artifacts = append(artifacts, g.artifact(RouterFileName(module), router))

		modules = append(modules, module+"_handlers")
		routers = append(routers, name)
	}

	artifacts = append(artifacts, g.artifact(path.Join(HandlersPackage, "mod.go"), ModIndex(HandlersPackage, modules)))

	server, err := g.target.Server(&model.ServerFile{
		Package: g.pkg,
		Routers: routers,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render server: %w", err)
	}
	artifacts = append(artifacts, g.artifact("lib.go", server))

	g.logger.Debug().
		Str("target", g.target.Name()).
		Int("tags", len(routers)).
		Int("handlers", len(g.symbols)-1).
		Int("artifacts", len(artifacts)).
		Msg("generated artifacts")

	return artifacts, nil
}

func (g *Generator) stubs(descriptors []*collect.Descriptor) ([]model.Stub, error) {
	var stubs []model.Stub
	for _, d := range descriptors {
		for _, stub := range Synthesize(d) {
			if owner, exists := g.symbols[stub.Symbol]; exists {
				return nil, fmt.Errorf("%w: %s is generated for both %s and %s", ErrDuplicateSymbol, stub.Symbol, owner, stub.Name)
			}
			g.symbols[stub.Symbol] = stub.Name
			stubs = append(stubs, stub)
		}
	}
	return stubs, nil
}

// assemble merges route entries into registrations. Entries of one operation
// that share a routing key become content type variants of one route.
func (g *Generator) assemble(entries []model.RouteEntry) ([]model.Route, error) {
	var routes []model.Route
	index := make(map[routeKey]int)

	for _, entry := range entries {
		key := routeKey{path: entry.Path, method: entry.Method}
		if owner, exists := g.routes[key]; exists && owner != entry.OperationID {
			return nil, fmt.Errorf("%w: %s %s is declared by %s and %s", ErrDuplicateRoute, entry.Method, entry.Path, owner, entry.OperationID)
		}
		g.routes[key] = entry.OperationID

		variant := model.Variant{ContentType: entry.ContentType, Symbol: entry.Symbol}
		if i, exists := index[key]; exists {
			routes[i].Variants = append(routes[i].Variants, variant)
			continue
		}
		index[key] = len(routes)
		routes = append(routes, model.Route{
			Method:   entry.Method,
			Path:     entry.Path,
			Variants: []model.Variant{variant},
		})
	}
	return routes, nil
}

func (g *Generator) artifact(name string, source []byte) model.Artifact {
	g.logger.Debug().Str("artifact", name).Int("bytes", len(source)).Msg("rendered artifact")
	return model.Artifact{Path: name, Source: source}
}

// TagModule returns the snake case module name of a tag
func TagModule(tag string) string {
	module := naming.Snake(tag)
	if module == "" {
		return "tag"
	}
	return module
}

// RouterFileName returns the router file of a tag module. Names that would
// clash with the server file or be taken for a test file get a suffix.
func RouterFileName(module string) string {
	if module == "lib" || strings.HasSuffix(module, "_test") {
		module += "_routes"
	}
	return module + ".go"
}

// ModIndex renders the module index of the handlers package
func ModIndex(pkg string, modules []string) []byte {
	w := writer.NewWriter("\t")
	w.WriteHeader(pkg)
	w.WriteComment(ModulesVar + " lists the generated handler modules")
	w.WriteBlock("var "+ModulesVar+" = []string{", "}", func() {
		for _, module := range modules {
			w.WriteLinef("%q,", module)
		}
	})
	return w.Bytes()
}
