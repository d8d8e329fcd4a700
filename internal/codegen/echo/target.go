// Package echo renders generated modules for the echo router
package echo

import (
	"embed"
	"strings"
	"text/template"

	"github.com/okra-platform/oasgen/internal/codegen/model"
	"github.com/okra-platform/oasgen/internal/codegen/writer"
)

const echoImport = "github.com/labstack/echo/v4"

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("echo").Funcs(writer.TemplateFuncs()).ParseFS(templateFS, "templates/*.tmpl"))

// Target generates echo handlers and routers
type Target struct{}

// NewTarget creates a new echo target
func NewTarget() *Target {
	return &Target{}
}

// Name returns the name of the target framework
func (t *Target) Name() string {
	return "echo"
}

// Router renders the router module of one tag
func (t *Target) Router(file *model.RouterFile) ([]byte, error) {
	return writer.Render(templates, "router.go.tmpl", file)
}

// Server renders the aggregate server
func (t *Target) Server(file *model.ServerFile) ([]byte, error) {
	return writer.Render(templates, "server.go.tmpl", file)
}

// Handlers renders one echo handler per stub
func (t *Target) Handlers(file *model.HandlerFile) ([]byte, error) {
	w := writer.NewWriter("\t")
	w.WriteHeader(file.Package)
	w.WriteImports(stdImports(file.Stubs), []string{echoImport})

	for _, stub := range file.Stubs {
		t.generateStub(w, stub)
		w.BlankLine()
	}

	return w.Bytes(), nil
}

func (t *Target) generateStub(w *writer.Writer, stub model.Stub) {
	w.WriteCommentf("%s handles %s %s", stub.Symbol, stub.Method, stub.Path)
	if stub.Summary != "" {
		w.WriteComment(stub.Summary)
	}
	if stub.Schema != "" {
		w.WriteCommentf("The %s body is a %s.", stub.ContentType, stub.Schema)
	}

	w.WriteBlock("func "+stub.Symbol+"(c echo.Context) error {", "}", func() {
		for _, param := range stub.Params {
			w.WriteLinef("%s := c.Param(%q)", param.Local, param.Name)
		}

		if stub.HasBody() {
			if stub.JSONBody {
				t.decodeJSON(w, stub)
			} else {
				t.readRaw(w, stub)
			}
		}

		locals := make([]string, 0, len(stub.Params))
		for _, param := range stub.Params {
			locals = append(locals, param.Local)
		}

		w.WriteBlock("return c.JSON(http.StatusOK, map[string]any{", "})", func() {
			w.WriteLine(`"message": "generated with love",`)
			w.WriteLinef(`"params":  []string{%s},`, strings.Join(locals, ", "))
			if stub.HasBody() {
				if stub.JSONBody {
					w.WriteLine(`"body":    body,`)
				} else {
					w.WriteLine(`"body":    string(body),`)
				}
			}
		})
	})
}

func (t *Target) decodeJSON(w *writer.Writer, stub model.Stub) {
	w.WriteLine("var body any")
	condition := "err != nil"
	if !stub.BodyRequired {
		condition = "err != nil && !errors.Is(err, io.EOF)"
	}
	w.WriteBlock("if err := json.NewDecoder(c.Request().Body).Decode(&body); "+condition+" {", "}", func() {
		w.WriteLine("return echo.NewHTTPError(http.StatusBadRequest, err.Error())")
	})
}

func (t *Target) readRaw(w *writer.Writer, stub model.Stub) {
	w.WriteLine("body, err := io.ReadAll(c.Request().Body)")
	w.WriteBlock("if err != nil {", "}", func() {
		w.WriteLine("return echo.NewHTTPError(http.StatusBadRequest, err.Error())")
	})
	if stub.BodyRequired {
		w.WriteBlock("if len(body) == 0 {", "}", func() {
			w.WriteLine(`return echo.NewHTTPError(http.StatusBadRequest, "request body is required")`)
		})
	}
}

// stdImports returns the standard library packages the stubs use, sorted
func stdImports(stubs []model.Stub) []string {
	var decodes, tolerates, reads bool
	for _, stub := range stubs {
		if !stub.HasBody() {
			continue
		}
		if stub.JSONBody {
			decodes = true
			tolerates = tolerates || !stub.BodyRequired
		} else {
			reads = true
		}
	}

	var imports []string
	if decodes {
		imports = append(imports, "encoding/json")
	}
	if tolerates {
		imports = append(imports, "errors")
	}
	if tolerates || reads {
		imports = append(imports, "io")
	}
	return append(imports, "net/http")
}
