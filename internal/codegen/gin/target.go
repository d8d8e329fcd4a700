// Package gin renders generated modules for the gin router
package gin

import (
	"embed"
	"text/template"

	"github.com/okra-platform/oasgen/internal/codegen/model"
	"github.com/okra-platform/oasgen/internal/codegen/writer"
)

const ginImport = "github.com/gin-gonic/gin"

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("gin").Funcs(writer.TemplateFuncs()).ParseFS(templateFS, "templates/*.tmpl"))

// Target generates gin handlers and routers
type Target struct{}

// NewTarget creates a new gin target
func NewTarget() *Target {
	return &Target{}
}

// Name returns the name of the target framework
func (t *Target) Name() string {
	return "gin"
}

// Router renders the router module of one tag
func (t *Target) Router(file *model.RouterFile) ([]byte, error) {
	return writer.Render(templates, "router.go.tmpl", file)
}

// Server renders the aggregate server
func (t *Target) Server(file *model.ServerFile) ([]byte, error) {
	return writer.Render(templates, "server.go.tmpl", file)
}

// Handlers renders one gin handler per stub
func (t *Target) Handlers(file *model.HandlerFile) ([]byte, error) {
	w := writer.NewWriter("\t")
	w.WriteHeader(file.Package)

	std := []string{"net/http"}
	if tolerateEmptyJSON(file.Stubs) {
		std = []string{"errors", "io", "net/http"}
	}
	w.WriteImports(std, []string{ginImport})

	for _, stub := range file.Stubs {
		t.generateStub(w, stub)
		w.BlankLine()
	}

	return w.Bytes(), nil
}

// generateStub writes a handler echoing its path parameters and body
func (t *Target) generateStub(w *writer.Writer, stub model.Stub) {
	w.WriteCommentf("%s handles %s %s", stub.Symbol, stub.Method, stub.Path)
	if stub.Summary != "" {
		w.WriteComment(stub.Summary)
	}
	if stub.Schema != "" {
		w.WriteCommentf("The %s body is a %s.", stub.ContentType, stub.Schema)
	}

	w.WriteBlock("func "+stub.Symbol+"(c *gin.Context) {", "}", func() {
		for _, param := range stub.Params {
			w.WriteLinef("%s := c.Param(%q)", param.Local, param.Name)
		}

		switch {
		case stub.HasBody() && stub.JSONBody:
			t.bindJSON(w, stub)
		case stub.HasBody():
			t.readRaw(w, stub)
		}

		w.WriteBlock("c.JSON(http.StatusOK, gin.H{", "})", func() {
			w.WriteLine(`"message": "generated with love",`)
			w.WriteLinef(`"params":  %s,`, paramList(stub.Params))
			switch {
			case stub.HasBody() && stub.JSONBody:
				w.WriteLine(`"body":    body,`)
			case stub.HasBody():
				w.WriteLine(`"body":    string(body),`)
			}
		})
	})
}

func (t *Target) bindJSON(w *writer.Writer, stub model.Stub) {
	w.WriteLine("var body any")
	condition := "err != nil"
	if !stub.BodyRequired {
		condition = "err != nil && !errors.Is(err, io.EOF)"
	}
	w.WriteBlock("if err := c.ShouldBindJSON(&body); "+condition+" {", "}", func() {
		badRequest(w, "err.Error()")
	})
}

func (t *Target) readRaw(w *writer.Writer, stub model.Stub) {
	w.WriteLine("body, err := c.GetRawData()")
	w.WriteBlock("if err != nil {", "}", func() {
		badRequest(w, "err.Error()")
	})
	if stub.BodyRequired {
		w.WriteBlock("if len(body) == 0 {", "}", func() {
			badRequest(w, `"request body is required"`)
		})
	}
}

func badRequest(w *writer.Writer, message string) {
	w.WriteLinef(`c.JSON(http.StatusBadRequest, gin.H{"error": %s})`, message)
	w.WriteLine("return")
}

func paramList(params []model.Param) string {
	list := "[]string{"
	for i, param := range params {
		if i > 0 {
			list += ", "
		}
		list += param.Local
	}
	return list + "}"
}

// tolerateEmptyJSON reports whether any stub decodes an optional JSON body
func tolerateEmptyJSON(stubs []model.Stub) bool {
	for _, stub := range stubs {
		if stub.HasBody() && stub.JSONBody && !stub.BodyRequired {
			return true
		}
	}
	return false
}
