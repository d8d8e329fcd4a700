package echo

import (
	"go/parser"
	"go/token"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okra-platform/oasgen/internal/codegen/model"
)

func parse(t *testing.T, src []byte) []string {
	t.Helper()
	file, err := parser.ParseFile(token.NewFileSet(), "generated.go", src, parser.AllErrors)
	if err != nil {
		t.Logf("Generated code:\n%s", src)
		t.Fatalf("generated code does not parse: %v", err)
	}
	var imports []string
	for _, spec := range file.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		require.NoError(t, err)
		imports = append(imports, path)
	}
	return imports
}

func TestTarget_Handlers(t *testing.T) {
	tests := []struct {
		name     string
		stub     model.Stub
		imports  []string
		contains []string
	}{
		{
			name: "no body",
			stub: model.Stub{
				Symbol: "GetPetById", Method: "GET", Path: "/pets/:pet_id",
				Params: []model.Param{{Name: "pet_id", Local: "petId"}},
			},
			imports: []string{"net/http", echoImport},
			contains: []string{
				"func GetPetById(c echo.Context) error {",
				`petId := c.Param("pet_id")`,
				"return c.JSON(http.StatusOK, map[string]any{",
				`"params":  []string{petId},`,
			},
		},
		{
			name: "required json",
			stub: model.Stub{
				Symbol: "AddPetApplicationJson", Method: "POST", Path: "/pets",
				ContentType: "application/json", JSONBody: true, BodyRequired: true,
			},
			imports: []string{"encoding/json", "net/http", echoImport},
			contains: []string{
				"if err := json.NewDecoder(c.Request().Body).Decode(&body); err != nil {",
				`"body":    body,`,
			},
		},
		{
			name: "optional json",
			stub: model.Stub{
				Symbol: "AddPetApplicationJson", Method: "POST", Path: "/pets",
				ContentType: "application/json", JSONBody: true,
			},
			imports: []string{"encoding/json", "errors", "io", "net/http", echoImport},
			contains: []string{
				"err != nil && !errors.Is(err, io.EOF) {",
			},
		},
		{
			name: "required raw",
			stub: model.Stub{
				Symbol: "AddPetApplicationXml", Method: "PUT", Path: "/pets",
				ContentType: "application/xml", BodyRequired: true,
			},
			imports: []string{"io", "net/http", echoImport},
			contains: []string{
				"body, err := io.ReadAll(c.Request().Body)",
				"if len(body) == 0 {",
				`"body":    string(body),`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := NewTarget().Handlers(&model.HandlerFile{
				Package: "handlers",
				Stubs:   []model.Stub{tt.stub},
			})
			require.NoError(t, err)

			assert.Equal(t, tt.imports, parse(t, src))
			for _, fragment := range tt.contains {
				assert.Contains(t, string(src), fragment)
			}
		})
	}
}

func TestTarget_Router(t *testing.T) {
	src, err := NewTarget().Router(&model.RouterFile{
		Package:        "server",
		HandlersImport: "example.com/petstore/gen/handlers",
		Name:           "Pets",
		Routes: []model.Route{
			{Method: "GET", Path: "/pets/:pet_id", Variants: []model.Variant{{Symbol: "GetPetById"}}},
			{Method: "PUT", Path: "/pets", Variants: []model.Variant{
				{ContentType: "application/json", Symbol: "UpdatePetApplicationJson"},
				{ContentType: "text/plain", Symbol: "UpdatePetTextPlain"},
			}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{echoImport, "example.com/petstore/gen/handlers"}, parse(t, src))

	code := string(src)
	assert.Contains(t, code, "func PetsRouter() *echo.Echo {")
	assert.Contains(t, code, `registerPets(e.Group(""))`)
	assert.Contains(t, code, `g.GET("/pets/:pet_id", handlers.GetPetById)`)
	assert.Contains(t, code, `g.PUT("/pets", byContentType(map[string]echo.HandlerFunc{`)
	assert.Contains(t, code, `"text/plain": handlers.UpdatePetTextPlain,`)
}

func TestTarget_Server(t *testing.T) {
	src, err := NewTarget().Server(&model.ServerFile{
		Package: "server",
		Routers: []string{"Pets"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"mime", "net/http", echoImport}, parse(t, src))
	assert.Contains(t, string(src), "func Server() *echo.Echo {")
	assert.Contains(t, string(src), `registerPets(e.Group(""))`)
}
