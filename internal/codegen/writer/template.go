package writer

import (
	"bytes"
	"fmt"
	"strconv"
	"text/template"
)

// TemplateFuncs are the helpers available to source templates
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"header": func() string { return Header },
		"quote":  strconv.Quote,
	}
}

// Render executes the named template of t into source text
func Render(t *template.Template, name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
