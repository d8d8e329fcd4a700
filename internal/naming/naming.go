// Package naming turns document names into canonical identifiers and
// rewrites path templates into router form.
package naming

import (
	"go/token"
	"strings"
	"unicode"

	"github.com/iancoleman/strcase"
)

// Snake converts a name to canonical snake case. Already snake-cased input is
// returned unchanged, so "getPetById" and "get_pet_by_id" agree.
func Snake(name string) string {
	return strcase.ToSnake(sanitize(name))
}

// GoName converts a name to an exported Go identifier
func GoName(name string) string {
	ident := strcase.ToCamel(Snake(name))
	if ident == "" {
		return "X"
	}
	if unicode.IsDigit(rune(ident[0])) {
		ident = "X" + ident
	}
	return ident
}

// reserved holds names the generated code declares itself
var reserved = map[string]bool{
	"c":        true,
	"body":     true,
	"raw":      true,
	"err":      true,
	"http":     true,
	"fmt":      true,
	"io":       true,
	"errors":   true,
	"gin":      true,
	"echo":     true,
	"handlers": true,
	"params":   true,
	"json":     true,
	"any":      true,
	"string":   true,
	"len":      true,
	"nil":      true,
}

// LocalName converts a snake name to an unexported local variable name that
// does not collide with Go keywords or names used by generated handlers.
func LocalName(name string) string {
	ident := strcase.ToLowerCamel(Snake(name))
	if ident == "" {
		return "param"
	}
	if unicode.IsDigit(rune(ident[0])) {
		ident = "p" + ident
	}
	if token.IsKeyword(ident) || reserved[ident] {
		ident += "Param"
	}
	return ident
}

// ContentTypeSuffix turns a media type into an identifier suffix:
// "application/json" becomes "application_json".
func ContentTypeSuffix(contentType string) string {
	suffix := strings.ReplaceAll(contentType, "/", "_")
	return strings.Map(func(r rune) rune {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, suffix)
}

// sanitize replaces characters that cannot appear in identifiers with spaces
// so that strcase treats them as word boundaries.
func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, name)
}
