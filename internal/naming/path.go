package naming

import "strings"

// NormalizePath rewrites every "{name}" placeholder of a path template into
// ":snake_name", leftmost first, until no "{" remains. An opening brace
// without a closing one is dropped and the text after it is kept.
func NormalizePath(path string) string {
	for {
		left, right, found := strings.Cut(path, "{")
		if !found {
			return path
		}

		name, rest, closed := strings.Cut(right, "}")
		if closed {
			path = left + ":" + Snake(name) + rest
		} else {
			path = left + right
		}
	}
}

// PathParams returns the placeholder names of a path template, in order
func PathParams(path string) []string {
	var names []string
	for {
		_, right, found := strings.Cut(path, "{")
		if !found {
			return names
		}
		name, rest, closed := strings.Cut(right, "}")
		if !closed {
			return names
		}
		names = append(names, name)
		path = rest
	}
}
