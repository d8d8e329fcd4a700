// Package emit validates generated sources and writes them to the output
// directory. Nothing is written unless every artifact parses.
package emit

import (
	"errors"
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"golang.org/x/tools/imports"

	"github.com/okra-platform/oasgen/internal/codegen/model"
)

// ErrInvalidSource is returned when a generated artifact is not valid Go
var ErrInvalidSource = errors.New("generated source does not parse")

// RawSuffix is appended to the file name of the unformatted dump
const RawSuffix = ".src"

var formatOptions = &imports.Options{
	FormatOnly: true,
	Comments:   true,
	TabIndent:  true,
	TabWidth:   8,
}

// Emitter writes artifacts below an output directory
type Emitter struct {
	outDir string
	logger zerolog.Logger
}

// NewEmitter creates an emitter writing below outDir
func NewEmitter(outDir string, logger zerolog.Logger) *Emitter {
	return &Emitter{
		outDir: outDir,
		logger: logger,
	}
}

// Emit validates and formats every artifact, then writes the raw dump and
// the formatted file of each. It returns the written formatted files.
func (e *Emitter) Emit(artifacts []model.Artifact) ([]string, error) {
	formatted := make([][]byte, len(artifacts))
	for i, artifact := range artifacts {
		if err := Validate(artifact); err != nil {
			return nil, err
		}

		src, err := Format(artifact)
		if err != nil {
			return nil, err
		}
		formatted[i] = src
	}

	var written []string
	for i, artifact := range artifacts {
		target := filepath.Join(e.outDir, filepath.FromSlash(artifact.Path))
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return written, fmt.Errorf("failed to create output directory: %w", err)
		}

		if err := os.WriteFile(target+RawSuffix, artifact.Source, 0644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", target+RawSuffix, err)
		}
		if err := os.WriteFile(target, formatted[i], 0644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", target, err)
		}

		e.logger.Debug().
			Str("file", target).
			Int("bytes", len(formatted[i])).
			Msg("wrote artifact")

		written = append(written, target)
	}

	e.logger.Info().
		Str("output", e.outDir).
		Int("files", len(written)).
		Msg("generation complete")

	return written, nil
}

// Validate parses an artifact as a Go source file
func Validate(artifact model.Artifact) error {
	fset := token.NewFileSet()
	if _, err := parser.ParseFile(fset, artifact.Path, artifact.Source, parser.AllErrors); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidSource, artifact.Path, err)
	}
	return nil
}

// Format pretty-prints an artifact without touching its imports
func Format(artifact model.Artifact) ([]byte, error) {
	src, err := imports.Process(artifact.Path, artifact.Source, formatOptions)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSource, artifact.Path, err)
	}
	return src, nil
}
