package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/okra-platform/oasgen/internal/codegen"
	"github.com/okra-platform/oasgen/internal/collect"
	"github.com/okra-platform/oasgen/internal/config"
	"github.com/okra-platform/oasgen/internal/emit"
	"github.com/okra-platform/oasgen/internal/openapi"
)

// ConfigLoader finds and reads the project configuration
type ConfigLoader interface {
	LoadConfig() (*config.Config, string, error)
	LoadConfigFromPath(path string) (*config.Config, error)
}

type defaultConfigLoader struct{}

func (l *defaultConfigLoader) LoadConfig() (*config.Config, string, error) {
	return config.LoadConfig()
}

func (l *defaultConfigLoader) LoadConfigFromPath(path string) (*config.Config, error) {
	return config.LoadConfigFromPath(path)
}

// GenerateDependencies for the generate command
type GenerateDependencies struct {
	ConfigLoader ConfigLoader
	Registry     *codegen.Registry
	Output       Output
	Logger       zerolog.Logger
	WorkDir      func() (string, error)
}

// Settings is the resolved configuration of a run, with absolute paths
type Settings struct {
	Root           string
	Document       string
	OutDir         string
	Target         string
	Package        string
	HandlersImport string
	Strict         bool
	Exclude        []string
	Debounce       time.Duration
}

// Summary describes the outcome of a run
type Summary struct {
	Files       []string
	Tags        int
	Operations  int
	Diagnostics []collect.Diagnostic
}

// GenerateCommand encapsulates the generate logic with injected dependencies
type GenerateCommand struct {
	flags *Flags
	deps  GenerateDependencies
}

// NewGenerateCommand creates a new generate command with default dependencies
func NewGenerateCommand(flags *Flags) *GenerateCommand {
	if flags == nil {
		flags = &Flags{}
	}
	return &GenerateCommand{
		flags: flags,
		deps: GenerateDependencies{
			ConfigLoader: &defaultConfigLoader{},
			Registry:     codegen.DefaultRegistry,
			Output:       &defaultOutput{},
			Logger:       log.Logger,
			WorkDir:      os.Getwd,
		},
	}
}

// WithDependencies allows injecting custom dependencies for testing
func (gc *GenerateCommand) WithDependencies(deps GenerateDependencies) *GenerateCommand {
	gc.deps = deps
	return gc
}

// Execute resolves the settings and runs one generation
func (gc *GenerateCommand) Execute(ctx context.Context) error {
	settings, err := gc.Settings()
	if err != nil {
		return err
	}

	summary, err := gc.Run(ctx, settings)
	if err != nil {
		return err
	}

	gc.report(settings, summary)
	return nil
}

// Settings merges the configuration file, the environment and the flags
func (gc *GenerateCommand) Settings() (*Settings, error) {
	cfg, root, err := gc.loadConfig()
	if err != nil {
		return nil, err
	}

	// Paths given as flags are relative to the working directory
	f := gc.flags
	if f.Document != "" || f.Output != "" {
		cwd, err := gc.deps.WorkDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		if f.Document != "" {
			cfg.Document = absolute(cwd, f.Document)
		}
		if f.Output != "" {
			cfg.Output.Dir = absolute(cwd, f.Output)
		}
	}
	if f.Target != "" {
		cfg.Target = f.Target
	}
	if f.Package != "" {
		cfg.Output.Package = f.Package
	}
	if f.Module != "" {
		cfg.Output.Module = f.Module
	}
	if f.Strict {
		cfg.Strict = true
	}

	settings := &Settings{
		Root:     root,
		Document: absolute(root, cfg.Document),
		OutDir:   absolute(root, cfg.Output.Dir),
		Target:   cfg.Target,
		Package:  cfg.Output.Package,
		Strict:   cfg.Strict,
		Exclude:  cfg.Watch.Exclude,
		Debounce: time.Duration(cfg.Watch.DebounceMS) * time.Millisecond,
	}

	importPath, err := cfg.OutputImportPath(settings.OutDir)
	if err != nil {
		importPath = filepath.Base(settings.OutDir)
		gc.deps.Logger.Warn().
			Err(err).
			Str("import", importPath).
			Msg("cannot derive the import path of the output directory, set output.module")
	}
	settings.HandlersImport = path.Join(importPath, codegen.HandlersPackage)

	return settings, nil
}

func (gc *GenerateCommand) loadConfig() (*config.Config, string, error) {
	if gc.flags.Config != "" {
		cfg, err := gc.deps.ConfigLoader.LoadConfigFromPath(gc.flags.Config)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		root, err := filepath.Abs(filepath.Dir(gc.flags.Config))
		if err != nil {
			return nil, "", fmt.Errorf("failed to resolve config directory: %w", err)
		}
		return cfg, root, nil
	}

	cfg, root, err := gc.deps.ConfigLoader.LoadConfig()
	if err == nil {
		return cfg, root, nil
	}
	if !errors.Is(err, config.ErrNotFound) {
		return nil, "", fmt.Errorf("failed to load config: %w", err)
	}

	root, err = gc.deps.WorkDir()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get current directory: %w", err)
	}
	gc.deps.Logger.Debug().Str("root", root).Msg("no " + config.FileName + ", using defaults")

	cfg = config.Default()
	if err := cfg.ApplyEnv(); err != nil {
		return nil, "", err
	}
	return cfg, root, nil
}

// Run loads the document, generates every artifact and writes them
func (gc *GenerateCommand) Run(ctx context.Context, settings *Settings) (*Summary, error) {
	logger := gc.deps.Logger

	target, err := gc.deps.Registry.Get(settings.Target)
	if err != nil {
		return nil, err
	}

	doc, err := openapi.LoadFile(settings.Document)
	if err != nil {
		return nil, err
	}

	result, err := collect.Collect(doc,
		collect.WithLogger(logger),
		collect.WithStrict(settings.Strict))
	if err != nil {
		return nil, fmt.Errorf("failed to collect operations: %w", err)
	}

	artifacts, err := codegen.Generate(result.Groups, target,
		codegen.WithPackage(settings.Package),
		codegen.WithHandlersImport(settings.HandlersImport),
		codegen.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to generate code: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	files, err := emit.NewEmitter(settings.OutDir, logger).Emit(artifacts)
	if err != nil {
		return nil, err
	}

	return &Summary{
		Files:       files,
		Tags:        result.Groups.Len(),
		Operations:  result.Groups.Count(),
		Diagnostics: result.Diagnostics,
	}, nil
}

func (gc *GenerateCommand) report(settings *Settings, summary *Summary) {
	out := gc.deps.Output
	out.Printf("✅ Generated %d operations in %d tags for %s\n", summary.Operations, summary.Tags, settings.Target)
	out.Printf("📁 Output: %s\n", settings.OutDir)
	if len(summary.Diagnostics) > 0 {
		out.Printf("⚠️  %d problems were skipped:\n", len(summary.Diagnostics))
		for _, diagnostic := range summary.Diagnostics {
			out.Printf("   %s\n", diagnostic)
		}
	}
}

func absolute(root, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}
