package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/okra-platform/oasgen/internal/codegen"
	"github.com/okra-platform/oasgen/internal/config"
	"github.com/okra-platform/oasgen/internal/openapi"
)

var packagePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// InitOptions are the answers of the init form
type InitOptions struct {
	Document  string
	OutputDir string
	Target    string
	Package   string
}

type FileSystem interface {
	Stat(name string) (os.FileInfo, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
	Getwd() (string, error)
}

type osFileSystem struct{}

func (fs *osFileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (fs *osFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

func (fs *osFileSystem) Getwd() (string, error) {
	return os.Getwd()
}

type InitCommand struct {
	filesystem FileSystem
	output     Output
	targets    []string
	// For testing: if set, skip prompting
	testOptions *InitOptions
}

func NewInitCommand() *InitCommand {
	return &InitCommand{
		filesystem: &osFileSystem{},
		output:     &defaultOutput{},
		targets:    codegen.DefaultRegistry.Names(),
	}
}

func (ic *InitCommand) Run(ctx context.Context) error {
	return ic.RunWithOptions(ctx)
}

func (ic *InitCommand) RunWithOptions(ctx context.Context, opts ...tea.ProgramOption) error {
	dir, err := ic.filesystem.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	configPath := filepath.Join(dir, config.FileName)
	if _, err := ic.filesystem.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists", configPath)
	}

	var options *InitOptions

	// For testing: use provided options instead of prompting
	if ic.testOptions != nil {
		options = ic.testOptions
	} else {
		options, err = ic.promptInitOptions(opts...)
		if err != nil {
			return fmt.Errorf("failed to get init options: %w", err)
		}
	}

	cfg := config.Default()
	cfg.Document = options.Document
	cfg.Output.Dir = options.OutputDir
	cfg.Target = options.Target
	cfg.Output.Package = options.Package

	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	if err := config.Validate(data); err != nil {
		return err
	}
	if err := ic.filesystem.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	ic.output.Printf("✅ Created %s\n", configPath)
	ic.output.Println("Run `oasgen generate` to generate the server")
	return nil
}

func (ic *InitCommand) promptInitOptions(opts ...tea.ProgramOption) (*InitOptions, error) {
	defaults := config.Default()
	options := &InitOptions{
		Document:  defaults.Document,
		OutputDir: defaults.Output.Dir,
		Target:    defaults.Target,
		Package:   defaults.Output.Package,
	}

	form := ic.createInitForm(options)

	if len(opts) > 0 {
		// For testing: run with provided options
		program := tea.NewProgram(form, opts...)
		if _, err := program.Run(); err != nil {
			return nil, err
		}
	} else {
		if err := form.Run(); err != nil {
			return nil, err
		}
	}

	return options, nil
}

func (ic *InitCommand) createInitForm(options *InitOptions) *huh.Form {
	targets := make([]huh.Option[string], 0, len(ic.targets))
	for _, name := range ic.targets {
		targets = append(targets, huh.NewOption(name, name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("API document").
				Description("Path of the OpenAPI document (.json, .yaml or .yml)").
				Value(&options.Document).
				Validate(validateDocument),

			huh.NewInput().
				Title("Output directory").
				Description("Directory the server code is generated into").
				Value(&options.OutputDir).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("output directory cannot be empty")
					}
					return nil
				}),

			huh.NewSelect[string]().
				Title("Framework").
				Description("Router framework of the generated code").
				Options(targets...).
				Value(&options.Target),

			huh.NewInput().
				Title("Package").
				Description("Go package of the routers and the server").
				Value(&options.Package).
				Validate(validatePackage),
		),
	)
}

func validateDocument(s string) error {
	if s == "" {
		return errors.New("document cannot be empty")
	}
	if _, err := openapi.DetectFormat(s); err != nil {
		return err
	}
	return nil
}

func validatePackage(s string) error {
	if !packagePattern.MatchString(s) {
		return fmt.Errorf("%q is not a valid package name", s)
	}
	return nil
}
