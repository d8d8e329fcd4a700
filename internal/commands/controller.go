// Package commands contains the CLI commands for the application
package commands

import (
	"context"
	"fmt"
	"os"
)

// Flags holds the command line flags shared by the commands
type Flags struct {
	LogLevel string
	Config   string
	Document string
	Output   string
	Target   string
	Package  string
	Module   string
	Strict   bool
}

type Controller struct {
	Flags *Flags
}

// Generate runs one generation
func (c *Controller) Generate(ctx context.Context) error {
	return NewGenerateCommand(c.Flags).Execute(ctx)
}

// Watch regenerates whenever the document changes
func (c *Controller) Watch(ctx context.Context) error {
	return NewWatchCommand(c.Flags).Execute(ctx)
}

// Init writes a new configuration file
func (c *Controller) Init(ctx context.Context) error {
	return NewInitCommand().Run(ctx)
}

// Output receives user facing messages
type Output interface {
	Printf(format string, args ...any)
	Println(args ...any)
}

type defaultOutput struct{}

func (o *defaultOutput) Printf(format string, args ...any) {
	fmt.Fprintf(os.Stdout, format, args...)
}

func (o *defaultOutput) Println(args ...any) {
	fmt.Fprintln(os.Stdout, args...)
}
