// Package operation provides the mutate, clean and stale-check operations
// that drive the whole run.
package operation

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/xmlpoke/pkg/config"
	"github.com/walteh/xmlpoke/pkg/log"
	"github.com/walteh/xmlpoke/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Operation is one executable unit of work
type Operation interface {
	Execute(ctx context.Context) error
}

// 📦 OutputDescriptor is produced once per primary input file; it mirrors
// the input's tag onto the mutated file's new location
type OutputDescriptor struct {
	Path string // Destination path of the mutated primary
	Tag  string // Opaque caller metadata, carried through unchanged
}

// 🔧 Options contains configuration for operations
type Options struct {
	// Config is the run configuration
	Config *config.Config
	// Files manages the output tree and per-file status
	Files *status.Manager
	// Logger is used for structured diagnostics
	Logger *zerolog.Logger
	// Console, when set, receives human-readable per-file output
	Console *log.Logger
}

// 🏗️ BaseOperation carries the shared dependencies of every operation
type BaseOperation struct {
	Config  *config.Config
	Files   *status.Manager
	Logger  *zerolog.Logger
	Console *log.Logger
}

// 🏭 NewBaseOperation validates and captures shared options
func NewBaseOperation(opts Options) BaseOperation {
	return BaseOperation{
		Config:  opts.Config,
		Files:   opts.Files,
		Logger:  opts.Logger,
		Console: opts.Console,
	}
}

// validate checks that the shared dependencies are present
func (op *BaseOperation) validate() error {
	if op.Config == nil {
		return errors.New("config is required")
	}
	if op.Files == nil {
		return errors.New("file manager is required")
	}
	return nil
}
