// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/xmlpoke/pkg/config"
	"github.com/walteh/xmlpoke/pkg/log"
	"github.com/walteh/xmlpoke/pkg/planner"
	"github.com/walteh/xmlpoke/pkg/sibling"
	"github.com/walteh/xmlpoke/pkg/status"
	"github.com/walteh/xmlpoke/pkg/xmlpatch"
	"gitlab.com/tozd/go/errors"
)

// 📦 NewMutateOperation creates a new mutate operation
func NewMutateOperation(opts Options) *MutateOperation {
	return &MutateOperation{
		BaseOperation: NewBaseOperation(opts),
	}
}

// 📦 MutateOperation patches every primary input, materializes its siblings
// and collects one output descriptor per primary
type MutateOperation struct {
	BaseOperation

	outputs []OutputDescriptor
}

// 📋 Outputs returns the ordered output descriptors, one per primary input
func (op *MutateOperation) Outputs() []OutputDescriptor {
	return op.outputs
}

// 🏃 Execute runs the mutate operation. Primary-file failures abort the
// whole run; sibling failures are isolated per file.
func (op *MutateOperation) Execute(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	if err := op.validate(); err != nil {
		return errors.Errorf("validating options: %w", err)
	}
	cfg := op.Config

	// Compile the mutation before any file is touched
	patcher, err := xmlpatch.New(xmlpatch.Spec{
		XPath:     cfg.XPath,
		Value:     cfg.Value,
		Delete:    cfg.Delete,
		Namespace: cfg.Namespace,
		Prefix:    cfg.Prefix,
	})
	if err != nil {
		return errors.Errorf("preparing mutation: %w", err)
	}

	if cfg.Delete {
		logger.Info().Str("xpath", cfg.XPath).Msg("deleting nodes matched by xpath")
	} else {
		logger.Info().Str("xpath", cfg.XPath).Str("value", cfg.Value).Msg("writing value to nodes matched by xpath")
	}

	// Clean slate: leftover read-only artifacts from a prior run must not
	// block this one
	if err := op.Files.ResetTree(ctx); err != nil {
		return errors.Errorf("resetting output root: %w", err)
	}

	names := primaryNames(cfg.Inputs)

	op.Files.StartOperation(ctx, len(cfg.Inputs))
	defer op.Files.FinishOperation(ctx)

	materializer := sibling.New(patcher, op.Files)

	op.outputs = op.outputs[:0]
	for i, in := range cfg.Inputs {
		dest, matches, err := op.processPrimary(ctx, patcher, in)
		if err != nil {
			return errors.Errorf("processing primary %s: %w", in.Path, err)
		}

		sourceAbs, err := filepath.Abs(in.Path)
		if err != nil {
			return errors.Errorf("resolving %s: %w", in.Path, err)
		}

		if op.Console != nil {
			op.Console.StartRunOperation(ctx, log.RunOperation{
				Source:      in.Path,
				XPath:       cfg.XPath,
				Destination: dest,
				Delete:      cfg.Delete,
			})
			op.Console.LogFileOperation(ctx, log.FileOperation{
				Path:      dest,
				Kind:      "primary",
				Status:    "patched",
				Matches:   matches,
				IsPatched: true,
			})
		}

		results := materializer.Materialize(ctx, sibling.Options{
			SourceDir:      filepath.Dir(sourceAbs),
			DestDir:        filepath.Dir(dest),
			Primary:        sourceAbs,
			PrimaryNames:   names,
			IgnorePatterns: cfg.IgnorePatterns,
		})
		for _, r := range results {
			if r.Err != nil {
				logger.Warn().Err(r.Err).Str("file", r.Path).Msg("sibling not materialized")
			}
			if op.Console != nil {
				op.Console.LogFileOperation(ctx, siblingFileOperation(r))
			}
		}
		if op.Console != nil {
			op.Console.EndRunOperation(ctx)
		}

		op.outputs = append(op.outputs, OutputDescriptor{Path: dest, Tag: in.Tag})
		op.Files.UpdateProgress(ctx, i+1)
	}

	return nil
}

// 📄 processPrimary patches one primary input and saves it at its mirrored
// destination
func (op *MutateOperation) processPrimary(ctx context.Context, patcher *xmlpatch.Patcher, in config.InputFile) (string, int, error) {
	dest, err := planner.Plan(op.Files.BaseDir(), in.Path)
	if err != nil {
		return "", 0, err
	}

	doc, matches, err := patcher.PatchFile(ctx, in.Path)
	if err != nil {
		return "", 0, err
	}

	if err := op.Files.WriteFileAtomic(ctx, dest, doc.XML()); err != nil {
		return "", 0, errors.Errorf("writing %s: %w", dest, err)
	}

	op.Files.TrackFile(ctx, dest, status.FileInfo{
		Path:    dest,
		Status:  status.StatusPatched,
		Matches: matches,
	})

	return dest, matches, nil
}

// siblingFileOperation maps one sibling result onto a console line
func siblingFileOperation(r sibling.Result) log.FileOperation {
	op := log.FileOperation{
		Path:    r.Dest,
		Kind:    "sibling",
		Matches: r.Matches,
	}
	switch {
	case r.Err != nil:
		op.Path = r.Path
		op.Status = "failed"
		op.IsFailed = true
	case r.Action == sibling.ActionPatched:
		op.Status = "patched"
		op.IsPatched = true
	case r.Action == sibling.ActionSkipped:
		op.Path = r.Path
		op.Status = "skipped"
		op.IsSkipped = true
	default:
		op.Status = "copied"
		op.IsCopied = true
	}
	return op
}

// primaryNames builds the set of all primary input base names once, up front
func primaryNames(inputs []config.InputFile) map[string]struct{} {
	names := make(map[string]struct{}, len(inputs))
	for _, in := range inputs {
		names[filepath.Base(in.Path)] = struct{}{}
	}
	return names
}
