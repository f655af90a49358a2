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

// Package sibling materializes the files that live next to a primary input:
// cross-referenced XML files get the full mutation pipeline, everything else
// is copied verbatim. All of it is best effort.
package sibling

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/xmlpoke/pkg/planner"
	"github.com/walteh/xmlpoke/pkg/status"
	"github.com/walteh/xmlpoke/pkg/xmlpatch"
)

// 🎬 Action is what the materializer did with a sibling file
type Action int

const (
	ActionCopied Action = iota
	ActionPatched
	ActionSkipped
)

// String returns a string representation of Action
func (a Action) String() string {
	switch a {
	case ActionPatched:
		return "patched"
	case ActionSkipped:
		return "skipped"
	default:
		return "copied"
	}
}

// 📄 Result records the outcome for one sibling file. A non-nil Err never
// aborts the run; failures are isolated per item.
type Result struct {
	Path    string // Source path
	Dest    string // Planned destination
	Action  Action // What was attempted
	Matches int    // Node match count when patched
	Err     error  // Failure, if any
}

// 🔧 Options describes one primary file's sibling sweep
type Options struct {
	SourceDir      string              // The primary file's directory
	DestDir        string              // Mirrored destination directory
	Primary        string              // Absolute path of the primary file itself
	PrimaryNames   map[string]struct{} // Base names of every declared primary input
	IgnorePatterns []string            // Glob patterns for siblings to skip
}

// 🏭 Materializer relocates sibling files into the mirrored destination
type Materializer struct {
	patcher *xmlpatch.Patcher
	files   *status.Manager
}

// New creates a materializer sharing the run's patcher and file manager
func New(patcher *xmlpatch.Patcher, files *status.Manager) *Materializer {
	return &Materializer{
		patcher: patcher,
		files:   files,
	}
}

// 🏃 Materialize enumerates every file under the primary's source directory
// and relocates each into the mirrored destination. One stray locked or
// malformed auxiliary file must not abort an otherwise successful batch, so
// each item carries its own error boundary.
func (m *Materializer) Materialize(ctx context.Context, opts Options) []Result {
	logger := zerolog.Ctx(ctx)

	var results []Result
	err := filepath.WalkDir(opts.SourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("skipping unreadable entry")
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if samePath(path, opts.Primary) {
			return nil
		}

		results = append(results, m.materializeOne(ctx, path, opts))
		return nil
	})
	if err != nil {
		// WalkDir only errors through the callback, which never errors
		logger.Warn().Err(err).Str("dir", opts.SourceDir).Msg("sibling walk aborted")
	}

	for _, r := range results {
		if r.Err != nil {
			logger.Warn().Err(r.Err).Str("file", r.Path).Str("action", r.Action.String()).Msg("sibling failed, continuing")
		}
	}

	return results
}

// 📄 materializeOne handles a single sibling file
func (m *Materializer) materializeOne(ctx context.Context, path string, opts Options) Result {
	res := Result{Path: path, Action: ActionCopied}

	rel, err := filepath.Rel(opts.SourceDir, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	if m.shouldIgnore(ctx, rel, opts.IgnorePatterns) {
		res.Action = ActionSkipped
		m.files.TrackFile(ctx, path, status.FileInfo{Path: path, Status: status.StatusSkipped})
		return res
	}

	dest, err := planner.PlanRelative(opts.DestDir, opts.SourceDir, path)
	if err != nil {
		res.Err = err
		m.files.TrackFile(ctx, dest, status.FileInfo{Path: dest, Status: status.StatusFailed, Error: err})
		return res
	}
	res.Dest = dest

	if m.isCrossPrimary(path, opts) {
		res.Action = ActionPatched
		doc, matches, err := m.patcher.PatchFile(ctx, path)
		if err != nil {
			res.Err = err
			m.files.TrackFile(ctx, dest, status.FileInfo{Path: dest, Status: status.StatusFailed, Error: err})
			return res
		}
		res.Matches = matches
		if err := m.files.WriteFileAtomic(ctx, dest, doc.XML()); err != nil {
			res.Err = err
			m.files.TrackFile(ctx, dest, status.FileInfo{Path: dest, Status: status.StatusFailed, Error: err})
			return res
		}
		m.files.TrackFile(ctx, dest, status.FileInfo{Path: dest, Status: status.StatusPatched, Matches: matches})
		return res
	}

	if err := m.files.CopyFile(ctx, path, dest); err != nil {
		res.Err = err
		m.files.TrackFile(ctx, dest, status.FileInfo{Path: dest, Status: status.StatusFailed, Error: err})
		return res
	}
	m.files.TrackFile(ctx, dest, status.FileInfo{Path: dest, Status: status.StatusCopied})
	return res
}

// 🔍 isCrossPrimary reports whether the sibling is itself one of the declared
// primary inputs found incidentally in this tree: same extension as the
// primary and a base name in the declared set. The comparison is by base
// name only, so two primaries sharing a base name in different directories
// alias each other.
func (m *Materializer) isCrossPrimary(path string, opts Options) bool {
	if !strings.EqualFold(filepath.Ext(path), filepath.Ext(opts.Primary)) {
		return false
	}
	_, ok := opts.PrimaryNames[filepath.Base(path)]
	return ok
}

// 🔍 shouldIgnore checks if a sibling matches an ignore pattern
func (m *Materializer) shouldIgnore(ctx context.Context, rel string, patterns []string) bool {
	logger := zerolog.Ctx(ctx)

	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, filepath.ToSlash(rel))
		if err != nil {
			logger.Debug().Str("pattern", pattern).Str("path", rel).Err(err).Msg("error matching pattern")
			continue
		}
		if matched {
			logger.Debug().Str("file", rel).Str("pattern", pattern).Msg("sibling ignored by pattern")
			return true
		}
	}

	return false
}

// samePath compares two paths after absolutizing both
func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}
