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

// Package planner computes destination paths that mirror a source file's
// directory structure under an output root.
package planner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// ❌ PathResolutionError means a destination path could not be computed
type PathResolutionError struct {
	Path string
	Err  error
}

func (e *PathResolutionError) Error() string {
	return fmt.Sprintf("resolving destination for %s: %v", e.Path, e.Err)
}

func (e *PathResolutionError) Unwrap() error {
	return e.Err
}

// 🗺️ Plan places source under root, preserving its directory structure
// relative to the filesystem root. The volume name (on Windows) and leading
// separators are dropped before joining.
func Plan(root, source string) (string, error) {
	abs, err := filepath.Abs(source)
	if err != nil {
		return "", &PathResolutionError{Path: source, Err: err}
	}

	rel := abs[len(filepath.VolumeName(abs)):]
	rel = strings.TrimLeft(rel, `/\`)

	return filepath.Join(root, sanitize(rel)), nil
}

// 🗺️ PlanRelative places path, which lives under sourceDir, at the matching
// position below destDir. Siblings in subdirectories of the primary's folder
// land in the matching subdirectory of the destination.
func PlanRelative(destDir, sourceDir, path string) (string, error) {
	rel, err := filepath.Rel(sourceDir, path)
	if err != nil {
		return "", &PathResolutionError{Path: path, Err: err}
	}

	return filepath.Join(destDir, sanitize(rel)), nil
}

// sanitize strips segments that would climb above the mirrored root
func sanitize(rel string) string {
	parts := strings.Split(filepath.ToSlash(rel), "/")
	kept := parts[:0]
	for _, part := range parts {
		if part == "" || part == "." || part == ".." {
			continue
		}
		kept = append(kept, part)
	}
	return filepath.Join(kept...)
}

// 📁 EnsureParent creates the destination's parent directory. Creating an
// already-existing directory is a no-op, not an error.
func EnsureParent(dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}
	return nil
}
