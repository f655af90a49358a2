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

package status

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/xmlpoke/pkg/planner"
	"gitlab.com/tozd/go/errors"
)

// 📊 FileStatus represents what happened to a file during a run
type FileStatus int

const (
	StatusUnknown FileStatus = iota
	StatusPatched            // Primary or cross-referenced XML, mutated and saved
	StatusCopied             // Sibling copied byte-for-byte
	StatusSkipped            // Sibling excluded by an ignore pattern
	StatusFailed             // Sibling operation failed, run continued
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusPatched:
		return "patched"
	case StatusCopied:
		return "copied"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📄 FileInfo contains metadata about a materialized file
type FileInfo struct {
	Path    string      // Destination path
	Status  FileStatus  // What happened to it
	Size    int64       // Bytes written
	Mode    os.FileMode // Permissions on the destination
	Matches int         // Node match count, patched files only
	Error   error       // Failure, if any
}

// 💾 FileManager handles all file system operations under the output root
type FileManager interface {
	WriteFileAtomic(ctx context.Context, path string, content []byte) error
	ReadFile(ctx context.Context, path string) ([]byte, error)
	CopyFile(ctx context.Context, src, dst string) error
	DeleteFile(ctx context.Context, path string) error
	FileExists(ctx context.Context, path string) (bool, error)
	CreateDir(ctx context.Context, path string) error
	ResetTree(ctx context.Context) error
}

// 📈 StatusReporter tracks file status and reports progress
type StatusReporter interface {
	TrackFile(ctx context.Context, path string, info FileInfo)
	GetFileInfo(ctx context.Context, path string) (FileInfo, error)
	ListFiles(ctx context.Context) ([]FileInfo, error)

	StartOperation(ctx context.Context, total int)
	UpdateProgress(ctx context.Context, processed int)
	FinishOperation(ctx context.Context)
}

// 🔧 Manager implements both FileManager and StatusReporter
type Manager struct {
	baseDir   string          // Output root, wiped and regenerated per run
	logger    *zerolog.Logger // Logger for status updates
	formatter FileFormatter   // Formatter for status messages

	// Status tracking
	mu    sync.RWMutex
	files map[string]FileInfo

	// Progress tracking
	total     int
	processed int
}

// 🏭 New creates a new status manager
func New(baseDir string, logger *zerolog.Logger) *Manager {
	return &Manager{
		baseDir:   filepath.Clean(baseDir),
		logger:    logger,
		formatter: NewDefaultFileFormatter(),
		files:     make(map[string]FileInfo),
	}
}

// 📁 BaseDir returns the output root
func (m *Manager) BaseDir() string {
	return m.baseDir
}

// 🔒 getAbsPath returns the absolute path for a given path
func (m *Manager) getAbsPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(m.baseDir, path)
}

// FileManager interface implementation

func (m *Manager) WriteFileAtomic(ctx context.Context, path string, content []byte) error {
	absPath := m.getAbsPath(path)

	if err := planner.EnsureParent(absPath); err != nil {
		return err
	}

	tempPath := absPath + ".tmp"

	// Write to temp file
	if err := os.WriteFile(tempPath, content, 0644); err != nil {
		return errors.Errorf("writing temp file: %w", err)
	}

	// Rename temp file to target (atomic operation)
	if err := os.Rename(tempPath, absPath); err != nil {
		os.Remove(tempPath) // Clean up temp file
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}

func (m *Manager) ReadFile(ctx context.Context, path string) ([]byte, error) {
	content, err := os.ReadFile(m.getAbsPath(path))
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}
	return content, nil
}

// CopyFile copies src to dst byte-for-byte and clears the read-only
// attribute on the copy, so a later run can overwrite it.
func (m *Manager) CopyFile(ctx context.Context, src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return errors.Errorf("reading source info: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source: %w", err)
	}
	defer in.Close()

	absDst := m.getAbsPath(dst)
	if err := planner.EnsureParent(absDst); err != nil {
		return err
	}

	out, err := os.Create(absDst)
	if err != nil {
		return errors.Errorf("creating destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.Errorf("copying content: %w", err)
	}
	if err := out.Close(); err != nil {
		return errors.Errorf("closing destination: %w", err)
	}

	// Owner write bit cleared on the source means a read-only copy
	if err := os.Chmod(absDst, info.Mode().Perm()|0200); err != nil {
		return errors.Errorf("clearing read-only attribute: %w", err)
	}

	return nil
}

func (m *Manager) DeleteFile(ctx context.Context, path string) error {
	if err := os.Remove(m.getAbsPath(path)); err != nil {
		return errors.Errorf("deleting file: %w", err)
	}
	return nil
}

func (m *Manager) FileExists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(m.getAbsPath(path))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Errorf("checking file existence: %w", err)
}

func (m *Manager) CreateDir(ctx context.Context, path string) error {
	if err := os.MkdirAll(m.getAbsPath(path), 0755); err != nil {
		return errors.Errorf("creating directory: %w", err)
	}
	return nil
}

// ResetTree clears read-only attributes recursively under the output root
// and deletes it entirely. Read-only artifacts from a prior copy must not
// block the wipe.
func (m *Manager) ResetTree(ctx context.Context) error {
	if _, err := os.Stat(m.baseDir); os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return errors.Errorf("checking output root: %w", err)
	}

	err := filepath.WalkDir(m.baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		return os.Chmod(path, info.Mode().Perm()|0200)
	})
	if err != nil {
		return errors.Errorf("clearing read-only attributes: %w", err)
	}

	if err := os.RemoveAll(m.baseDir); err != nil {
		return errors.Errorf("removing output root: %w", err)
	}

	m.logger.Debug().Str("dir", m.baseDir).Msg("output root reset")
	return nil
}

// StatusReporter interface implementation

func (m *Manager) TrackFile(ctx context.Context, path string, info FileInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.files[path] = info
	m.logger.Debug().
		Str("file", path).
		Str("status", info.Status.String()).
		Int("matches", info.Matches).
		Msg(m.formatter.FormatFileOperation(path, info.Status, info.Matches))
}

func (m *Manager) GetFileInfo(ctx context.Context, path string) (FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	info, ok := m.files[path]
	if !ok {
		return FileInfo{}, errors.Errorf("file not tracked: %s", path)
	}
	return info, nil
}

func (m *Manager) ListFiles(ctx context.Context) ([]FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make([]FileInfo, 0, len(m.files))
	for _, info := range m.files {
		files = append(files, info)
	}
	return files, nil
}

func (m *Manager) StartOperation(ctx context.Context, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total = total
	m.processed = 0
}

func (m *Manager) UpdateProgress(ctx context.Context, processed int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.processed = processed
	m.logger.Debug().Msg(m.formatter.FormatProgress(processed, m.total))
}

func (m *Manager) FinishOperation(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Debug().Msg(m.formatter.FormatProgress(m.processed, m.total))
	m.total = 0
	m.processed = 0
}
