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

package log

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_file_operation",
			op: func(t *testing.T, logger *Logger) {
				logger.LogFileOperation(context.Background(), FileOperation{
					Path:      "root.xml",
					Kind:      "primary",
					Status:    "PATCHED",
					Matches:   2,
					IsPatched: true,
				})
			},
			wantLogs: []string{
				"✓ root.xml",
				"primary",
				"PATCHED",
			},
		},
		{
			name: "log_run_operation",
			op: func(t *testing.T, logger *Logger) {
				logger.StartRunOperation(context.Background(), RunOperation{
					Source:      "src/root.xml",
					XPath:       "/a/b",
					Destination: "obj/xml/src/root.xml",
				})
			},
			wantLogs: []string{
				"[mutating src/root.xml]",
				"◆ /a/b • set",
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Error("error message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"❌ error message",
				"✅ success message",
			},
		},
		{
			name: "header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("applying mutation")
			},
			wantLogs: []string{
				"xmlpoke",
				"applying mutation",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(&buf, zerolog.InfoLevel)

			tt.op(t, logger)

			out := buf.String()
			for _, want := range tt.wantLogs {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestLoggerContext(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, zerolog.InfoLevel)

	ctx := NewContext(context.Background(), logger)
	got := FromContext(ctx)
	require.Same(t, logger, got)

	require.Panics(t, func() {
		FromContext(context.Background())
	})
}

func TestFormatFileOperation(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var buf bytes.Buffer
	logger := New(&buf, zerolog.InfoLevel)

	line := logger.formatFileOperation(FileOperation{
		Path:     "readme.txt",
		Kind:     "sibling",
		Status:   "COPIED",
		IsCopied: true,
	})
	assert.True(t, strings.HasPrefix(strings.TrimLeft(line, " "), "⟳"))
	assert.Contains(t, line, "readme.txt")

	line = logger.formatFileOperation(FileOperation{
		Path:     "locked.txt",
		Kind:     "sibling",
		Status:   "FAILED",
		IsFailed: true,
	})
	assert.True(t, strings.HasPrefix(strings.TrimLeft(line, " "), "✗"))
}
