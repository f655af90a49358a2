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

package operation_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/xmlpoke/pkg/config"
	"github.com/walteh/xmlpoke/pkg/operation"
	"github.com/walteh/xmlpoke/pkg/planner"
	"github.com/walteh/xmlpoke/pkg/status"
	"github.com/walteh/xmlpoke/pkg/xmlpatch"
	"gitlab.com/tozd/go/errors"
)

// 🧪 testEnv is one run's worth of fixtures
type testEnv struct {
	ctx     context.Context
	logger  zerolog.Logger
	cfg     *config.Config
	files   *status.Manager
	primary string // first primary input
	second  string // second primary input, separate directory
	out     string // intermediate root
}

// 🧪 createTestEnv lays out two source trees and a run config
func createTestEnv(t *testing.T) *testEnv {
	tmpDir := t.TempDir()
	srcA := filepath.Join(tmpDir, "srcA")
	srcB := filepath.Join(tmpDir, "srcB")
	out := filepath.Join(tmpDir, "out")
	require.NoError(t, os.MkdirAll(srcA, 0755))
	require.NoError(t, os.MkdirAll(srcB, 0755))

	primary := filepath.Join(srcA, "root.xml")
	second := filepath.Join(srcB, "app.xml")
	require.NoError(t, os.WriteFile(primary, []byte("<a><b>old</b></a>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(srcA, "readme.txt"), []byte("hello"), 0644))
	require.NoError(t, os.WriteFile(second, []byte("<a><b>older</b></a>"), 0644))

	logger := zerolog.New(zerolog.NewTestWriter(t))
	ctx := logger.WithContext(context.Background())

	cfg := &config.Config{
		Inputs: []config.InputFile{
			{Path: primary, Tag: "Primary"},
			{Path: second, Tag: "Secondary"},
		},
		XPath:        "/a/b",
		Value:        "new",
		Intermediate: out,
	}
	require.NoError(t, cfg.Validate())

	return &testEnv{
		ctx:     ctx,
		logger:  logger,
		cfg:     cfg,
		files:   status.New(out, &logger),
		primary: primary,
		second:  second,
		out:     out,
	}
}

// 🧪 mirrorOf computes where a source file lands under the intermediate root
func mirrorOf(t *testing.T, root, source string) string {
	t.Helper()
	dest, err := planner.Plan(root, source)
	require.NoError(t, err)
	return dest
}

// 🧪 TestMutateOperation tests the end-to-end set pipeline
func TestMutateOperation(t *testing.T) {
	env := createTestEnv(t)

	// A stale artifact from a previous run must not survive
	stale := filepath.Join(env.out, "stale.txt")
	require.NoError(t, os.MkdirAll(env.out, 0755))
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0644))

	op := operation.NewMutateOperation(operation.Options{
		Config: env.cfg,
		Files:  env.files,
		Logger: &env.logger,
	})
	require.NoError(t, op.Execute(env.ctx))

	// One descriptor per primary, in input order, tags carried through
	outputs := op.Outputs()
	require.Len(t, outputs, 2)
	assert.Equal(t, mirrorOf(t, env.out, env.primary), outputs[0].Path)
	assert.Equal(t, "Primary", outputs[0].Tag)
	assert.Equal(t, mirrorOf(t, env.out, env.second), outputs[1].Path)
	assert.Equal(t, "Secondary", outputs[1].Tag)

	// Mutated primaries at their mirrored destinations
	for _, out := range outputs {
		content, err := os.ReadFile(out.Path)
		require.NoError(t, err)
		assert.Equal(t, "<a><b>new</b></a>", string(content))
	}

	// Sibling copied next to the first primary's mirror
	content, err := os.ReadFile(filepath.Join(filepath.Dir(outputs[0].Path), "readme.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))

	// Clean slate semantics
	assert.NoFileExists(t, stale)

	// Sources are never mutated
	content, err = os.ReadFile(env.primary)
	require.NoError(t, err)
	assert.Equal(t, "<a><b>old</b></a>", string(content))
}

// 🧪 TestMutateOperationDelete tests the end-to-end delete pipeline
func TestMutateOperationDelete(t *testing.T) {
	env := createTestEnv(t)
	env.cfg.Delete = true
	env.cfg.Value = ""

	op := operation.NewMutateOperation(operation.Options{
		Config: env.cfg,
		Files:  env.files,
		Logger: &env.logger,
	})
	require.NoError(t, op.Execute(env.ctx))

	content, err := os.ReadFile(op.Outputs()[0].Path)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "<b>")
	assert.Contains(t, string(content), "a")
}

// 🧪 TestMutateOperationBrokenPrimary tests that a malformed primary aborts
// the whole run
func TestMutateOperationBrokenPrimary(t *testing.T) {
	env := createTestEnv(t)
	require.NoError(t, os.WriteFile(env.primary, []byte("<a><unclosed>"), 0644))

	op := operation.NewMutateOperation(operation.Options{
		Config: env.cfg,
		Files:  env.files,
		Logger: &env.logger,
	})
	err := op.Execute(env.ctx)
	require.Error(t, err)

	var perr *xmlpatch.ParseError
	assert.True(t, errors.As(err, &perr))
	assert.Empty(t, op.Outputs())
}

// 🧪 TestMutateOperationInvalidXPath tests that a malformed expression fails
// before any file is written
func TestMutateOperationInvalidXPath(t *testing.T) {
	env := createTestEnv(t)
	env.cfg.XPath = "///[["

	op := operation.NewMutateOperation(operation.Options{
		Config: env.cfg,
		Files:  env.files,
		Logger: &env.logger,
	})
	err := op.Execute(env.ctx)
	require.Error(t, err)

	var xperr *xmlpatch.XPathError
	assert.True(t, errors.As(err, &xperr))
	assert.NoDirExists(t, env.out, "nothing written on compile failure")
}

// 🧪 TestMutateOperationMissingOptions tests option validation
func TestMutateOperationMissingOptions(t *testing.T) {
	env := createTestEnv(t)

	op := operation.NewMutateOperation(operation.Options{Logger: &env.logger})
	require.Error(t, op.Execute(env.ctx))
}

// 🧪 TestCheckStale tests the stale-tree detection used by the status command
func TestCheckStale(t *testing.T) {
	env := createTestEnv(t)

	// Nothing materialized yet
	stale, err := operation.CheckStale(env.ctx, env.cfg)
	require.NoError(t, err)
	assert.True(t, stale)

	op := operation.NewMutateOperation(operation.Options{
		Config: env.cfg,
		Files:  env.files,
		Logger: &env.logger,
	})
	require.NoError(t, op.Execute(env.ctx))

	stale, err = operation.CheckStale(env.ctx, env.cfg)
	require.NoError(t, err)
	assert.False(t, stale)

	// Touch a source past its mirror
	mirror := op.Outputs()[0].Path
	info, err := os.Stat(mirror)
	require.NoError(t, err)
	future := info.ModTime().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(env.primary, future, future))

	stale, err = operation.CheckStale(env.ctx, env.cfg)
	require.NoError(t, err)
	assert.True(t, stale)
}

// 🧪 TestCleanOperation tests that clean removes the whole tree, read-only
// artifacts included
func TestCleanOperation(t *testing.T) {
	env := createTestEnv(t)

	locked := filepath.Join(env.out, "locked.xml")
	require.NoError(t, os.MkdirAll(env.out, 0755))
	require.NoError(t, os.WriteFile(locked, []byte("<a/>"), 0644))
	require.NoError(t, os.Chmod(locked, 0444))

	op := operation.NewCleanOperation(operation.Options{
		Config: env.cfg,
		Files:  env.files,
		Logger: &env.logger,
	})
	require.NoError(t, op.Execute(env.ctx))
	assert.NoDirExists(t, env.out)
}
