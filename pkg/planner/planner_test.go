package planner_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/xmlpoke/pkg/planner"
)

// 🧪 TestPlanMirrorsSourceStructure tests that the destination preserves the
// source's directory structure under the output root
func TestPlanMirrorsSourceStructure(t *testing.T) {
	tmpDir := t.TempDir()
	root := filepath.Join(tmpDir, "out")
	source := filepath.Join(tmpDir, "src", "dir", "a", "b.xml")

	dest, err := planner.Plan(root, source)
	require.NoError(t, err)

	abs, err := filepath.Abs(source)
	require.NoError(t, err)
	mirrored := strings.TrimLeft(abs[len(filepath.VolumeName(abs)):], `/\`)
	assert.Equal(t, filepath.Join(root, mirrored), dest)
	assert.True(t, strings.HasPrefix(dest, root), "destination stays under the root")
	assert.True(t, strings.HasSuffix(dest, filepath.Join("dir", "a", "b.xml")))
}

// 🧪 TestPlanRelative tests sibling placement below the mirrored destination
func TestPlanRelative(t *testing.T) {
	tests := []struct {
		name      string
		destDir   string
		sourceDir string
		path      string
		expected  string
	}{
		{
			name:      "same_directory",
			destDir:   filepath.Join("out", "x"),
			sourceDir: filepath.Join("src"),
			path:      filepath.Join("src", "readme.txt"),
			expected:  filepath.Join("out", "x", "readme.txt"),
		},
		{
			name:      "subdirectory",
			destDir:   filepath.Join("out", "x"),
			sourceDir: filepath.Join("src"),
			path:      filepath.Join("src", "sub", "deep", "f.txt"),
			expected:  filepath.Join("out", "x", "sub", "deep", "f.txt"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dest, err := planner.PlanRelative(tt.destDir, tt.sourceDir, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, dest)
		})
	}
}

// 🧪 TestPlanRelativeStripsEscapes tests that upward traversal segments are
// stripped rather than allowed to escape the output root
func TestPlanRelativeStripsEscapes(t *testing.T) {
	destDir := filepath.Join("out", "x")
	dest, err := planner.PlanRelative(destDir, filepath.Join("src", "a"), filepath.Join("src", "b", "f.txt"))
	require.NoError(t, err)

	assert.NotContains(t, dest, "..")
	assert.True(t, strings.HasPrefix(dest, destDir), "destination stays under the root")
	assert.Equal(t, filepath.Join(destDir, "b", "f.txt"), dest)
}

// 🧪 TestEnsureParentIsIdempotent tests that re-creating existing directories
// is a no-op, not an error
func TestEnsureParentIsIdempotent(t *testing.T) {
	tmpDir := t.TempDir()
	dest := filepath.Join(tmpDir, "a", "b", "c.xml")

	require.NoError(t, planner.EnsureParent(dest))
	require.NoError(t, planner.EnsureParent(dest))
	assert.DirExists(t, filepath.Dir(dest))
}
