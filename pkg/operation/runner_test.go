package operation_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/xmlpoke/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// 🧪 fakeOperation records execution and returns a canned error
type fakeOperation struct {
	executed bool
	err      error
}

func (f *fakeOperation) Execute(ctx context.Context) error {
	f.executed = true
	return f.err
}

// 🧪 TestRunnerSync tests synchronous execution
func TestRunnerSync(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	runner := operation.NewRunner(&logger, false)

	op := &fakeOperation{}
	require.NoError(t, runner.Run(context.Background(), op))
	assert.True(t, op.executed)
}

// 🧪 TestRunnerAsync tests asynchronous execution and error propagation
func TestRunnerAsync(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	runner := operation.NewRunner(&logger, true)

	op := &fakeOperation{}
	require.NoError(t, runner.Run(context.Background(), op))
	assert.True(t, op.executed)

	failing := &fakeOperation{err: errors.New("boom")}
	err := runner.Run(context.Background(), failing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}
