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

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🧹 NewCleanOperation creates a new clean operation
func NewCleanOperation(opts Options) Operation {
	return &cleanOperation{
		BaseOperation: NewBaseOperation(opts),
	}
}

// 🧹 cleanOperation removes the intermediate output tree entirely
type cleanOperation struct {
	BaseOperation
}

// 🏃 Execute runs the clean operation
func (op *cleanOperation) Execute(ctx context.Context) error {
	if err := op.validate(); err != nil {
		return errors.Errorf("validating options: %w", err)
	}

	if err := op.Files.ResetTree(ctx); err != nil {
		return errors.Errorf("removing output root: %w", err)
	}

	zerolog.Ctx(ctx).Info().Str("dir", op.Files.BaseDir()).Msg("output root removed")
	return nil
}
