package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/xmlpoke/cmd/xmlpoke/opts"
	"github.com/walteh/xmlpoke/pkg/operation"
	"github.com/walteh/xmlpoke/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// NewCleanCmd creates a new clean command
func NewCleanCmd(ro *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the intermediate output tree",
		Long: `Clean deletes the intermediate directory entirely, clearing any
read-only attributes first so leftover artifacts cannot block removal.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "clean").Logger().WithContext(ctx)
			logger := zerolog.Ctx(ctx)

			files := status.New(ro.Config.Intermediate, logger)

			op := operation.NewCleanOperation(operation.Options{
				Config: ro.Config,
				Files:  files,
				Logger: logger,
			})
			if err := op.Execute(ctx); err != nil {
				return errors.Errorf("running clean operation: %w", err)
			}

			ro.UserLogger.LogRunChange("intermediate tree removed")
			return nil
		},
	}

	return cmd
}
