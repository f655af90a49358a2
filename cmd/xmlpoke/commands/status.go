package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/xmlpoke/cmd/xmlpoke/opts"
	"github.com/walteh/xmlpoke/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// NewStatusCmd creates a new status command
func NewStatusCmd(ro *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report whether the intermediate tree needs regenerating",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "status").Logger().WithContext(ctx)

			stale, err := operation.CheckStale(ctx, ro.Config)
			if err != nil {
				return errors.Errorf("checking status: %w", err)
			}

			if stale {
				ro.UserLogger.LogValidation(false, "intermediate tree is stale, run apply", nil)
			} else {
				ro.UserLogger.LogValidation(true, "intermediate tree is up to date", nil)
			}

			return nil
		},
	}

	return cmd
}
