package commands

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/xmlpoke/cmd/xmlpoke/opts"
	"github.com/walteh/xmlpoke/pkg/log"
	"github.com/walteh/xmlpoke/pkg/operation"
	"github.com/walteh/xmlpoke/pkg/status"
	"github.com/walteh/xmlpoke/pkg/userlog"
	"gitlab.com/tozd/go/errors"
)

// NewApplyCmd creates a new apply command
func NewApplyCmd(ro *opts.RootOpts) *cobra.Command {
	var (
		intermediate string
		xpathExpr    string
		value        string
		namespace    string
		prefix       string
		deleteNodes  bool
		async        bool
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Mutate the XML inputs into the intermediate tree",
		Long: `Apply regenerates the intermediate output tree from scratch.
It will:
1. Compile the XPath expression (with any namespace binding)
2. Wipe the intermediate tree, clearing read-only leftovers
3. Patch and save each primary input at its mirrored destination
4. Copy or patch every sibling file, best effort`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "apply").Logger().WithContext(ctx)
			logger := zerolog.Ctx(ctx)

			// Flag overrides apply to this invocation only
			cfg := *ro.Config
			if cmd.Flags().Changed("intermediate") {
				cfg.Intermediate = intermediate
			}
			if cmd.Flags().Changed("xpath") {
				cfg.XPath = xpathExpr
			}
			if cmd.Flags().Changed("value") {
				cfg.Value = value
			}
			if cmd.Flags().Changed("namespace") {
				cfg.Namespace = namespace
			}
			if cmd.Flags().Changed("prefix") {
				cfg.Prefix = prefix
			}
			if cmd.Flags().Changed("delete") {
				cfg.Delete = deleteNodes
				if cfg.Delete {
					cfg.Value = ""
				}
			}
			if cmd.Flags().Changed("async") {
				cfg.Async = async
			}
			if err := cfg.Validate(); err != nil {
				return errors.Errorf("validating config: %w", err)
			}

			files := status.New(cfg.Intermediate, logger)

			console := log.New(os.Stdout, logger.GetLevel())
			console.Header("applying mutation")

			op := operation.NewMutateOperation(operation.Options{
				Config:  &cfg,
				Files:   files,
				Logger:  logger,
				Console: console,
			})

			runner := operation.NewRunner(logger, cfg.Async)
			if err := runner.Run(ctx, op); err != nil {
				return errors.Errorf("running mutate operation: %w", err)
			}

			// One descriptor per primary input, tag carried through
			for _, out := range op.Outputs() {
				ro.UserLogger.LogFileChange(userlog.FileChange{
					Type:        userlog.FilePatched,
					Path:        out.Path,
					Description: out.Tag,
				})
			}
			ro.UserLogger.LogRunChange(cfg.String())
			console.Successf("%d primary file(s) mutated", len(op.Outputs()))

			return nil
		},
	}

	cmd.Flags().StringVar(&intermediate, "intermediate", "", "override intermediate output directory")
	cmd.Flags().StringVar(&xpathExpr, "xpath", "", "override xpath expression")
	cmd.Flags().StringVar(&value, "value", "", "override replacement value")
	cmd.Flags().StringVar(&namespace, "namespace", "", "override namespace URI")
	cmd.Flags().StringVar(&prefix, "prefix", "", "override namespace prefix")
	cmd.Flags().BoolVar(&deleteNodes, "delete", false, "delete matched nodes instead of setting a value")
	cmd.Flags().BoolVar(&async, "async", false, "run the operation asynchronously")

	return cmd
}
