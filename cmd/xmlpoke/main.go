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

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/walteh/xmlpoke/cmd/xmlpoke/commands"
	"github.com/walteh/xmlpoke/cmd/xmlpoke/opts"
	"github.com/walteh/xmlpoke/pkg/userlog"
)

func main() {
	ctx := context.Background()

	rootOpts := &opts.RootOpts{}

	// Create root command
	rootCmd := &cobra.Command{
		Use:   "xmlpoke",
		Short: "Set or delete XPath-matched nodes across XML files",
		Long: `xmlpoke loads one or more XML files, evaluates an XPath expression
against each (optionally under a namespace/prefix binding), overwrites or
deletes the matched nodes, and materializes the results plus any sibling
files into a mirrored intermediate output tree.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initRootOpts(cmd, rootOpts)
		},
	}

	// Add shared flags
	addRootFlags(rootCmd)

	// Add commands
	rootCmd.AddCommand(
		commands.NewApplyCmd(rootOpts),
		commands.NewCleanCmd(rootOpts),
		commands.NewStatusCmd(rootOpts),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		userlog.NewUserLogger(ctx).LogValidation(false, "command failed", err)
		os.Exit(1)
	}
}
