package cmd

import (
	"fmt"

	"github.com/josephlewis42/cshell/commands"
	"github.com/spf13/cobra"
)

var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "Show the builtin commands of the interpreter.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range commands.Builtins() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		fmt.Fprintln(cmd.OutOrStdout(), commands.AssignmentPrefix+"NAME=VALUE")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
}
