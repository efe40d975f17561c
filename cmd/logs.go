package cmd

import (
	"fmt"

	"github.com/josephlewis42/cshell/core/history"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

var logsCmd = &cobra.Command{
	Use:     "logs",
	Aliases: []string{"log"},
	Short:   "Explore recorded command history.",
}

// catCommand renders a recorded history like the log builtin.
var catCommand = &cobra.Command{
	Use:   "cat HISTORY.jsonl",
	Short: "Print every command in a recorded history.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		fd, err := appFs.Open(args[0])
		if err != nil {
			return err
		}
		defer fd.Close()

		var entries []history.Entry
		if err := history.ReadJSONLines(fd, func(r *history.Record) {
			entries = append(entries, r.Entry())
		}); err != nil {
			return err
		}

		return history.RenderEntries(cmd.OutOrStdout(), entries)
	},
}

// reportCommand summarizes a recorded history.
var reportCommand = &cobra.Command{
	Use:   "report HISTORY.jsonl",
	Short: "Show a report of recorded commands.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		fd, err := appFs.Open(args[0])
		if err != nil {
			return err
		}
		defer fd.Close()

		report := history.NewReport()
		if err := history.ReadJSONLines(fd, report.Update); err != nil {
			return err
		}

		out, err := yaml.Marshal(report)
		if err != nil {
			return err
		}

		fmt.Fprint(cmd.OutOrStdout(), string(out))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.AddCommand(catCommand)
	logsCmd.AddCommand(reportCommand)
}
