package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/reprint/internal/output"
	"github.com/jmylchreest/reprint/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		formatStr, _ := cmd.Flags().GetString("format")
		if formatStr == "" {
			fmt.Fprintln(cmd.OutOrStdout(), version.Full())
			return nil
		}

		format, err := output.ParseFormat(formatStr)
		if err != nil {
			return err
		}
		w, err := output.NewWriter(cmd.OutOrStdout(), format)
		if err != nil {
			return err
		}
		return output.WriteAll(w, []version.Info{version.Get()})
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().String("format", "", "structured output: json, jsonl, yaml")
}
