package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"edinet-facts/pkg/xbrl"
)

var searchCmd = &cobra.Command{
	Use:   "search <archive.zip> <keyword>...",
	Short: "Search facts in an archive by tag or label keyword",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		parser := xbrl.NewParser()
		if _, err := parser.ExtractArchive(args[0]); err != nil {
			return err
		}

		facts := parser.Search(args[1:]...)
		if len(facts) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "該当する項目が見つかりませんでした。")
			return nil
		}
		for _, f := range facts {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", f.TagID, f.Label, f.RawValue)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
