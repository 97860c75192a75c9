package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"edinet-facts/pkg/xbrl"
)

var (
	extractJSON    bool
	extractCSVPath string
	mappingPath    string
)

var extractCmd = &cobra.Command{
	Use:   "extract <archive.zip>",
	Short: "Extract financial data from one XBRL CSV archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parser := xbrl.NewParser()
		if mappingPath != "" {
			if err := parser.Mapping.LoadFile(mappingPath); err != nil {
				return err
			}
		}

		result, err := parser.ExtractArchive(args[0])
		if err != nil {
			return err
		}

		if extractJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return err
			}
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), parser.DetailedAnalysis())
		}

		if extractCSVPath != "" {
			f, err := os.Create(extractCSVPath)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", extractCSVPath, err)
			}
			defer f.Close()
			if err := parser.WriteCSV(f); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "財務データを %s に出力しました。\n", extractCSVPath)
		}
		return nil
	},
}

func init() {
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "print the full result as JSON")
	extractCmd.Flags().StringVar(&extractCSVPath, "csv", "", "also write extracted concepts to a CSV file")
	extractCmd.Flags().StringVar(&mappingPath, "mapping", "", "load concept mappings from a JSON file")
	rootCmd.AddCommand(extractCmd)
}
