package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"edinet-facts/pkg/edinet"
)

var (
	fetchDate       string
	fetchAnnualOnly bool
	fetchDocID      string
	fetchOut        string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "List filings for a date, or download one XBRL archive",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := edinet.NewClient(config.GetString("api_key"), 2)
		if err != nil {
			return err
		}

		if fetchDocID != "" {
			archive, err := client.DownloadXBRL(cmd.Context(), fetchDocID)
			if err != nil {
				return err
			}
			out := fetchOut
			if out == "" {
				out = fetchDocID + "_xbrl.zip"
			}
			if err := os.WriteFile(out, archive, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "書類を %s に保存しました。\n", out)
			return nil
		}

		date := fetchDate
		if date == "" {
			date = time.Now().AddDate(0, 0, -1).Format("2006-01-02")
		}
		list, err := client.ListDocuments(cmd.Context(), date, 2)
		if err != nil {
			return err
		}

		count := 0
		for _, doc := range list.Results {
			if fetchAnnualOnly && !doc.IsAnnualReport() {
				continue
			}
			if !doc.HasXBRL() {
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n",
				doc.DocID, doc.DocTypeCode, doc.FilerName, doc.DocDescription)
			count++
		}
		fmt.Fprintf(cmd.OutOrStdout(), "取得件数: %d件\n", count)
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchDate, "date", "", "target date (YYYY-MM-DD, default: yesterday)")
	fetchCmd.Flags().BoolVar(&fetchAnnualOnly, "annual-only", false, "only list annual securities reports")
	fetchCmd.Flags().StringVar(&fetchDocID, "doc-id", "", "download the XBRL archive for one document")
	fetchCmd.Flags().StringVar(&fetchOut, "out", "", "output path for the downloaded archive")
	rootCmd.AddCommand(fetchCmd)
}
