// Command edinetfacts extracts financial figures from EDINET XBRL CSV
// archives, and can list and download filings from the EDINET API.
package main

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var config = viper.New()

var rootCmd = &cobra.Command{
	Use:   "edinetfacts",
	Short: "Extract financial data from EDINET XBRL filings",
	Long: `edinetfacts reads the CSV rendering of EDINET XBRL filings, infers
the filer's entity category and resolves its registered financial
concepts to single values.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// .env is optional; real environment variables win.
		godotenv.Load()
		initEnvVars(config)
	},
}

func initEnvVars(v *viper.Viper) {
	v.SetEnvPrefix("EDINET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.BindEnv("api_key", "EDINET_API_KEY")
	v.BindEnv("facts_db", "EDINET_FACTS_DB")
	v.AutomaticEnv()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln("Error:", err)
		os.Exit(1)
	}
}
