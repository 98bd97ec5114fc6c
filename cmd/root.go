package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	clientcmd "github.com/Alijeyrad/eunoia_backend/cmd/client"
	httpcmd "github.com/Alijeyrad/eunoia_backend/cmd/http"
	systemcmd "github.com/Alijeyrad/eunoia_backend/cmd/system"
)

var (
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "eunoia",
	Short: "Eunoia student mental-health companion.",
	Long: `Eunoia lets students complete PHQ-9 and GAD-7 screenings, log their mood and
request counseling sessions, anonymously or with an account. Staff review
aggregated results through the admin API.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global config flag, available for all commands.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	rootCmd.AddCommand(systemcmd.NewSystemCommand())
	rootCmd.AddCommand(httpcmd.NewHTTPCommand())
	rootCmd.AddCommand(clientcmd.NewClientCommand())
}
