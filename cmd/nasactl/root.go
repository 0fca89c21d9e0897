package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/nasa-in-go/pkg/config"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "nasactl",
	Short: "NASA picture of the day and Mars rover gateway",
	Long: `Run and administer the NASA gateway.

Settings come from /etc/nasa/nasa.yml (or NASA_CONFIG_PATH), overridden by
environment variables. A .env file in the working directory is loaded first.`,
	Version:      version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		return config.LoadDotEnv(envFile)
	},
}

func init() {
	rootCmd.PersistentFlags().String("env-file", ".env", "dotenv file loaded before the configuration")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
