package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/comixd/comixd/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "comixd",
	Short:   "Comic book streaming server for the AirComix client",
	Long: `Comixd serves a directory of comic books over the AirComix HTTP
protocol. Directories and comic archives (ZIP/CBZ, RAR/CBR, 7z/CB7) are
browsed as plain-text listings and pages are streamed as images.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var configFiles []string
		if cf, _ := cmd.Flags().GetString("config"); cf != "" {
			configFiles = []string{cf}
		}

		cfg, err := config.Load(configFiles, cmd.Flags())
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		setupLogging(cfg)
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("root", "", "collection root directory (default: /manga, env: COMIX_LIBRARY_ROOT)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug mode (env: COMIX_SERVER_DEBUG)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
