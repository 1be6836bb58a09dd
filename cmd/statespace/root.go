package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/statespace/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "statespace",
	Short: "statespace enumerates every combination of a set of finite variables",
	Long: `statespace takes an ordered list of boolean and enum variables and produces
their Cartesian product: every state the system can be in, in a stable order,
as JSON, CSV, YAML, Markdown or a terminal table.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Config file (default statespace.yaml in the working directory)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("dir", "", "Directory of variable set documents")
	rootCmd.PersistentFlags().String("file", "", "Single YAML or JSON variable set file")
}

// loadConfig resolves the configuration for cmd or exits.
func loadConfig(cmd *cobra.Command) *config.Config {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, _, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
