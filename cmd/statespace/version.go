package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/statespace"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of statespace",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("statespace version %s\n", strings.TrimSpace(statespace.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
