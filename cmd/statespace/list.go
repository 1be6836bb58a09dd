package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/statespace/internal/cli"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the named variable sets",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)
		ctx := cmd.Context()

		eng, closeCache, err := cli.NewEngine(ctx, cfg, cli.CreateLogger(cfg))
		if err != nil {
			fmt.Printf("Error initializing statespace: %v\n", err)
			os.Exit(1)
		}
		defer closeCache()

		names, err := eng.ListSets(ctx)
		if err != nil {
			fmt.Printf("Error listing sets: %v\n", err)
			os.Exit(1)
		}
		for _, name := range names {
			fmt.Println(name)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
