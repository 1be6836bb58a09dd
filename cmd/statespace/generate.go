package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/statespace/internal/cli"
	"github.com/aretw0/statespace/pkg/export"
)

var generateCmd = &cobra.Command{
	Use:   "generate [set]",
	Short: "Generate the state space of a variable set",
	Long: `Generates every combination of values of a variable set and writes it in the
chosen format. The set comes from --file, or by name from --dir.

A malformed set (unnamed variable, empty domain) yields an empty state space;
in CSV that means nothing is written.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)
		logger := cli.CreateLogger(cfg)
		ctx := cmd.Context()

		eng, closeCache, err := cli.NewEngine(ctx, cfg, logger)
		if err != nil {
			fmt.Printf("Error initializing statespace: %v\n", err)
			os.Exit(1)
		}
		defer closeCache()

		var name string
		if len(args) > 0 {
			name = args[0]
		}
		_, set, err := cli.ResolveSet(ctx, eng, name)
		if err != nil {
			fmt.Printf("Error loading variable set: %v\n", err)
			os.Exit(1)
		}

		out, err := eng.Export(ctx, set, cfg.FormatValue())
		if err != nil {
			fmt.Printf("Error generating state space: %v\n", err)
			os.Exit(1)
		}

		path, _ := cmd.Flags().GetString("output")
		if path == "" && cmd.Flags().Changed("save") {
			path = cfg.FormatValue().FileName()
		}
		if err := cli.WriteOutput(out, path, os.Stdout, os.Stderr); err != nil {
			fmt.Printf("Error writing output: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	formats := make([]string, 0, len(export.Formats()))
	for _, f := range export.Formats() {
		formats = append(formats, string(f))
	}

	generateCmd.Flags().StringP("format", "f", "json", fmt.Sprintf("Output format: %v", formats))
	generateCmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout")
	generateCmd.Flags().Bool("save", false, "Write to state-space.<ext> in the working directory")
	generateCmd.Flags().Bool("rfc4180", false, "Use RFC 4180 CSV (CRLF line endings, doubled quotes)")
	generateCmd.Flags().Bool("lenient", false, "Skip malformed variables instead of blanking the state space")
	generateCmd.Flags().Bool("unique-names", false, "Reject sets with duplicate variable names")
	generateCmd.Flags().Int("max-states", 0, "Refuse to generate more states than this (0 means no limit)")
}
