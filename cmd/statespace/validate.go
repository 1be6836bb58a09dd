package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/statespace/internal/cli"
	"github.com/aretw0/statespace/pkg/product"
)

var validateCmd = &cobra.Command{
	Use:   "validate [set]",
	Short: "Check a variable set without generating it",
	Long:  `Runs the gate over a variable set and reports every issue. Exits with status 1 when the gate fails.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(cmd, args); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("lenient", false, "Skip malformed variables instead of failing")
	validateCmd.Flags().Bool("unique-names", false, "Reject sets with duplicate variable names")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)
	ctx := cmd.Context()

	eng, closeCache, err := cli.NewEngine(ctx, cfg, cli.CreateLogger(cfg))
	if err != nil {
		return fmt.Errorf("failed to init engine: %w", err)
	}
	defer closeCache()

	var name string
	if len(args) > 0 {
		name = args[0]
	}
	name, set, err := cli.ResolveSet(ctx, eng, name)
	if err != nil {
		return err
	}

	res := eng.Check(set)
	for _, issue := range res.Issues {
		marker := "warning"
		if issue.Blocking {
			marker = "error"
		}
		fmt.Printf("  %s: %s\n", marker, issue)
	}
	if !res.Passed {
		return res.Err()
	}

	count, err := product.Count(res.Eligible)
	if err != nil {
		return err
	}
	fmt.Printf("Variable set %q is valid! ✅ (%d variables, %d states)\n", name, len(res.Eligible), count)
	return nil
}
