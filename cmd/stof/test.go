package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	stof "github.com/dev-formata-io/stof-sub002"
	"github.com/dev-formata-io/stof-sub002/internal/fscap"
	"github.com/dev-formata-io/stof-sub002/internal/ids"
)

var (
	testFilterFlag string
	testNestedFlag bool
)

var testCmd = &cobra.Command{
	Use:   "test <file>",
	Short: "Import a document and run its #[test]-tagged functions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc := stof.New().WithFilesystem(fscap.OS("."))
		ctx := context.Background()

		if err := doc.FileImport(ctx, formatFlag, args[0], nil); err != nil {
			return fmt.Errorf("import: %w", err)
		}
		roots := doc.Graph.Roots()
		if len(roots) == 0 {
			return fmt.Errorf("import produced no root node")
		}
		root := ids.NewNodeRef(roots[0])

		report := doc.RunTests(ctx, root, testNestedFlag, testFilterFlag)
		for _, r := range report.Results {
			if r.Passed {
				fmt.Printf("PASS  %s\n", r.Name)
			} else {
				fmt.Fprintf(os.Stderr, "FAIL  %s: %s\n", r.Name, r.Err)
			}
		}
		fmt.Printf("%d passed, %d failed, %d total\n", report.Passed, report.Failed, report.Total)
		if report.Failed > 0 {
			return fmt.Errorf("%d test(s) failed", report.Failed)
		}
		return nil
	},
}

func init() {
	testCmd.Flags().StringVar(&testFilterFlag, "filter", "", "only run tests whose name contains this substring")
	testCmd.Flags().BoolVar(&testNestedFlag, "recursive", true, "search child nodes for tagged tests")
	rootCmd.AddCommand(testCmd)
}
