package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	stof "github.com/dev-formata-io/stof-sub002"
	"github.com/dev-formata-io/stof-sub002/internal/fscap"
)

var toFormatFlag string

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a document and re-export it (format conversion, or a structure sanity check with --to omitted)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc := stof.New().WithFilesystem(fscap.OS("."))
		ctx := context.Background()
		if err := doc.FileImport(ctx, formatFlag, args[0], nil); err != nil {
			return fmt.Errorf("import: %w", err)
		}
		if toFormatFlag == "" {
			fmt.Fprintf(os.Stderr, "imported %s as %s (%d root node(s))\n", args[0], formatFlag, len(doc.Graph.Roots()))
			return nil
		}
		out, err := doc.StringExport(ctx, toFormatFlag, nil)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		fmt.Println(out)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <file> <output>",
	Short: "Import a document and export it to a file in a (possibly different) format",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc := stof.New().WithFilesystem(fscap.OS("."))
		ctx := context.Background()
		if err := doc.FileImport(ctx, formatFlag, args[0], nil); err != nil {
			return fmt.Errorf("import: %w", err)
		}
		target := toFormatFlag
		if target == "" {
			target = formatFlag
		}
		if err := doc.FileExport(ctx, target, args[1], nil); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&toFormatFlag, "to", "", "format to re-export as (omit to just validate the import)")
	exportCmd.Flags().StringVar(&toFormatFlag, "to", "", "output format (defaults to --format)")
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
}
