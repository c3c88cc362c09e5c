package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	stof "github.com/dev-formata-io/stof-sub002"
	"github.com/dev-formata-io/stof-sub002/internal/fscap"
	"github.com/dev-formata-io/stof-sub002/internal/ids"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

var (
	callFlag  string
	attrsFlag string
	recursive bool
)

var runCmd = &cobra.Command{
	Use:   "run <file> [args...]",
	Short: "Import a document and call a function or run its attribute-tagged handlers",
	Args:  cobra.MinimumNArgs(1),
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

		if callFlag != "" {
			callArgs := make([]value.Val, len(args)-1)
			for i, a := range args[1:] {
				callArgs[i] = value.StrVal(a)
			}
			v, cerr := doc.Call(ctx, root, callFlag, callArgs)
			if cerr != nil {
				return fmt.Errorf("call %s: %w", callFlag, cerr)
			}
			fmt.Println(v.Display())
			return nil
		}

		attrs := strings.Split(attrsFlag, ",")
		results, errs := doc.RunAttributeFunctions(ctx, root, attrs, recursive)
		for name, v := range results {
			fmt.Printf("%s: %s\n", name, v.Display())
		}
		for name, err := range errs {
			fmt.Fprintf(os.Stderr, "%s: %s\n", name, err)
		}
		if len(errs) > 0 {
			return fmt.Errorf("%d handler(s) failed", len(errs))
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&callFlag, "call", "", "call a single named function instead of running attribute handlers")
	runCmd.Flags().StringVar(&attrsFlag, "attrs", "main", "comma-separated attribute names to run (default: main)")
	runCmd.Flags().BoolVar(&recursive, "recursive", true, "search child nodes for tagged handlers")
	rootCmd.AddCommand(runCmd)
}
