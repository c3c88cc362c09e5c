// Command stof is the reference CLI for the Stof document engine: import a
// document from one of the registered formats, call functions against it,
// run its attribute-tagged tests, and export it back out — grounded on the
// teacher's cmd/*.go cobra scaffolding.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	formatFlag string
	fileFlag   string
)

var rootCmd = &cobra.Command{
	Use:   "stof",
	Short: "Stof: an embedded, scriptable data-and-computation substrate",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "document format (json, hcl, sqlite, bytes)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
