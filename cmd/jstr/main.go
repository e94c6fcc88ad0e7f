// Command jstr validates a JSON document against a Schematron-style rule
// set expressed in JSON, re-expressing original_source/src/JstrMain.cc's
// getopt_long-based CLI as a cobra command.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/PerNilsson360/jstr"
	"github.com/PerNilsson360/jstr/internal/inputenc"
	"github.com/PerNilsson360/jstr/schematron"
)

var schemaFlag string

var rootCmd = &cobra.Command{
	Use:   "jstr",
	Short: "Validate a JSON document against a Schematron-style schema",
	Long: `jstr validates json data against a schematron file.
Json data is read from stdin and the result is printed on stdout.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runJstr,
}

func init() {
	rootCmd.Flags().StringVarP(&schemaFlag, "schema", "s", "", "path to a schematron JSON file (required)")
	rootCmd.Version = jstr.Version
}

func runJstr(cmd *cobra.Command, args []string) error {
	if schemaFlag == "" {
		return fmt.Errorf("--schema is required")
	}
	f, err := os.Open(schemaFlag)
	if err != nil {
		return fmt.Errorf("jstr: could not open schematron file: %s", schemaFlag)
	}
	defer f.Close()

	ok, err := schematron.EvalJSON(inputenc.Reader(f), inputenc.Reader(os.Stdin), os.Stdout)
	if err != nil {
		return fmt.Errorf("jstr, error: %w", err)
	}
	if !ok {
		os.Exit(1)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}
