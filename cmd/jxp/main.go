// Command jxp evaluates an XPath 1.0 expression against a JSON document,
// re-expressing original_source/src/JxpMain.cc's getopt_long-based CLI as a
// cobra command, the CLI framework nihei9-vartan/cmd/vartan builds its
// commands on.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/PerNilsson360/jstr"
	"github.com/PerNilsson360/jstr/internal/inputenc"
	"github.com/PerNilsson360/jstr/xpath"
)

var (
	xpathFlag   string
	jsonFlag    string
	explainFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "jxp",
	Short: "Evaluate an XPath 1.0 expression against a JSON document",
	Long: `jxp evaluates an xpath expression against a JSON object.
JSON data is read from the file named by --json, or from stdin if omitted,
and the result is printed on stdout.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runJxp,
}

func init() {
	rootCmd.Flags().StringVarP(&xpathFlag, "xpath", "x", "", "XPath expression to evaluate (required)")
	rootCmd.Flags().StringVarP(&jsonFlag, "json", "j", "", "path to a JSON file (defaults to stdin)")
	rootCmd.Flags().BoolVar(&explainFlag, "explain", false, "print the normalized parsed expression to stderr before evaluating")
	rootCmd.Version = jstr.Version
}

func runJxp(cmd *cobra.Command, args []string) error {
	if xpathFlag == "" {
		return fmt.Errorf("--xpath is required")
	}

	if jsonFlag != "" {
		f, err := os.Open(jsonFlag)
		if err != nil {
			return fmt.Errorf("jxp: %w", err)
		}
		defer f.Close()
		doc, err := xpath.NewDocument(inputenc.Reader(f))
		if err != nil {
			return fmt.Errorf("jxp: %w", err)
		}
		return evalAndPrint(doc)
	}

	fmt.Fprintln(os.Stderr, "jxp: waiting for data on stdin.")
	doc, err := xpath.NewDocument(inputenc.Reader(os.Stdin))
	if err != nil {
		return fmt.Errorf("jxp: %w", err)
	}
	return evalAndPrint(doc)
}

func evalAndPrint(doc *xpath.Document) error {
	if explainFlag {
		expr, err := xpath.Compile(xpathFlag)
		if err != nil {
			return fmt.Errorf("jxp: %w", err)
		}
		fmt.Fprintln(os.Stderr, expr.String())
	}
	value, err := xpath.Eval(xpathFlag, doc)
	if err != nil {
		return fmt.Errorf("jxp, error: %w", err)
	}
	fmt.Println(value.String())
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps an error to the process exit status spec §6 defines:
// 1 for a parse failure, 2 for everything else (evaluation errors, I/O
// errors, bad flags).
func exitCodeFor(err error) int {
	var xerr *xpath.Error
	if errors.As(err, &xerr) && xerr.Kind == xpath.ParseError {
		return 1
	}
	return 2
}
