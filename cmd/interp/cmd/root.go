// Package cmd implements the interp command-line driver: argument
// parsing, source loading, and wiring the lexer/parser/evaluator
// pipeline together.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/cwbudde/ibscript/internal/diag"
	"github.com/cwbudde/ibscript/internal/interp"
	"github.com/cwbudde/ibscript/internal/langerr"
	"github.com/cwbudde/ibscript/internal/lexer"
	"github.com/cwbudde/ibscript/internal/parser"
	"github.com/spf13/cobra"
)

// Version is set by build flags (ldflags).
var Version = "0.1.0-dev"

var (
	inputPath   string
	showVersion bool
	showHelp2   bool
)

var rootCmd = &cobra.Command{
	Use:           "interp",
	Short:         "Run an IB pseudocode program",
	Long:          `interp lexes, parses, and executes an IB pseudocode source file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runInterp,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().StringVarP(&inputPath, "input", "I", "", "input source file")
	rootCmd.Flags().BoolVarP(&showVersion, "version", "V", false, "print version information and exit")
	rootCmd.Flags().BoolVarP(&showHelp2, "help2", "?", false, "show usage and exit")
}

func runInterp(c *cobra.Command, _ []string) error {
	if showVersion {
		fmt.Printf("interp version %s\n", Version)
		return nil
	}
	if showHelp2 {
		return c.Help()
	}
	if inputPath == "" {
		return fmt.Errorf("no input file given (-I/--input)")
	}

	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", inputPath, err)
	}

	cleaned := diag.Clean(string(raw))
	sm := diag.NewSourceMap(cleaned)

	start := time.Now()
	if err := runSource(cleaned); err != nil {
		le, ok := err.(*langerr.Error)
		if !ok {
			return err
		}
		color := os.Getenv("NO_COLOR") == ""
		fmt.Fprintln(os.Stderr, diag.Render(le, sm, inputPath, color))
		return nil
	}

	elapsed := time.Since(start)
	fmt.Printf("Successful execution. Time elapsed: %d ms.\n", elapsed.Milliseconds())
	return nil
}

func runSource(cleaned string) error {
	toks, err := lexer.New(cleaned).Lex()
	if err != nil {
		lerr, ok := err.(*lexer.Error)
		if !ok {
			return err
		}
		return langerr.At(langerr.Lexing, lerr.Pos, "%s", lerr.Msg)
	}

	prog, err := parser.New(toks).ParseProgram()
	if err != nil {
		return err
	}

	ev := interp.New(os.Stdout, os.Stdin)
	return ev.Run(prog)
}
