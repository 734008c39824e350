package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/cwbudde/minic/internal/compiler"
	"github.com/cwbudde/minic/internal/diag"
	"github.com/spf13/cobra"
)

// Version is set by build flags.
var Version = "0.1.0-dev"

const outputPath = "./tmp.s"

var rootCmd = &cobra.Command{
	Use:   "compiler <source-file>...",
	Short: "Single-pass compiler to x86-64 assembly",
	Long: `compiler translates a small C-like language directly to x86-64
Intel-syntax assembly in one pass: lex, parse (with inlined semantic
checks), and emit.

Each input file is compiled independently; the generated assembly is
always written to ./tmp.s, overwriting whatever the previous input
produced.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args: func(_ *cobra.Command, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("no input files")
		}
		return nil
	},
	RunE: func(_ *cobra.Command, args []string) error {
		return compileAll(args)
	},
}

// Execute runs the root command and reports the exit code §6 fixes: 0 on
// success, 255 on any fatal error.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		return 255
	}
	return 0
}

// printError renders a *diag.Error in the caret-annotated three-line
// shape §6 specifies; any other error (I/O, internal) is a plain
// one-line message.
func printError(err error) {
	var diagErr *diag.Error
	if errors.As(err, &diagErr) {
		fmt.Fprintln(os.Stderr, diagErr.Format())
		return
	}
	fmt.Fprintf(os.Stderr, "error: %s\n", err)
}

// compileAll compiles each input file independently, overwriting
// outputPath after every successful compile so the file on disk always
// reflects the last input compiled before any failure (§6: "overwritten
// per input; the last input wins"; §5: no output beyond what is already
// flushed may be produced on failure).
func compileAll(files []string) error {
	for _, name := range files {
		content, err := os.ReadFile(name)
		if err != nil {
			return fmt.Errorf("reading %s: %w", name, err)
		}
		asm, err := compiler.Compile(name, string(content))
		if err != nil {
			return err
		}
		if err := os.WriteFile(outputPath, []byte(asm), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", outputPath, err)
		}
	}
	return nil
}
