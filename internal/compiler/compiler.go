// Package compiler wires the lexer, parser, and code generator into the
// single-pass driver of §4.5: read source, tokenize, build the AST
// (with inlined semantic checks), emit assembly. Grounded on
// CWBudde-go-dws's cmd/dwscript/cmd.runScript, which performs the same
// lex → parse → (semantic) → execute sequence and converts library
// errors into one rendered diagnostic before returning, generalized
// here from interpretation to assembly emission and from a tolerant
// multi-error parser to this language's first-error-fatal model.
package compiler

import (
	"errors"
	"fmt"

	"github.com/cwbudde/minic/internal/codegen"
	"github.com/cwbudde/minic/internal/defs"
	"github.com/cwbudde/minic/internal/diag"
	"github.com/cwbudde/minic/internal/lexer"
	"github.com/cwbudde/minic/internal/parser"
)

// Compile runs one source file through the full pipeline and returns the
// generated assembly text. name is used only to label diagnostics; it
// need not be a real path. Every compilation gets its own *defs.Environment
// and *diag.Source (§5: "no shared mutable state between runs").
func Compile(name, source string) (string, error) {
	src := diag.NewSource(name, source)

	tokens, err := lexer.Tokenize(source)
	if err != nil {
		var lexErr *lexer.LexError
		if errors.As(err, &lexErr) {
			return "", diag.New(src, lexErr.Pos, "%s", lexErr.Message)
		}
		return "", fmt.Errorf("%s: %w", name, err)
	}

	env := defs.NewEnvironment()
	prog, err := parser.Parse(tokens, src, env)
	if err != nil {
		return "", err
	}

	asm, err := codegen.Generate(prog)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return asm, nil
}
