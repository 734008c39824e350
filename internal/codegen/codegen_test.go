package codegen

import (
	"strings"
	"testing"

	"github.com/cwbudde/minic/internal/defs"
	"github.com/cwbudde/minic/internal/diag"
	"github.com/cwbudde/minic/internal/lexer"
	"github.com/cwbudde/minic/internal/parser"
)

func generate(t *testing.T, src string) string {
	t.Helper()
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("tokenizing: %v", err)
	}
	source := diag.NewSource("t.c", src)
	env := defs.NewEnvironment()
	prog, err := parser.Parse(tokens, source, env)
	if err != nil {
		t.Fatalf("parsing: %v", err)
	}
	asm, err := Generate(prog)
	if err != nil {
		t.Fatalf("generating: %v", err)
	}
	return asm
}

// TestHeaderIsFixed checks §6's exact two-line header.
func TestHeaderIsFixed(t *testing.T) {
	asm := generate(t, "int main() { return 0; }")
	if !strings.HasPrefix(asm, ".intel_syntax noprefix\n.globl main\n") {
		t.Fatalf("unexpected header:\n%s", asm)
	}
}

// TestLabelsAreUnique covers §8's "Label uniqueness" property over a
// program with enough branches and loops to exercise label generation
// repeatedly.
func TestLabelsAreUnique(t *testing.T) {
	src := `int main() {
		long i;
		long s;
		s = 0;
		for (i = 0; i < 10; i = i + 1) {
			if (i == 5) break;
			if (i > 2) s = s + 1; else s = s - 1;
		}
		return s;
	}`
	asm := generate(t, src)

	seen := make(map[string]bool)
	for _, line := range strings.Split(asm, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, ".L") && strings.HasSuffix(line, ":") {
			if seen[line] {
				t.Fatalf("label %q emitted more than once", line)
			}
			seen[line] = true
		}
	}
	if len(seen) == 0 {
		t.Fatal("expected at least one label to be emitted")
	}
}

// TestEveryFunctionHasPrologueAndEpilogue checks that multi-function
// programs emit one labelled block per function in source order (§6).
func TestEveryFunctionHasPrologueAndEpilogue(t *testing.T) {
	src := `long add(long x, long y) { return x + y; } int main() { return add(2, 3); }`
	asm := generate(t, src)

	addIdx := strings.Index(asm, "add:")
	mainIdx := strings.Index(asm, "main:")
	if addIdx < 0 || mainIdx < 0 {
		t.Fatalf("expected both add: and main: labels, got:\n%s", asm)
	}
	if addIdx > mainIdx {
		t.Fatalf("expected add before main in source order, got:\n%s", asm)
	}
	if strings.Count(asm, "push rbp") != 2 {
		t.Fatalf("expected exactly two prologues, got:\n%s", asm)
	}
	if strings.Count(asm, "pop rbp") != 2 {
		t.Fatalf("expected exactly two epilogues, got:\n%s", asm)
	}
}

// TestStackBalanceAcrossStatements covers §8's "Stack balance" property:
// after every statement in a function body is emitted, the depth tracked
// since the post-prologue baseline returns to zero.
func TestStackBalanceAcrossStatements(t *testing.T) {
	src := `int main() {
		long s;
		long i;
		s = 0;
		for (i = 1; i <= 10; i = i + 1) {
			if (i == 5) { s = s + 100; } else { s = s + i; }
		}
		return s;
	}`
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("tokenizing: %v", err)
	}
	source := diag.NewSource("t.c", src)
	env := defs.NewEnvironment()
	prog, err := parser.Parse(tokens, source, env)
	if err != nil {
		t.Fatalf("parsing: %v", err)
	}

	g := &Generator{}
	fn := prog.Functions[0]
	g.depth = 0
	for _, stmt := range fn.Body.Stmts {
		if err := g.emitStmt(stmt); err != nil {
			t.Fatalf("emitting statement: %v", err)
		}
		if g.depth != 0 {
			t.Fatalf("stack depth %d after statement %s, want 0", g.depth, stmt.String())
		}
	}
}

// TestGlobalsEmitBssSection checks the global-variable supplement's
// data-section emission.
func TestGlobalsEmitBssSection(t *testing.T) {
	src := `long counter; int main() { counter = 1; return counter; }`
	asm := generate(t, src)
	if !strings.Contains(asm, ".bss") {
		t.Fatalf("expected a .bss section for global counter, got:\n%s", asm)
	}
	if !strings.Contains(asm, "counter:\n    .zero 8") {
		t.Fatalf("expected counter's .zero entry, got:\n%s", asm)
	}
	if !strings.Contains(asm, "counter[rip]") {
		t.Fatalf("expected rip-relative access to counter, got:\n%s", asm)
	}
}
