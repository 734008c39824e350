// Package codegen walks the AST and emits GNU assembler, Intel syntax,
// for x86-64 (§4.4). The emission model is a pure stack machine: every
// expression leaves exactly one 8-byte value on the hardware stack and
// every statement leaves the stack exactly as it found it. Grounded on
// CWBudde-go-dws's internal/bytecode compiler (loop-context/break-jump-list
// bookkeeping, a single output sink threaded through emission), re-purposed
// from bytecode-op emission to textual x86-64 assembly emission over this
// compiler's own AST; the push/pop-pair idiom for binary operators and the
// cqo/idiv division sequence follow the same approach as a minimal
// reference x86-64 codegen sketch in the retrieval pack.
package codegen

import (
	"fmt"
	"strings"

	"github.com/cwbudde/minic/internal/ast"
	"github.com/cwbudde/minic/internal/defs"
)

// argRegs is the System V x86-64 integer argument register order. The
// reference source truncates this list (omitting rsi); this
// implementation uses the standard six-register order (§9).
var argRegs = []string{"rdi", "rsi", "rdx", "rcx", "r8", "r9"}

// breakFrame is one entry of the break-target stack: the label a Break
// statement inside the loop must jump to.
type breakFrame struct {
	endLabel string
}

// Generator owns the output buffer, the label counter, and the
// break-target stack while walking one compiled program (§4.4).
type Generator struct {
	buf          strings.Builder
	labelCounter int
	breakStack   []breakFrame

	// depth is the number of 8-byte words the current function has
	// pushed onto the hardware stack beyond its 16-byte-aligned
	// post-prologue baseline. It lets emitCall compute exactly how much
	// padding (if any) restores 16-byte alignment before `call` without
	// a separate symbolic stack-effect pass.
	depth int
}

// Generate walks prog and returns the complete assembly file text.
func Generate(prog *ast.Program) (string, error) {
	g := &Generator{}
	g.writeHeader(prog)
	for _, fn := range prog.Functions {
		if err := g.emitFunc(fn); err != nil {
			return "", err
		}
	}
	return g.buf.String(), nil
}

// writeHeader emits the fixed two-line header (§6) followed by a .bss
// section for any global variables — the latter has no counterpart in
// the reference source's single-function output but is required once
// this compiler accepts global declarations.
func (g *Generator) writeHeader(prog *ast.Program) {
	g.buf.WriteString(".intel_syntax noprefix\n")
	g.buf.WriteString(".globl main\n")
	if len(prog.Globals) > 0 {
		g.buf.WriteString("\n.bss\n")
		for _, v := range prog.Globals {
			fmt.Fprintf(&g.buf, "%s:\n    .zero %d\n", v.Name, v.Type.Size())
		}
	}
	g.buf.WriteString("\n")
}

func (g *Generator) emit(line string) {
	g.buf.WriteString("  ")
	g.buf.WriteString(line)
	g.buf.WriteByte('\n')
}

func (g *Generator) emitf(format string, args ...any) {
	g.emit(fmt.Sprintf(format, args...))
}

func (g *Generator) label(name string) {
	g.buf.WriteString(name)
	g.buf.WriteString(":\n")
}

func (g *Generator) newLabel() string {
	g.labelCounter++
	return fmt.Sprintf(".L%d", g.labelCounter)
}

// push emits a push of operand and tracks the resulting stack depth.
func (g *Generator) push(operand string) {
	g.emitf("push %s", operand)
	g.depth++
}

// pop emits a pop into reg and tracks the resulting stack depth.
func (g *Generator) pop(reg string) {
	g.emitf("pop %s", reg)
	g.depth--
}

// alignUp16 rounds n up to the next multiple of 16.
func alignUp16(n int) int {
	if n%16 == 0 {
		return n
	}
	return n + (16 - n%16)
}

// emitFunc emits one function's prologue, spilled arguments, body, and
// epilogue (§4.4).
func (g *Generator) emitFunc(fn *ast.FuncImpl) error {
	g.label(fn.Name)
	g.emit("push rbp")
	g.emit("mov rbp, rsp")

	reserve := fn.FrameSize - 8
	if reserve > 0 {
		// Round the reservation up to a 16-byte multiple so the
		// post-prologue baseline is always 16-byte aligned, regardless
		// of frame_size's own 8-byte alignment rule; the extra slack is
		// below every local's rbp-relative offset and never observed.
		g.emitf("sub rsp, %d", alignUp16(reserve))
	}

	for i, v := range fn.ArgVars {
		if i >= len(argRegs) {
			return fmt.Errorf("function %q has more than %d parameters, which this ABI cannot pass in registers", fn.Name, len(argRegs))
		}
		g.emitf("mov [rbp-%d], %s", v.FrameOffset, argRegs[i])
	}

	g.depth = 0
	for _, stmt := range fn.Body.Stmts {
		if err := g.emitStmt(stmt); err != nil {
			return err
		}
	}

	g.emitEpilogue()
	return nil
}

func (g *Generator) emitEpilogue() {
	g.emit("mov rsp, rbp")
	g.emit("pop rbp")
	g.emit("ret")
}

// emitVarAddress pushes the address of a variable: an rbp-relative local
// or an rip-relative global.
func (g *Generator) emitVarAddress(v *defs.Variable) {
	if v.IsLocal {
		g.emit(fmt.Sprintf("lea rax, [rbp-%d]", v.FrameOffset))
	} else {
		g.emit(fmt.Sprintf("lea rax, %s[rip]", v.Name))
	}
	g.push("rax")
}
