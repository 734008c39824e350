package codegen

import (
	"fmt"

	"github.com/cwbudde/minic/internal/ast"
)

// emitExpr emits n such that exactly one 8-byte value is left on the
// stack (§4.4 Model); the one exception is a call to a void function,
// which leaves nothing (see emitCall).
func (g *Generator) emitExpr(n ast.Expression) error {
	switch n := n.(type) {
	case *ast.IntLiteral:
		g.push(fmt.Sprintf("%d", n.Value))
		return nil

	case *ast.VarRef:
		return g.emitVarRef(n)

	case *ast.AddressOf:
		return g.emitAddress(n.Operand)

	case *ast.Deref:
		if err := g.emitExpr(n.Operand); err != nil {
			return err
		}
		g.pop("rax")
		g.push("[rax]")
		return nil

	case *ast.Index:
		return g.emitIndex(n)

	case *ast.UnaryOp:
		return g.emitUnary(n)

	case *ast.BinaryOp:
		return g.emitBinary(n)

	case *ast.Call:
		return g.emitCall(n)

	default:
		return fmt.Errorf("internal error: unhandled expression %T", n)
	}
}

// emitVarRef loads a scalar variable's value, or — for an array, which
// has no single scalar value — its decayed address (§3 Decayed).
func (g *Generator) emitVarRef(n *ast.VarRef) error {
	v := n.Variable
	if v.Type.IsArray() {
		g.emitVarAddress(v)
		return nil
	}
	if v.IsLocal {
		g.push(fmt.Sprintf("[rbp-%d]", v.FrameOffset))
	} else {
		g.push(fmt.Sprintf("%s[rip]", v.Name))
	}
	return nil
}

// emitAddress pushes the address of an lvalue-shaped expression —
// VarRef, Deref, or Index — never its value. AddressOf's parse-time
// check also loosely accepts any primitive-typed rvalue (§4.3), such as
// &(a + 1) or &f(); such an operand has no address, and it reaches the
// default case here, which fails code generation with an error.
func (g *Generator) emitAddress(n ast.Expression) error {
	switch n := n.(type) {
	case *ast.VarRef:
		g.emitVarAddress(n.Variable)
		return nil
	case *ast.Deref:
		// *p's address is simply p's value.
		return g.emitExpr(n.Operand)
	case *ast.Index:
		return g.emitIndexAddress(n)
	default:
		return fmt.Errorf("internal error: %T is not addressable", n)
	}
}

// emitIndexAddress pushes addr(base) + index*size(elem) (§4.4).
func (g *Generator) emitIndexAddress(n *ast.Index) error {
	if err := g.emitExpr(n.IndexExp); err != nil {
		return err
	}
	g.pop("rax")
	g.emitf("imul rax, %d", n.ValType.Size())
	g.push("rax")

	if err := g.emitExpr(n.Base); err != nil {
		return err
	}

	g.pop("rax") // addr(base)
	g.pop("rdi") // index*size(elem)
	g.emit("add rax, rdi")
	g.push("rax")
	return nil
}

// emitIndex loads base[index], or — when the element type is itself an
// array — decays to its address the same way emitVarRef does, so that
// multi-dimensional indexing chains compose.
func (g *Generator) emitIndex(n *ast.Index) error {
	if err := g.emitIndexAddress(n); err != nil {
		return err
	}
	if n.ValType.IsArray() {
		return nil
	}
	g.pop("rax")
	g.push("[rax]")
	return nil
}

func (g *Generator) emitUnary(n *ast.UnaryOp) error {
	switch n.Op {
	case ast.Not:
		if err := g.emitExpr(n.Operand); err != nil {
			return err
		}
		g.pop("rax")
		g.emit("cmp rax, 0")
		g.emit("sete al")
		g.emit("movzx rax, al")
		g.push("rax")
		return nil

	case ast.BitNot:
		if err := g.emitExpr(n.Operand); err != nil {
			return err
		}
		g.pop("rax")
		g.emit("not rax")
		g.push("rax")
		return nil

	case ast.PreInc, ast.PreDec, ast.PostInc, ast.PostDec:
		return g.emitIncDec(n)

	default:
		return fmt.Errorf("internal error: unhandled unary operator %v", n.Op)
	}
}

// emitIncDec implements the increment/decrement operators as a desugared
// load-modify-store: the prefix forms leave the new value, the postfix
// forms leave the old value (§4.3).
func (g *Generator) emitIncDec(n *ast.UnaryOp) error {
	if err := g.emitAddress(n.Operand); err != nil {
		return err
	}
	g.emit("mov rax, [rsp]") // rax = address, without disturbing the stack
	g.emit("mov rdi, [rax]") // rdi = old value
	if n.Op == ast.PreInc || n.Op == ast.PostInc {
		g.emit("lea rsi, [rdi+1]")
	} else {
		g.emit("lea rsi, [rdi-1]")
	}
	g.emit("mov [rax], rsi") // store new value
	g.pop("rax")             // discard the pushed address
	if n.Op == ast.PreInc || n.Op == ast.PreDec {
		g.push("rsi")
	} else {
		g.push("rdi")
	}
	return nil
}

func (g *Generator) emitBinary(n *ast.BinaryOp) error {
	if n.Op == ast.Assign {
		return g.emitAssign(n)
	}
	switch n.Op {
	case ast.Add, ast.Sub, ast.Mul, ast.Div, ast.Rem:
		return g.emitArith(n)
	case ast.Eq, ast.NotEq, ast.Lt, ast.Le, ast.Gt, ast.Ge:
		return g.emitCompare(n)
	case ast.BitAnd, ast.BitOr, ast.BitXor:
		return g.emitBitwise(n)
	case ast.LogAnd:
		return g.emitLogAnd(n)
	case ast.LogOr:
		return g.emitLogOr(n)
	default:
		return fmt.Errorf("internal error: unhandled binary operator %v", n.Op)
	}
}

func (g *Generator) emitAssign(n *ast.BinaryOp) error {
	if err := g.emitAddress(n.Left); err != nil {
		return err
	}
	if err := g.emitExpr(n.Right); err != nil {
		return err
	}
	g.pop("rax") // rvalue
	g.pop("rdi") // address
	g.emit("mov [rdi], rax")
	g.push("rax")
	return nil
}

// emitArith follows §4.4's rule verbatim: emit right, emit left, pop
// rax (left), pop rdi (right), combine into rax, push rax.
func (g *Generator) emitArith(n *ast.BinaryOp) error {
	if err := g.emitExpr(n.Right); err != nil {
		return err
	}
	if err := g.emitExpr(n.Left); err != nil {
		return err
	}
	g.pop("rax")
	g.pop("rdi")
	switch n.Op {
	case ast.Add:
		g.emit("add rax, rdi")
	case ast.Sub:
		g.emit("sub rax, rdi")
	case ast.Mul:
		g.emit("imul rax, rdi")
	case ast.Div:
		g.emit("cqo")
		g.emit("idiv rdi")
	case ast.Rem:
		g.emit("cqo")
		g.emit("idiv rdi")
		g.emit("mov rax, rdx")
	}
	g.push("rax")
	return nil
}

var compareSetcc = map[ast.BinaryOpKind]string{
	ast.Eq:    "sete",
	ast.NotEq: "setne",
	ast.Lt:    "setl",
	ast.Le:    "setle",
}

// emitCompare implements comparisons; ">" and ">=" are rewritten to "<"
// and "<=" with swapped operands (§4.4).
func (g *Generator) emitCompare(n *ast.BinaryOp) error {
	op := n.Op
	left, right := n.Left, n.Right
	switch op {
	case ast.Gt:
		op, left, right = ast.Lt, right, left
	case ast.Ge:
		op, left, right = ast.Le, right, left
	}

	if err := g.emitExpr(right); err != nil {
		return err
	}
	if err := g.emitExpr(left); err != nil {
		return err
	}
	g.pop("rax")
	g.pop("rdi")
	g.emit("cmp rax, rdi")
	g.emitf("%s al", compareSetcc[op])
	g.emit("movzx rax, al")
	g.push("rax")
	return nil
}

func (g *Generator) emitBitwise(n *ast.BinaryOp) error {
	if err := g.emitExpr(n.Right); err != nil {
		return err
	}
	if err := g.emitExpr(n.Left); err != nil {
		return err
	}
	g.pop("rax")
	g.pop("rdi")
	switch n.Op {
	case ast.BitAnd:
		g.emit("and rax, rdi")
	case ast.BitOr:
		g.emit("or rax, rdi")
	case ast.BitXor:
		g.emit("xor rax, rdi")
	}
	g.push("rax")
	return nil
}

// emitLogAnd short-circuits: if the left operand is false, the right is
// never evaluated (§8 scenario 9).
func (g *Generator) emitLogAnd(n *ast.BinaryOp) error {
	falseLabel := g.newLabel()
	end := g.newLabel()

	if err := g.emitExpr(n.Left); err != nil {
		return err
	}
	g.pop("rax")
	g.emit("cmp rax, 0")
	g.emitf("je %s", falseLabel)

	if err := g.emitExpr(n.Right); err != nil {
		return err
	}
	g.pop("rax")
	g.emit("cmp rax, 0")
	g.emitf("je %s", falseLabel)

	g.push("1")
	g.emitf("jmp %s", end)
	g.label(falseLabel)
	g.push("0")
	g.label(end)
	return nil
}

func (g *Generator) emitLogOr(n *ast.BinaryOp) error {
	trueLabel := g.newLabel()
	end := g.newLabel()

	if err := g.emitExpr(n.Left); err != nil {
		return err
	}
	g.pop("rax")
	g.emit("cmp rax, 0")
	g.emitf("jne %s", trueLabel)

	if err := g.emitExpr(n.Right); err != nil {
		return err
	}
	g.pop("rax")
	g.emit("cmp rax, 0")
	g.emitf("jne %s", trueLabel)

	g.push("0")
	g.emitf("jmp %s", end)
	g.label(trueLabel)
	g.push("1")
	g.label(end)
	return nil
}

// emitCall evaluates arguments left to right, pops them into argument
// registers in reverse so the first argument lands in the first
// register, pads the stack to 16-byte alignment if needed, and pushes
// rax after the call when the function returns a value (§4.4).
func (g *Generator) emitCall(n *ast.Call) error {
	for _, a := range n.Args {
		if err := g.emitExpr(a); err != nil {
			return err
		}
	}
	if len(n.Args) > len(argRegs) {
		return fmt.Errorf("internal error: call to %q has more than %d arguments", n.Name, len(argRegs))
	}
	for i := len(n.Args) - 1; i >= 0; i-- {
		g.pop(argRegs[i])
	}

	padded := g.depth%2 != 0
	if padded {
		g.emit("sub rsp, 8")
	}
	g.emitf("call %s", n.Name)
	if padded {
		g.emit("add rsp, 8")
	}

	if !n.ResultType.IsVoid() {
		g.push("rax")
	}
	return nil
}
