package codegen

import (
	"fmt"

	"github.com/cwbudde/minic/internal/ast"
)

// emitStmt emits s such that, by the time it returns, the stack is
// exactly as it was found (§4.4 Model) — every case is responsible for
// draining whatever value(s) its own expressions left behind.
func (g *Generator) emitStmt(s ast.Statement) error {
	switch n := s.(type) {
	case *ast.Block:
		for _, child := range n.Stmts {
			if err := g.emitStmt(child); err != nil {
				return err
			}
		}
		return nil

	case *ast.ExprStmt:
		before := g.depth
		if err := g.emitExpr(n.Expr); err != nil {
			return err
		}
		if g.depth > before {
			g.pop("rax")
		}
		return nil

	case *ast.If:
		return g.emitIf(n)

	case *ast.For:
		return g.emitFor(n)

	case *ast.While:
		return g.emitWhile(n)

	case *ast.Break:
		if len(g.breakStack) == 0 {
			return fmt.Errorf("internal error: break with no enclosing loop reached codegen")
		}
		top := g.breakStack[len(g.breakStack)-1]
		g.emitf("jmp %s", top.endLabel)
		return nil

	case *ast.Return:
		if n.Value != nil {
			if err := g.emitExpr(n.Value); err != nil {
				return err
			}
			g.pop("rax")
		}
		g.emitEpilogue()
		return nil

	default:
		return fmt.Errorf("internal error: unhandled statement %T", n)
	}
}

func (g *Generator) emitIf(n *ast.If) error {
	if err := g.emitExpr(n.Cond); err != nil {
		return err
	}
	g.pop("rax")
	g.emit("cmp rax, 0")

	if n.Else == nil {
		end := g.newLabel()
		g.emitf("je %s", end)
		if err := g.emitStmt(n.Then); err != nil {
			return err
		}
		g.label(end)
		return nil
	}

	elseLabel := g.newLabel()
	end := g.newLabel()
	g.emitf("je %s", elseLabel)
	if err := g.emitStmt(n.Then); err != nil {
		return err
	}
	g.emitf("jmp %s", end)
	g.label(elseLabel)
	if err := g.emitStmt(n.Else); err != nil {
		return err
	}
	g.label(end)
	return nil
}

func (g *Generator) emitFor(n *ast.For) error {
	if n.Init != nil {
		if err := g.emitExpr(n.Init); err != nil {
			return err
		}
		g.pop("rax")
	}

	begin := g.newLabel()
	end := g.newLabel()
	g.label(begin)

	if n.Cond != nil {
		if err := g.emitExpr(n.Cond); err != nil {
			return err
		}
		g.pop("rax")
		g.emit("cmp rax, 0")
		g.emitf("je %s", end)
	}

	g.breakStack = append(g.breakStack, breakFrame{endLabel: end})
	err := g.emitStmt(n.Body)
	g.breakStack = g.breakStack[:len(g.breakStack)-1]
	if err != nil {
		return err
	}

	if n.Step != nil {
		if err := g.emitExpr(n.Step); err != nil {
			return err
		}
		g.pop("rax")
	}
	g.emitf("jmp %s", begin)
	g.label(end)
	return nil
}

func (g *Generator) emitWhile(n *ast.While) error {
	begin := g.newLabel()
	end := g.newLabel()
	g.label(begin)

	if err := g.emitExpr(n.Cond); err != nil {
		return err
	}
	g.pop("rax")
	g.emit("cmp rax, 0")
	g.emitf("je %s", end)

	g.breakStack = append(g.breakStack, breakFrame{endLabel: end})
	err := g.emitStmt(n.Body)
	g.breakStack = g.breakStack[:len(g.breakStack)-1]
	if err != nil {
		return err
	}

	g.emitf("jmp %s", begin)
	g.label(end)
	return nil
}
