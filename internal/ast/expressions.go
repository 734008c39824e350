package ast

import (
	"fmt"

	"github.com/cwbudde/minic/internal/defs"
	"github.com/cwbudde/minic/internal/lexer"
	"github.com/cwbudde/minic/internal/types"
)

// IntLiteral is a bare integer constant (§3).
type IntLiteral struct {
	Value    int64
	ValType  *types.Type
	Position lexer.Position
}

func (n *IntLiteral) exprNode()           {}
func (n *IntLiteral) Type() *types.Type   { return n.ValType }
func (n *IntLiteral) Pos() lexer.Position { return n.Position }
func (n *IntLiteral) String() string      { return fmt.Sprintf("%d", n.Value) }

// VarRef is a reference to a previously declared variable (global or
// local). The resolved definitions-table entry is embedded directly
// rather than looked up again at codegen time.
type VarRef struct {
	Variable *defs.Variable
	Position lexer.Position
}

func (n *VarRef) exprNode()           {}
func (n *VarRef) Type() *types.Type   { return n.Variable.Type }
func (n *VarRef) Pos() lexer.Position { return n.Position }
func (n *VarRef) String() string      { return n.Variable.Name }

// AddressOf computes the address of an addressable operand (§4.3:
// requires a variable or primitive-typed expression); never its value.
type AddressOf struct {
	Operand  Expression
	ValType  *types.Type
	Position lexer.Position
}

func (n *AddressOf) exprNode()           {}
func (n *AddressOf) Type() *types.Type   { return n.ValType }
func (n *AddressOf) Pos() lexer.Position { return n.Position }
func (n *AddressOf) String() string      { return "&" + n.Operand.String() }

// Deref reads through a pointer-typed operand.
type Deref struct {
	Operand  Expression
	ValType  *types.Type
	Position lexer.Position
}

func (n *Deref) exprNode()           {}
func (n *Deref) Type() *types.Type   { return n.ValType }
func (n *Deref) Pos() lexer.Position { return n.Position }
func (n *Deref) String() string      { return "*" + n.Operand.String() }

// Index is an array/pointer subscript, base[index].
type Index struct {
	Base     Expression
	IndexExp Expression
	ValType  *types.Type
	Position lexer.Position
}

func (n *Index) exprNode()           {}
func (n *Index) Type() *types.Type   { return n.ValType }
func (n *Index) Pos() lexer.Position { return n.Position }
func (n *Index) String() string      { return n.Base.String() + "[" + n.IndexExp.String() + "]" }

// UnaryOp is a prefix/postfix unary operator application (§3).
type UnaryOp struct {
	Op       UnaryOpKind
	Operand  Expression
	ValType  *types.Type
	Position lexer.Position
}

func (n *UnaryOp) exprNode()           {}
func (n *UnaryOp) Type() *types.Type   { return n.ValType }
func (n *UnaryOp) Pos() lexer.Position { return n.Position }
func (n *UnaryOp) String() string      { return n.Op.String() + n.Operand.String() }

// BinaryOp is a binary operator application, including Assign (§3:
// "Assign" is modeled as a BinaryOp whose Left is an lvalue).
type BinaryOp struct {
	Op       BinaryOpKind
	Left     Expression
	Right    Expression
	ValType  *types.Type
	Position lexer.Position
}

func (n *BinaryOp) exprNode()           {}
func (n *BinaryOp) Type() *types.Type   { return n.ValType }
func (n *BinaryOp) Pos() lexer.Position { return n.Position }
func (n *BinaryOp) String() string {
	return "(" + n.Left.String() + " " + n.Op.String() + " " + n.Right.String() + ")"
}

// Call invokes a declared function; FuncDecl carries the signature
// consulted for argument type-checking, ResultType the value left on
// the stack after the call (§4.4).
type Call struct {
	Name       string
	FuncDecl   *defs.FunctionDecl
	ResultType *types.Type
	Args       []Expression
	Position   lexer.Position
}

func (n *Call) exprNode()           {}
func (n *Call) Type() *types.Type   { return n.ResultType }
func (n *Call) Pos() lexer.Position { return n.Position }
func (n *Call) String() string {
	s := n.Name + "("
	for i, a := range n.Args {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + ")"
}
