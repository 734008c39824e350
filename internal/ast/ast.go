// Package ast defines the abstract syntax tree produced by the parser:
// a closed sum of node kinds, one small struct per kind, rather than
// a single struct with many optional children. Grounded on CWBudde-go-dws's
// internal/ast Node/Expression/Statement interface split, generalized
// from DWScript's much larger node set down to this language's fixed
// kind list.
package ast

import (
	"github.com/cwbudde/minic/internal/lexer"
	"github.com/cwbudde/minic/internal/types"
)

// Node is implemented by every AST node.
type Node interface {
	Pos() lexer.Position
	String() string
}

// Expression is a node that produces exactly one value when emitted
// (§4.4: "every expression AST evaluates to exactly one value"), except
// a Call to a void function, which produces none.
type Expression interface {
	Node
	Type() *types.Type
	exprNode()
}

// Statement is a node that performs an action without itself producing a
// value.
type Statement interface {
	Node
	stmtNode()
}
