// Package parser implements the recursive-descent AST builder of §4.3.
// Declaration/use checks, type compatibility, lvalue checks, and the
// definitions-environment bookkeeping are inlined into parsing rather
// than run as a separate semantic pass — the same single-pass shape
// CWBudde-go-dws's own parser uses to mutate its environment while it reads
// tokens, generalized here from DWScript's Pratt expression parser down
// to this language's fixed precedence-climbing grammar (the grammar
// itself gives an explicit precedence ladder, so a Pratt table is not
// needed).
package parser

import (
	"fmt"

	"github.com/cwbudde/minic/internal/ast"
	"github.com/cwbudde/minic/internal/defs"
	"github.com/cwbudde/minic/internal/diag"
	"github.com/cwbudde/minic/internal/lexer"
	"github.com/cwbudde/minic/internal/types"
)

// Parser consumes a flat token slice (no trailing EOF sentinel, matching
// lexer.Tokenize's contract) and mutates env as it recognizes
// declarations.
type Parser struct {
	tokens []lexer.Token
	pos    int

	env    *defs.Environment
	source *diag.Source

	longType  *types.Type // the 8-byte integer type comparisons/logicals/bitwise ops carry (§4.3)
	loopDepth int         // nesting depth of For/While bodies, so Break can reject "no enclosing loop" (§7)
}

// Parse runs the AST builder over tokens, mutating env with every
// declaration it encounters.
func Parse(tokens []lexer.Token, source *diag.Source, env *defs.Environment) (*ast.Program, error) {
	p := &Parser{tokens: tokens, env: env, source: source}
	p.longType, _ = env.Types.Primitive("long")

	prog := &ast.Program{}
	for !p.atEnd() {
		fn, global, err := p.parseGlobal()
		if err != nil {
			return nil, err
		}
		if fn != nil {
			prog.Functions = append(prog.Functions, fn)
		}
		if global != nil {
			prog.Globals = append(prog.Globals, global)
		}
	}
	return prog, nil
}

func (p *Parser) atEnd() bool { return p.pos >= len(p.tokens) }

// cur returns a synthetic EOF token once the stream is exhausted so
// lookahead never indexes out of range.
func (p *Parser) cur() lexer.Token {
	if p.atEnd() {
		return p.eofToken()
	}
	return p.tokens[p.pos]
}

func (p *Parser) eofToken() lexer.Token {
	pos := lexer.Position{Line: 1, Column: 1}
	if len(p.tokens) > 0 {
		pos = p.tokens[len(p.tokens)-1].Pos
	}
	return lexer.NewToken(lexer.EOF, "", pos)
}

func (p *Parser) peekAt(n int) lexer.Token {
	idx := p.pos + n
	if idx >= len(p.tokens) {
		return p.eofToken()
	}
	return p.tokens[idx]
}

func (p *Parser) check(tt lexer.TokenType) bool { return p.cur().Type == tt }

func (p *Parser) advance() lexer.Token {
	tok := p.cur()
	if !p.atEnd() {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(tt lexer.TokenType) (lexer.Token, error) {
	if !p.check(tt) {
		return lexer.Token{}, p.errorf(p.cur().Pos, "expected %s, got %s", tt, p.cur().Type)
	}
	return p.advance(), nil
}

func (p *Parser) errorf(pos lexer.Position, format string, args ...any) error {
	return diag.New(p.source, pos, format, args...)
}

// typeKeyword reports whether tt can begin a type production (§4.3's
// "unsigned? primitive"); used to distinguish a local declaration from a
// statement at the head of a block.
func (p *Parser) typeKeyword(tt lexer.TokenType) bool {
	switch tt {
	case lexer.UNSIGNED, lexer.VOID, lexer.CHAR, lexer.SHORT, lexer.INT, lexer.LONG, lexer.FLOAT, lexer.DOUBLE:
		return true
	}
	return false
}

func (p *Parser) primitiveName(tt lexer.TokenType, unsigned bool) (string, error) {
	switch tt {
	case lexer.VOID:
		return "void", nil
	case lexer.CHAR:
		if unsigned {
			return "unsigned char", nil
		}
		return "char", nil
	case lexer.SHORT:
		if unsigned {
			return "unsigned short", nil
		}
		return "short", nil
	case lexer.INT:
		if unsigned {
			return "unsigned int", nil
		}
		return "int", nil
	case lexer.LONG:
		if unsigned {
			return "unsigned long", nil
		}
		return "long", nil
	case lexer.FLOAT:
		return "float", nil
	case lexer.DOUBLE:
		return "double", nil
	default:
		return "", fmt.Errorf("not a primitive type keyword: %s", tt)
	}
}

// parseType recognizes `( "unsigned"? primitive ) "*"*` (§4.3).
func (p *Parser) parseType() (*types.Type, error) {
	unsigned := false
	if p.check(lexer.UNSIGNED) {
		p.advance()
		unsigned = true
	}
	if !p.typeKeyword(p.cur().Type) {
		return nil, p.errorf(p.cur().Pos, "expected a type, got %s", p.cur().Type)
	}
	name, err := p.primitiveName(p.advance().Type, unsigned)
	if err != nil {
		return nil, p.errorf(p.cur().Pos, "%s", err)
	}
	base, ok := p.env.Types.Primitive(name)
	if !ok {
		return nil, p.errorf(p.cur().Pos, "unknown primitive type %q", name)
	}
	for p.check(lexer.STAR) {
		p.advance()
		base = p.env.Types.Pointer(base)
	}
	return base, nil
}

// paramSpec is a single parsed parameter; Name is "" when omitted, which
// the grammar only allows in a pure forward declaration (§4.3).
type paramSpec struct {
	Name string
	Type *types.Type
}

// parseParams recognizes `type ident? ( "," type ident? )*` between an
// already-consumed "(" and the following ")". An empty list (nothing
// before ")") is a deliberate zero-arity signature, not "unspecified".
func (p *Parser) parseParams() ([]paramSpec, error) {
	var specs []paramSpec
	if p.check(lexer.RPAREN) {
		return specs, nil
	}
	for {
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		name := ""
		if p.check(lexer.IDENT) {
			name = p.advance().Literal
		}
		specs = append(specs, paramSpec{Name: name, Type: typ})
		if p.check(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	return specs, nil
}

// arrayDims reads zero or more trailing "[" int "]" groups.
func (p *Parser) arrayDims() ([]int, error) {
	var dims []int
	for p.check(lexer.LBRACK) {
		p.advance()
		tok, err := p.expect(lexer.NUMBER)
		if err != nil {
			return nil, err
		}
		n, err := tok.IntValue()
		if err != nil {
			return nil, p.errorf(tok.Pos, "%s", err)
		}
		if _, err := p.expect(lexer.RBRACK); err != nil {
			return nil, err
		}
		dims = append(dims, int(n))
	}
	return dims, nil
}

// applyArrayDims builds Array(n, T) in reverse declaration order so that
// `long a[2][3]` becomes Array(2, Array(3, long)) (§4.3).
func applyArrayDims(reg *types.Registry, base *types.Type, dims []int) *types.Type {
	t := base
	for i := len(dims) - 1; i >= 0; i-- {
		t = reg.Array(dims[i], t)
	}
	return t
}

// parseGlobal recognizes one top-level declaration or definition:
//
//	global = type ident ( "(" params? ")" ( ";" | block )
//	                    | ( "[" int "]" )* ";" )
//
// It returns a non-nil *ast.FuncImpl only when the global is a function
// implementation, and a non-nil *defs.Variable only when the global is
// a variable declaration; a pure function declaration (ends in ";")
// returns (nil, nil, nil).
func (p *Parser) parseGlobal() (*ast.FuncImpl, *defs.Variable, error) {
	pos := p.cur().Pos
	retType, err := p.parseType()
	if err != nil {
		return nil, nil, err
	}
	nameTok, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, nil, err
	}
	name := nameTok.Literal

	if p.check(lexer.LPAREN) {
		p.advance()
		params, err := p.parseParams()
		if err != nil {
			return nil, nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, nil, err
		}

		argTypes := make([]*types.Type, len(params))
		for i, ps := range params {
			argTypes[i] = ps.Type
		}
		decl := &defs.FunctionDecl{ArgTypes: argTypes, HasArgTypes: true, ReturnType: retType}
		if err := p.env.Functions.Declare(name, decl); err != nil {
			return nil, nil, p.errorf(pos, "%s", err)
		}

		if p.check(lexer.SEMI) {
			p.advance()
			return nil, nil, nil
		}

		if err := p.env.Functions.CanImplement(name); err != nil {
			return nil, nil, p.errorf(pos, "%s", err)
		}
		for _, ps := range params {
			if ps.Name == "" {
				return nil, nil, p.errorf(pos, "parameter of %q implementation must be named", name)
			}
		}
		fn, err := p.parseFunctionImpl(name, pos, params)
		if err != nil {
			return nil, nil, err
		}
		p.env.Functions.MarkImplemented(name)
		return fn, nil, nil
	}

	dims, err := p.arrayDims()
	if err != nil {
		return nil, nil, err
	}
	if _, err := p.expect(lexer.SEMI); err != nil {
		return nil, nil, err
	}
	fullType := applyArrayDims(p.env.Types, retType, dims)
	v, err := p.env.Variables.DeclareGlobal(name, fullType)
	if err != nil {
		return nil, nil, p.errorf(pos, "%s", err)
	}
	return nil, v, nil
}

// parseFunctionImpl parses a function body after its parameter list has
// been consumed and declared. The parameters and the body share one
// flat root scope (§4.3: "A function body enters a fresh root scope").
func (p *Parser) parseFunctionImpl(name string, pos lexer.Position, params []paramSpec) (*ast.FuncImpl, error) {
	p.env.Variables.EnterFunction()
	p.env.Variables.EnterBlock()

	argVars := make([]*defs.Variable, len(params))
	for i, ps := range params {
		v, err := p.env.Variables.DeclareLocal(ps.Name, ps.Type)
		if err != nil {
			return nil, p.errorf(pos, "%s", err)
		}
		argVars[i] = v
	}

	bracePos := p.cur().Pos
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	stmts, err := p.parseStmtsUntilRBrace()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}

	frameSize := p.env.Variables.FrameSize()
	p.env.Variables.ExitBlock()

	return &ast.FuncImpl{
		Name:      name,
		FrameSize: frameSize,
		ArgVars:   argVars,
		Body:      &ast.Block{Stmts: stmts, Position: bracePos},
		Position:  pos,
	}, nil
}
