package lexer

import (
	"fmt"
	"strconv"
	"strings"
)

// Token is the unit the lexer produces: a classified kind, the literal
// text it was scanned from, and its source position. Numeric literals are
// not parsed into a value here — IntValue parses lazily, the way the
// grammar demands an integer value only at the point it actually needs one
// (an IntLiteral, an array dimension).
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

func NewToken(typ TokenType, literal string, pos Position) Token {
	return Token{Type: typ, Literal: literal, Pos: pos}
}

func (t Token) String() string {
	if t.Literal == "" {
		return t.Type.String()
	}
	return fmt.Sprintf("%s(%q)", t.Type, t.Literal)
}

// IntValue lazily parses a NUMBER token's literal text as an integer.
// Supports decimal and 0x/0X hexadecimal forms (§3). A literal containing
// a decimal point or an exponent is float-shaped; since float literals
// are never materialized into an AST node by this compiler, parsing one
// as an integer is an error.
func (t Token) IntValue() (int64, error) {
	if t.Type != NUMBER {
		return 0, fmt.Errorf("token %s is not a number", t.Type)
	}
	lit := t.Literal
	if strings.ContainsAny(lit, ".eE") && !isHexLiteral(lit) {
		return 0, fmt.Errorf("%q is a floating-point literal; only integer literals are supported", lit)
	}
	base := 10
	digits := lit
	if isHexLiteral(lit) {
		base = 16
		digits = lit[2:]
	}
	v, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric literal %q: %w", lit, err)
	}
	return int64(v), nil
}

func isHexLiteral(lit string) bool {
	return len(lit) > 2 && lit[0] == '0' && (lit[1] == 'x' || lit[1] == 'X')
}
