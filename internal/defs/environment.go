package defs

import "github.com/cwbudde/minic/internal/types"

// Environment bundles the three cooperating tables of the definitions
// environment (§3/§4.2): the type registry, the function table, and the
// variable table. The parser mutates it as it consumes declarations; the
// code generator queries it read-only.
type Environment struct {
	Types     *types.Registry
	Functions *FunctionTable
	Variables *VariableTable
}

// NewEnvironment builds a fresh definitions environment with every
// primitive type already interned.
func NewEnvironment() *Environment {
	return &Environment{
		Types:     types.NewRegistry(),
		Functions: NewFunctionTable(),
		Variables: NewVariableTable(),
	}
}
