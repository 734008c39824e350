// Command compiler translates the accepted C-like language directly to
// x86-64 assembly. See cmd/compiler/cmd for the CLI contract.
package main

import (
	"os"

	"github.com/cwbudde/minic/cmd/compiler/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
