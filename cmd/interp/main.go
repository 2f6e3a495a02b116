// Command interp runs IB pseudocode programs.
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/ibscript/cmd/interp/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
