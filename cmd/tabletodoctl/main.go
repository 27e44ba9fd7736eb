// Command tabletodoctl is the admin CLI for the todo table store. It loads
// the same layered configuration as the server and talks to the configured
// store backend directly.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
