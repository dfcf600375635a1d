// ./main.go
package main

import (
	"github.com/xkilldash9x/autofill-cli/cmd"
)

// main is the entry point for the autofill CLI application.
func main() {
	cmd.Execute()
}
