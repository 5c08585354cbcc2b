package main

import "github.com/runwasm-dev/runwasm/cmd"

func main() {
	// Embedders that want custom page styling call cmd.Execute with their
	// own css instead of using this binary.
	cmd.Execute("")
}
