package main

import (
	"github.com/colefield/parley/cmd/parley-cli/cmd"
)

func main() {
	cmd.Execute()
}
