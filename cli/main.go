package main

import (
	"github.com/taskcanvas/taskcanvas/cli/cmd"
)

func main() {
	cmd.Execute()
}
