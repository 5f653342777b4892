package main

import (
	"github.com/mayank160920/Fluid-oss/cmd"
)

func main() {
	cmd.Execute()
}
