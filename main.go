package main

import (
	"github.com/csurf/csurf/cmd"
)

var version = "v0.3.0"

func main() {
	cmd.Execute(version)
}
