package main

import (
	"github.com/larsbrinkhoff/pdp7-unix/cmd"
)

func main() {
	cmd.Execute()
}
