package main

import (
	"fmt"
	"os"
)

// Version is set at build time via ldflags
var Version = ""

func main() {
	c := &cli{}
	err := newRootCmd(c).Execute()
	c.close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
