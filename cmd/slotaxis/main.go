package main

import (
	"os"

	"github.com/henderiw/slotaxis/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
