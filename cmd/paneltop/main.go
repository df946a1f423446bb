package main

import (
	"os"

	"github.com/prabalesh/paneltop/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
