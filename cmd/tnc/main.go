package main

import (
	"os"

	"github.com/msto63/tnc/cmd/tnc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
