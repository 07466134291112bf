package main

import (
	"os"

	"github.com/allsetlabs/allset/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
