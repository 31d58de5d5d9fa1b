package main

import (
	"os"

	"github.com/avaedu/ava/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
