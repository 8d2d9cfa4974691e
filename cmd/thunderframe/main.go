package main

import (
	"os"

	"github.com/thundertrack/frameapi/cmd/thunderframe/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
