package main

import (
	"os"

	"github.com/spigell/resume-studio/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
