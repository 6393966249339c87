package main

import (
	"os"

	"github.com/caplearn/caplearn/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
