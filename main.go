package main

import (
	"os"

	"github.com/AnyUserName/svg2png-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
