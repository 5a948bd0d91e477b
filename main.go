package main

import (
	"os"

	"github.com/halmert/pagemason/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
