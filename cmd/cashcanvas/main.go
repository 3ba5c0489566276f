package main

import (
	"os"

	"github.com/mihir-gonsalves/CashCanvas/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
