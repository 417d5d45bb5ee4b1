package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/shiftworks/quickjob/cmd/cli/commands"
)

func main() {
	// Optional .env for server address and identity defaults
	_ = godotenv.Load()

	if err := commands.RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
