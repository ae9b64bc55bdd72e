package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/mkarev/decisive/internal/cli"
)

func main() {
	// Local .env is optional; environment variables win over it
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
