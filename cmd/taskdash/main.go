package main

import (
	"os"

	"github.com/joho/godotenv"

	"taskdash/internal/cli"
)

func main() {
	// Local development convenience; a missing .env is fine.
	_ = godotenv.Load()

	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
