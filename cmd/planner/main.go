package main

import (
	"errors"
	"io/fs"
	"log"
	"os"

	"github.com/joho/godotenv"

	"everpeak/internal/cli"
)

func main() {
	// .env is optional; the API key may also come from the shell or planner.yaml.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Fatal Error: could not load .env file: %v", err)
	}

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
