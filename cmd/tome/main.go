package main

import (
	"github.com/joho/godotenv"

	"github.com/calebwray/tome/internal/cli"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// A local .env is a convenience for development; missing is fine.
	godotenv.Load() //nolint:errcheck

	cli.Execute(version)
}
