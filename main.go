package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"
	"valeod/internal/di"
	"valeod/internal/structures"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "c", "config.yaml", "path to config file")
	flag.BoolVar(&flags.DebugMode, "d", false, "enable debug mode")
	flag.Parse()

	// Secrets come from the environment; .env is optional for local runs.
	_ = godotenv.Load()

	if _, err := di.InitApp(flags); err != nil {
		log.Fatalf("failed to start: %v", err)
	}
}
