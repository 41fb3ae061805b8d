// Package main is the entry point for the Toolkit API Server, which keeps the
// profile, settings, favorites and tool history of a toolkit user.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Toolkit_Backend/internal/config"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/server"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/utils"
	"github.com/yasinhessnawi1/Toolkit_Backend/scripts"
)

// Version information is set during build time through linker flags.
var (
	// version represents the release version of the application.
	version = "dev"

	// commit is the git commit hash from which the application was built.
	commit = "none"

	// buildDate is the timestamp when the application was built.
	buildDate = "unknown"
)

// init loads environment variables from a .env file if present.
func init() {
	// Not finding a .env file is a non-fatal condition, as configuration
	// might be provided by other means.
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found or couldn't be loaded")
	}
}

func main() {
	var (
		configPath  string
		showVersion bool
		seed        bool
	)

	flag.StringVar(&configPath, "config", "./configs/config.yaml", "Path to configuration file (.yaml or .toml)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&seed, "seed", false, "Write demo state into empty storage before starting")
	flag.Parse()

	if showVersion {
		fmt.Printf("Toolkit API Server\nVersion: %s\nCommit: %s\nBuild Date: %s\n", version, commit, buildDate)
		os.Exit(0)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Override version from build if available (not in dev mode)
	if version != "dev" {
		cfg.App.Version = version
	}

	utils.InitLogger(cfg)

	log.Info().
		Str("version", cfg.App.Version).
		Str("environment", cfg.App.Environment).
		Str("storage", cfg.Storage.Driver).
		Msg("Starting Toolkit API Server")

	utils.InitValidator()

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create server")
	}

	if seed {
		if _, err := scripts.NewSeeder(srv.Repo, srv.State).SeedState(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed user state")
		}
	}

	// Start blocks until termination
	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}
