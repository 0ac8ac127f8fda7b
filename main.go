package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"shopledger/cmd"
	"shopledger/internal/config"
	"shopledger/internal/logger"
)

func main() {
	// Load environment variables; the .env file is optional
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// Commands report the configuration error themselves
		if err := logger.Setup(logger.DefaultConfig()); err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
	} else {
		if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
	}

	log := logger.WithComponent("main")
	log.Debug().Msg("Starting shopledger")

	cmd.Execute()

	log.Debug().Msg("shopledger finished")
	os.Exit(0)
}
