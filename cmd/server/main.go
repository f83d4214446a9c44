package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/GriffinCanCode/ComposerOS/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/infrastructure/server"
)

func main() {
	// Parse flags; flags win over environment configuration
	port := flag.String("port", "", "Server port")
	dataRoot := flag.String("data", "", "Dataset directory to load at startup")
	flag.Parse()

	log.Println(strings.Repeat("=", 62))
	log.Println("🧩 ComposerOS - Service Composition Engine (Go)")
	log.Println(strings.Repeat("=", 62))

	cfg := config.LoadOrDefault()
	if *port != "" {
		cfg.Server.Port = *port
	}
	if *dataRoot != "" {
		cfg.Data.Root = *dataRoot
	}

	// Create server
	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := srv.Run(); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-sigChan:
		log.Println("\n🛑 Shutting down gracefully...")
		if err := srv.Close(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	case err := <-errChan:
		log.Fatalf("Server error: %v", err)
	}
}
