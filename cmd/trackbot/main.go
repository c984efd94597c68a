package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"trackbot/internal/bot"
	"trackbot/internal/checkin"
	"trackbot/internal/config"
	"trackbot/internal/llm"
	"trackbot/internal/store"

	"github.com/joho/godotenv"
)

func main() {
	log.Println("Starting TrackBot application...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	database, err := store.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	transport, err := bot.NewDiscordTransport(cfg.Discord.Token)
	if err != nil {
		log.Fatalf("Failed to create Discord transport: %v", err)
	}

	client := llm.NewClient(
		cfg.Completion.BaseURL,
		cfg.Completion.APIKey,
		cfg.Completion.Model,
		cfg.CompletionTimeout(),
	)
	interp := llm.NewInterpreter(client)
	states := checkin.NewFileStore(cfg.Checkin.StatePath)

	checkinBot := bot.New(cfg, database, states, transport, interp)

	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	go func() {
		s := <-signals
		log.Printf("Received signal: %v", s)
		cancel()
	}()

	if err := transport.Open(); err != nil {
		log.Fatalf("Failed to open Discord session: %v", err)
	}

	if err := checkinBot.Run(ctx); err != nil {
		log.Printf("Error running bot: %v", err)
	}

	log.Println("Shutting down...")
	if err := transport.Close(); err != nil {
		log.Printf("Error closing transport: %v", err)
	}
	log.Println("Closing database connection...")
	database.Close()

	log.Println("Application shutdown complete")
}
