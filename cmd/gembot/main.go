package main

import (
	"context"
	"log"

	"github.com/avnerk/gembot/internal/bot"
	"github.com/avnerk/gembot/internal/config"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	bot.New(cfg).Run(context.Background())
}
