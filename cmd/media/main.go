package main

import (
	"context"
	"log"

	"github.com/akozlov/custhub/internal/media"
	"github.com/akozlov/custhub/internal/media/config"
)

func main() {

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	app, err := media.NewApp(cfg)
	if err != nil {
		log.Fatalf("startup error: %v", err)
	}

	app.Run(ctx)

}
