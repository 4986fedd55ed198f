package main

import (
	"context"
	"log"

	"github.com/akozlov/custhub/internal/iam"
	"github.com/akozlov/custhub/internal/iam/config"
)

func main() {

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	app, err := iam.NewApp(cfg)
	if err != nil {
		log.Fatalf("startup error: %v", err)
	}

	app.Run(ctx)

}
