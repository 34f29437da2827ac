package main

import (
	"context"
	"log"
	"os"

	"github.com/kartik99Lm10/SuckDSA/internal/app/bootstrap"
)

func main() {
	ctx := context.Background()
	configPath := os.Getenv("SUCKDSA_CONFIG")
	if configPath == "" {
		configPath = "configs/default.yaml"
	}
	runtime, err := bootstrap.NewRuntime(ctx, configPath)
	if err != nil {
		log.Fatalf("bootstrap api runtime: %v", err)
	}
	if err := runtime.RunAPI(ctx); err != nil {
		log.Fatalf("run api: %v", err)
	}
}
