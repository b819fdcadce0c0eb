package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	pumpmonitoring "github.com/marcus-v-rodrigues/pump-monitoring"
)

func main() {
	cfg, err := pumpmonitoring.LoadConfig("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	rt, err := pumpmonitoring.NewRuntime(cfg)
	if err != nil {
		log.Fatalf("build runtime: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rt.Run(ctx); err != nil {
		log.Fatalf("producer exited: %v", err)
	}
}
