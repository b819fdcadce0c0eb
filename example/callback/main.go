package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	pumpmonitoring "github.com/marcus-v-rodrigues/pump-monitoring"
)

func main() {
	cfg, err := pumpmonitoring.LoadConfig("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	stdout := pumpmonitoring.NewCallbackStore("stdout", func(_ context.Context, s pumpmonitoring.Sample) error {
		fmt.Printf("%s pump=%s %s\n", time.Now().Format(time.RFC3339Nano), s.PumpID, s)
		return nil
	})

	rt, err := pumpmonitoring.NewRuntime(cfg, pumpmonitoring.WithStore(stdout))
	if err != nil {
		log.Fatalf("build runtime: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rt.Run(ctx); err != nil {
		log.Fatalf("runtime error: %v", err)
	}
}
