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

	store, samples, closeSamples := pumpmonitoring.NewChannelStore("fanout", 32)
	defer closeSamples()

	go fanoutWorker("ingest", samples)

	rt, err := pumpmonitoring.NewRuntime(cfg, pumpmonitoring.WithStore(store))
	if err != nil {
		log.Fatalf("build runtime: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rt.Run(ctx); err != nil {
		log.Fatalf("runtime error: %v", err)
	}
}

func fanoutWorker(name string, samples <-chan pumpmonitoring.Sample) {
	for s := range samples {
		fmt.Printf("[%s] %s pressure=%.2f at %s\n", name, s.PumpID, s.Pressure, time.Now().Format(time.RFC3339))
	}
}
