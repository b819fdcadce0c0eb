package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	pumpmonitoring "github.com/marcus-v-rodrigues/pump-monitoring"
)

func main() {
	cmd := "run"
	args := os.Args[1:]
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "run":
		err = runCommand(args)
	case "validate":
		err = validateCommand(args)
	case "config":
		err = configCommand(args)
	case "stats":
		err = statsCommand(args)
	case "help":
		printUsage()
		return
	default:
		printUsage()
		err = fmt.Errorf("unknown command %q", cmd)
	}

	if err != nil {
		log.Fatalf("pump-producer %s: %v", cmd, err)
	}
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Optional YAML config file; environment variables take precedence")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := pumpmonitoring.LoadConfig(*cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	rt, err := pumpmonitoring.NewRuntime(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return rt.Run(ctx)
}

func validateCommand(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Optional YAML config file to validate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := pumpmonitoring.LoadConfig(*cfgPath); err != nil {
		return err
	}
	fmt.Println("config looks good")
	return nil
}

func configCommand(args []string) error {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Optional YAML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := pumpmonitoring.LoadConfig(*cfgPath)
	if err != nil {
		return err
	}
	out, err := cfg.YAML()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}

func statsCommand(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	url := fs.String("url", "http://localhost:8000/metrics", "Prometheus metrics endpoint")
	interval := fs.Duration("interval", 2*time.Second, "Refresh interval")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	fmt.Printf("Streaming metrics from %s (Ctrl+C to stop)\n", *url)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			snap, err := fetchSnapshot(ctx, *url)
			if err != nil {
				fmt.Fprintf(os.Stderr, "stats error: %v\n", err)
				continue
			}
			fmt.Printf("[%s] %s\n", time.Now().Format(time.RFC3339), snap)
		}
	}
}

func printUsage() {
	fmt.Printf(`Pump monitoring producer

Usage:
  pump-producer <command> [flags]

Commands:
  run        Generate readings and store them in TimescaleDB (default)
  validate   Resolve and validate configuration without starting
  config     Print the effective configuration with secrets redacted
  stats      Poll the Prometheus metrics endpoint and print live counters

Configuration is read from the environment (DATABASE__HOST, PUMP__ID, ...),
an optional .env file and an optional -config YAML file.

Examples:
  pump-producer run
  pump-producer config -config ./config.yaml
  pump-producer stats -url http://localhost:8000/metrics -interval 1s
`)
}
