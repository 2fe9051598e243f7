// Command report reconciles a feed once and prints it to the terminal, without
// running the service.
//
// Usage:
//
//	go run ./cmd/report text --feed data/mock/chiffres-cles-sample.json
//	go run ./cmd/report chart --region REG-11 --mode diff --since 2020-03-05
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
