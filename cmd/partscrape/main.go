// cmd/partscrape/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/law-makers/partscrape/internal/cli"
)

func main() {
	// Cancel the run on interrupt; the checkpoint keeps the last completed page
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.Execute(ctx)
}
