package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"wastechart/internal/cli"
)

func main() {
	cli.LoadEnvFile()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(cli.Options{}).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
