// Command brayner is the command line front end of the comeback program.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	c := newCLI(appOptions{}, os.Stderr)
	defer c.teardown(nil, nil)

	root := c.command()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
