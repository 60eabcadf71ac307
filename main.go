// The main package for the stylecorpus executable.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fashiondb/stylecorpus/cmd"
)

// main defers all execution to the Cobra CLI; a SIGINT or SIGTERM
// cancels the run context so in-flight fetches stop cleanly.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
