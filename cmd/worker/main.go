package main

import (
	"context"
	"fmt"
	"os"

	"github.com/verbatim-inc/verbatim/internal/interfaces/cli/bootstrap"
	"github.com/verbatim-inc/verbatim/internal/interfaces/cli/worker"
)

func main() {
	// Environment from the first argument; ENV wins when set
	opts := &bootstrap.Options{Env: "development"}
	if len(os.Args) > 1 {
		opts.Env = os.Args[1]
	}
	opts.ConfigPath = os.Getenv("VERBATIM_CONFIG")

	if err := worker.Run(context.Background(), opts, false); err != nil {
		fmt.Fprintf(os.Stderr, "worker failed: %v\n", err)
		os.Exit(1)
	}
}
