// Command tablegen compiles a tablegen schema tree into a Go package.
//
//	tablegen generate --config tablegen.yaml
//	tablegen generate --watch
//	tablegen check --schema ./schema
//	tablegen levels
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "tablegen:", err)
		stop()
		os.Exit(1)
	}
}
