package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spiffcs/rdm/cmd"
)

// Set via -ldflags at release time.
var (
	version string
	commit  string
	date    string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd.SetVersionInfo(version, commit, date)
	if err := cmd.New().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
