// Command blobbench measures upload latency against a blob store while
// sweeping client concurrency.
//
//	blobbench --backend azblob --bucket quickstartcontainer --min-level 1 --max-level 12
//
// The report goes to stdout, one line per level. Logs, progress and
// diagnostics go to stderr.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cmd := newRootCommand(os.Stdout, os.Stderr)
	err := cmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, color.New(color.FgRed, color.Bold).Sprint("error: ")+err.Error())
		os.Exit(1)
	}
}
