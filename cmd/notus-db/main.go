package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/gookit/color"

	"github.com/anchore/notus-db/cmd/notus-db/cli"
	"github.com/anchore/notus-db/internal/log"
)

func main() {
	cmd := cli.New()

	// a single cancellable context drives every command
	ctx, cancel := context.WithCancel(context.Background())
	cmd.SetContext(ctx)

	// signal handling stays in the main package so the commands remain usable as a library
	signals := make(chan os.Signal, 10)
	signal.Notify(signals, os.Interrupt)

	defer func() {
		signal.Stop(signals)
		cancel()
	}()

	go func() {
		select {
		case <-signals: // first signal, cancel context
			log.Trace("signal interrupt, stop requested")
			cancel()
		case <-ctx.Done():
		}
		<-signals // second signal, hard exit
		log.Trace("signal interrupt, killing")
		os.Exit(1)
	}()

	if err := cmd.Execute(); err != nil {
		color.Red.Printf("error: %v\n", err)
		defer os.Exit(1)
	}
}
