/*
This is an example of application that will use the
engine package to drive the pipeline state controllers
*/
package main

import (
	"flag"
	"fmt"
	"maps"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/spaghettifunk/anima-state/engine"
	"github.com/spaghettifunk/anima-state/engine/core"
	"github.com/spaghettifunk/anima-state/testbed"
)

func main() {
	configPath := flag.String("config", "", "TOML configuration file, reloaded on change")
	frames := flag.Uint64("frames", 600, "number of frames to render, 0 runs until interrupted")
	flag.Parse()

	tb := testbed.NewTestGame(*configPath, *frames)

	e, err := engine.New(tb.Game)
	if err != nil {
		core.LogFatal(err.Error())
	}

	if err := e.Initialize(); err != nil {
		core.LogFatal(err.Error())
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	go func() {
		<-sigCh
		e.Stop()
	}()

	runErr := e.Run()

	metrics := e.Metrics()
	for _, stage := range slices.Sorted(maps.Keys(metrics)) {
		fmt.Printf("%-14s %s\n", stage, metrics[stage])
	}

	if err := e.Shutdown(); err != nil {
		core.LogError(err.Error())
	}
	if runErr != nil {
		core.LogFatal(runErr.Error())
	}
}
