/*
   gopsx - Main process.

   Copyright (c) 2024, Richard Cornwell

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
   ROBERT M SUPNIK BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
   IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
   CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
*/

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rcornwell/gopsx/command/debugger"
	"github.com/rcornwell/gopsx/config"
	"github.com/rcornwell/gopsx/emu/bios"
	"github.com/rcornwell/gopsx/emu/core"
	"github.com/rcornwell/gopsx/util/logger"
	"github.com/rcornwell/gopsx/util/tracer"
)

var Logger *slog.Logger

func main() {
	optBIOS := getopt.StringLong("bios", 'b', "", "BIOS image (512 KiB)")
	optExe := getopt.StringLong("exe", 'e', "", "Executable to side-load at the BIOS shell handoff")
	optDisc := getopt.StringLong("disc", 'd', "", "Disc image to insert")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optTraceFile := getopt.StringLong("trace", 't', "", "Per-step instruction trace file")
	optDebug := getopt.BoolLong("debug", 'v', "Enable debug-level logging to stderr")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var logFile *os.File
	if *optLogFile != "" {
		var err error
		logFile, err = os.Create(*optLogFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "gopsx:", err)
			os.Exit(1)
		}
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	Logger = slog.New(logger.NewHandler(logFile, &slog.HandlerOptions{Level: programLevel, AddSource: false}, optDebug))
	slog.SetDefault(Logger)

	Logger.Info("gopsx started")

	cfg := config.New(*optBIOS,
		config.WithExe(*optExe),
		config.WithDisc(*optDisc),
		config.WithLog(*optLogFile),
		config.WithTrace(*optTraceFile),
		config.WithDebug(*optDebug),
	)
	if err := cfg.Validate(); err != nil {
		Logger.Error(err.Error())
		os.Exit(1)
	}

	m, err := buildMachine(cfg)
	if err != nil {
		Logger.Error(err.Error())
		os.Exit(1)
	}

	if cfg.DiscPath != "" {
		m.LoadDisc(cfg.DiscPath)
	}

	// This goroutine is the machine's sole owner: StepCycle/RunFrame mutate
	// CPU and device state with no internal locking, so every touch of m
	// happens here, fed by a command channel the liner REPL goroutine
	// writes to and an OS-signal channel for shutdown (mirroring the
	// teacher's cpu.Start() goroutine fed by its masterChannel).
	lines := make(chan string)
	consoleDone := make(chan struct{})
	go debugger.ReadLines(lines, consoleDone)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sigChan:
			Logger.Info("got quit signal")
			Logger.Info("shutting down")
			return
		case <-consoleDone:
			Logger.Info("shutting down")
			return
		case line := <-lines:
			quit, err := debugger.ProcessCommand(line, m)
			if err != nil {
				fmt.Println("error: " + err.Error())
			}
			if quit {
				Logger.Info("shutting down")
				return
			}
		}
	}
}

// buildMachine loads the BIOS and, if given, an executable, wiring up a
// tracer when the caller asked for one.
func buildMachine(cfg *config.Config) (*core.Machine, error) {
	image, err := os.ReadFile(cfg.BIOSPath)
	if err != nil {
		return nil, err
	}
	if len(image) != bios.Size {
		return nil, fmt.Errorf("gopsx: BIOS image is %d bytes, want %d", len(image), bios.Size)
	}

	opts := []core.Option{}
	if cfg.RAMSize > 0 {
		opts = append(opts, core.WithRAMSize(cfg.RAMSize))
	}
	if cfg.TracePath != "" {
		traceFile, err := os.Create(cfg.TracePath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, core.WithTracer(tracer.NewWriter(traceFile)))
	}

	m, err := core.NewMachine(image, opts...)
	if err != nil {
		return nil, err
	}

	if cfg.ExePath != "" {
		exe, err := os.ReadFile(cfg.ExePath)
		if err != nil {
			return nil, err
		}
		startAddr, entrypoint, sp, data, err := parseExe(exe)
		if err != nil {
			return nil, err
		}
		m.LoadExecutable(startAddr, entrypoint, sp, data)
	}
	return m, nil
}
