/*
 * db48x - Main process.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// db48x is the interactive entry point: it wires the arena, runtime,
// library tables, logging, and console reader together, parses the
// command line, and runs the read-eval-print loop until the session
// ends.
package main

import (
	"os"

	getopt "github.com/pborman/getopt/v2"
	"log/slog"

	"github.com/dm48x/rpl/command/reader"
	config "github.com/dm48x/rpl/config/configparser"
	"github.com/dm48x/rpl/internal/arena"
	"github.com/dm48x/rpl/internal/library"
	"github.com/dm48x/rpl/internal/runtime"
	"github.com/dm48x/rpl/util/debug"
	logger "github.com/dm48x/rpl/util/logger"

	// algebra registers its rewrite/calculus builtins (simplify, ∂, ∫,
	// subst, isolate) purely from an init() side effect; nothing else in
	// this binary's import graph reaches that package, so it needs an
	// explicit blank import.
	_ "github.com/dm48x/rpl/internal/algebra"
)

// Logger is the package-wide default, installed via slog.SetDefault so
// util/logger's dual console/file handler backs every slog call in the
// process.
var Logger *slog.Logger

func main() {
	optConfig := getopt.StringLong("script", 's', "", "Settings script to load at startup")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optDebug := getopt.BoolLong("debug", 'd', "Enable debug-level logging")
	optDebugMask := getopt.IntLong("trace", 't', 0, "Subsystem trace mask (arena=1, evaluator=2, algebra=4, directory=8, settings=16)")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var file *os.File
	if *optLogFile != "" {
		f, err := os.Create(*optLogFile)
		if err == nil {
			file = f
		}
	}
	programLevel := new(slog.LevelVar)
	if *optDebug {
		programLevel.Set(slog.LevelDebug)
	} else {
		programLevel.Set(slog.LevelInfo)
	}
	Logger = slog.New(logger.NewHandler(file, &slog.HandlerOptions{Level: programLevel, AddSource: false}, optDebug))
	slog.SetDefault(Logger)

	debug.SetMask(*optDebugMask)
	if file != nil {
		debug.SetOutput(file)
	}

	Logger.Info("db48x started", logger.Subsystem("session"))

	rt := runtime.NewRuntime(arena.New(0))
	rt.Attach(library.Constants)
	rt.Attach(library.Equations)
	rt.Attach(library.Xlibs)

	if *optConfig != "" {
		if err := config.LoadFile(*optConfig); err != nil {
			Logger.Error("loading settings script: "+err.Error(), logger.Subsystem("settings"))
		}
	}

	reader.ConsoleReader(rt)

	Logger.Info("db48x shutting down", logger.Subsystem("session"))
}
