/*
 * db48x - interactive console reader.
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

// Package reader drives the interactive RPL command line: it owns the
// liner.Liner prompt/history/completion loop and feeds each line to
// internal/container's bracket-aware reader and internal/runtime's
// evaluator: the liner loop hands a whole line to the stack machine
// and reprints the stack, the classic RPL interaction cycle.
package reader

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/peterh/liner"

	"github.com/dm48x/rpl/internal/container"
	"github.com/dm48x/rpl/internal/object"
	"github.com/dm48x/rpl/internal/runtime"
)

// metaCommands lists the bare words the reader itself handles instead
// of handing them to the evaluator; they concern the console session,
// not the calculator state.
var metaCommands = []string{"quit", "exit", "help", "vars", "stack"}

func completer(rt *runtime.Runtime) func(string) []string {
	return func(line string) []string {
		var out []string
		prefix := line
		if idx := strings.LastIndexAny(line, " \t"); idx >= 0 {
			prefix = line[idx+1:]
		}
		head := line[:len(line)-len(prefix)]
		for _, c := range metaCommands {
			if strings.HasPrefix(c, prefix) {
				out = append(out, head+c)
			}
		}
		for _, name := range object.CommandNames() {
			if strings.HasPrefix(name, prefix) {
				out = append(out, head+name)
			}
		}
		return out
	}
}

// ConsoleReader runs the read-eval-print loop against rt until EOF, an
// aborted prompt (Ctrl-C), or a "quit"/"exit" meta-command.
func ConsoleReader(rt *runtime.Runtime) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(completer(rt))

	for {
		input, err := line.Prompt("db48x> ")
		if err == nil {
			input = strings.TrimSpace(input)
			if input == "" {
				continue
			}
			line.AppendHistory(input)
			rt.Editor.Record(input)
			if processLine(rt, input) {
				return
			}
			continue
		}

		if errors.Is(err, liner.ErrPromptAborted) {
			return
		}
		slog.Error("error reading line: " + err.Error())
		return
	}
}

// processLine evaluates one line of input, printing the resulting stack
// or a reported error, and reports whether the session should end.
func processLine(rt *runtime.Runtime, input string) (quit bool) {
	switch strings.ToLower(input) {
	case "quit", "exit":
		return true
	case "help":
		printHelp()
		return false
	case "vars":
		printVars(rt)
		return false
	case "stack":
		printStack(rt)
		return false
	}

	values, err := container.ParseWith(rt, input)
	if err != nil {
		fmt.Println("Error: " + err.Error())
		return false
	}

	if evalErr := rt.Eval(values); evalErr != nil {
		fmt.Printf("Error %d: %s\n", evalErr.Number(), evalErr.Error())
		return false
	}

	printStack(rt)
	return false
}

func printStack(rt *runtime.Runtime) {
	items := rt.Stack.Items()
	if len(items) == 0 {
		fmt.Println("(empty stack)")
		return
	}
	opts := rt.RenderOpts()
	for i := len(items) - 1; i >= 0; i-- {
		p := object.NewPrinter(opts)
		items[i].Render(p)
		fmt.Printf("%d: %s\n", len(items)-i, p.String())
	}
}

func printVars(rt *runtime.Runtime) {
	for _, name := range rt.Dirs.Vars() {
		fmt.Println(name)
	}
}

func printHelp() {
	fmt.Println("db48x - RPL calculator runtime")
	fmt.Println(" quit/exit leave the session")
	fmt.Println(" vars list the variables bound in the current directory")
	fmt.Println(" stack reprint the data stack")
	fmt.Println("Anything else is parsed and evaluated as RPL source.")
}
