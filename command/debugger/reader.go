/*
   Interactive line reader built on liner, grounded directly on the
   teacher's command/reader.ConsoleReader: a prompt, history, and tab
   completion wired to the command table above. Unlike the teacher, whose
   ConsoleReader runs on the same goroutine as ProcessCommand (the 370 core
   lives behind a channel-fed goroutine elsewhere), this reader only
   produces lines — it never touches a *core.Machine itself, so the
   machine's owning goroutine is free to be the only caller of
   ProcessCommand (see SPEC_FULL.md §5).

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

package debugger

import (
	"errors"
	"log/slog"

	"github.com/peterh/liner"
)

// ReadLines runs a liner prompt loop on its own goroutine, sending each
// entered line on lines and closing done once the user aborts (Ctrl-C) or
// the input stream ends. The caller owns command dispatch; this function
// never calls ProcessCommand itself.
func ReadLines(lines chan<- string, done chan<- struct{}) {
	defer close(done)

	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(l string) []string {
		return CompleteCmd(l)
	})

	for {
		input, err := line.Prompt("gopsx> ")
		if err == nil {
			line.AppendHistory(input)
			lines <- input
			continue
		}

		if errors.Is(err, liner.ErrPromptAborted) {
			return
		}
		slog.Error("error reading line", "error", err)
		return
	}
}
