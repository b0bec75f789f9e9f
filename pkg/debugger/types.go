// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package debugger

import (
	"io"
	"log"
	"os"

	"github.com/lassandro/gosynacor/pkg/console"
)

type Breakpoint struct {
	Addr uint16
}

type Debugger struct {
	// Re-enter the inspector after the next completed step
	Break bool

	Breakpoints []Breakpoint

	Console console.LineReader
	Output  io.Writer
	Log     *log.Logger
	Prompt  string

	stopped bool
	lastcmd []string
}

func NewDebugger(lines console.LineReader) *Debugger {
	return &Debugger{
		Console: lines,
		Output:  os.Stdout,
		Log:     log.New(os.Stderr, "", 0),
		Prompt:  "(dbg) ",
	}
}
