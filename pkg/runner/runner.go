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

// Package runner drives a machine: it steps the engine, refills the input
// queue from the console whenever the engine waits on it, and hands control
// to the inspector when the operator breaks in.
package runner

import (
	"errors"
	"fmt"
	"io"

	"github.com/lassandro/gosynacor/pkg/console"
	"github.com/lassandro/gosynacor/pkg/debugger"
	"github.com/lassandro/gosynacor/pkg/input"
	"github.com/lassandro/gosynacor/pkg/machine"
)

var ErrInputClosed = errors.New("console input closed")

type Runner struct {
	Machine  *machine.Machine
	Queue    *input.Queue
	Console  console.LineReader
	Debugger *debugger.Debugger

	// Receives every line delivered to the machine, in save-file format
	Record io.Writer
}

func NewRunner(mc *machine.Machine, lines console.LineReader) *Runner {
	r := &Runner{
		Machine:  mc,
		Queue:    input.NewQueue(),
		Console:  lines,
		Debugger: debugger.NewDebugger(lines),
	}

	mc.Input = r.Queue
	mc.Debugger = r.Debugger
	return r
}

func (r *Runner) inspect() error {
	err := r.Debugger.REPL(r.Machine)

	if err == io.EOF {
		return ErrInputClosed
	} else if err != nil {
		return err
	}

	r.Queue.ClearInterrupt()
	r.Debugger.Resume()
	return nil
}

func (r *Runner) refill() error {
	line, err := r.Console.ReadLine("")

	if err == console.ErrInterrupt {
		r.Queue.Interrupt()
		return nil
	} else if err == io.EOF {
		return ErrInputClosed
	} else if err != nil {
		return err
	}

	if r.Queue.Feed(line) && r.Record != nil {
		if _, err := io.WriteString(r.Record, line); err != nil {
			return fmt.Errorf("recording input: %w", err)
		}
	}

	return nil
}

// Run executes the machine until it halts. A fault or a dead console is
// returned as an error; halting, including through the inspector, is not.
func (r *Runner) Run() error {
	for {
		if r.Queue.Interrupted() || r.Debugger.Stopped() {
			if err := r.inspect(); err != nil {
				return err
			}
		}

		status, err := r.Machine.Step()

		switch status {
		case machine.STATUS_HALTED:
			return nil

		case machine.STATUS_FAULT:
			return err

		case machine.STATUS_AWAITING_INPUT:
			if err := r.refill(); err != nil {
				return err
			}
		}
	}
}
