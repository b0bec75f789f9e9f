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
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/lassandro/gosynacor/pkg/machine"
)

var (
	bold = color.New(color.Bold).SprintFunc()
	dim  = color.New(color.FgHiBlack).SprintFunc()
)

// Step is called by the machine after every completed instruction and
// marks the debugger stopped on single-step or a breakpoint hit.
func (dbg *Debugger) Step(mc *machine.Machine) {
	if dbg.Break {
		dbg.stopped = true
		return
	}

	for _, breakpoint := range dbg.Breakpoints {
		if mc.State.Program == breakpoint.Addr {
			dbg.stopped = true
			break
		}
	}
}

// AddBreakpoint reports false when addr already has a breakpoint.
func (dbg *Debugger) AddBreakpoint(addr uint16) bool {
	for _, breakpoint := range dbg.Breakpoints {
		if breakpoint.Addr == addr {
			return false
		}
	}

	dbg.Breakpoints = append(dbg.Breakpoints, Breakpoint{addr})
	return true
}

func (dbg *Debugger) Stopped() bool {
	return dbg.stopped
}

func (dbg *Debugger) Resume() {
	dbg.stopped = false
}

func (dbg *Debugger) PrintRegs(mc *machine.MachineState) {
	table := tablewriter.NewWriter(dbg.Output)

	header := make([]string, 0, len(mc.Registers))
	row := make([]string, 0, len(mc.Registers))

	for i, register := range mc.Registers {
		header = append(header, fmt.Sprintf("R%d", i))
		row = append(row, strconv.Itoa(int(register)))
	}

	table.SetHeader(header)
	table.Append(row)
	table.Render()

	fmt.Fprintf(
		dbg.Output,
		"%s %d\t%s %d\t%s %s\n",
		bold("PC:"), mc.Program,
		bold("SP:"), len(mc.Stack),
		bold("ST:"), mc.Status,
	)
}

func (dbg *Debugger) PrintStack(mc *machine.MachineState) {
	if len(mc.Stack) == 0 {
		fmt.Fprintln(dbg.Output, "Stack empty")
		return
	}

	table := tablewriter.NewWriter(dbg.Output)
	table.SetHeader([]string{"#", "Value"})

	for i := len(mc.Stack) - 1; i >= 0; i-- {
		table.Append([]string{
			strconv.Itoa(len(mc.Stack) - 1 - i),
			strconv.Itoa(int(mc.Stack[i])),
		})
	}

	table.Render()
}

func (dbg *Debugger) PrintMem(mc *machine.MachineState, addr, count uint16) {
	end := int(addr) + int(count)

	if end > machine.MEMORY_SIZE {
		end = machine.MEMORY_SIZE
	}

	for i := int(addr); i < end; i++ {
		if i == int(addr) {
			fmt.Fprintf(dbg.Output, "%s ", bold(fmt.Sprintf("[%5d]", i)))
		} else if (i-int(addr))%4 == 0 {
			fmt.Fprintln(dbg.Output)
			fmt.Fprintf(dbg.Output, "%s ", bold(fmt.Sprintf("[%5d]", i)))
		}

		result := mc.Memory[i]

		if result == 0 {
			fmt.Fprintf(dbg.Output, "%s ", dim(fmt.Sprintf("%5d", result)))
		} else {
			fmt.Fprintf(dbg.Output, "%5d ", result)
		}
	}

	fmt.Fprintln(dbg.Output)
}

// PrintInstructions disassembles count instructions from addr onwards.
func (dbg *Debugger) PrintInstructions(mc *machine.MachineState, addr, count uint16) {
	cursor := int(addr)

	for i := uint16(0); i < count && cursor < machine.MEMORY_SIZE; i++ {
		text, size := machine.Disassemble(mc, uint16(cursor))

		marker := "  "
		if uint16(cursor) == mc.Program {
			marker = "->"
		}

		fmt.Fprintf(
			dbg.Output, "%s %s %s\n",
			marker, bold(fmt.Sprintf("%5d:", cursor)), text,
		)

		cursor += int(size)
	}
}
