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

package machine

import (
	"fmt"
	"io"
)

type OperandType uint
type Status uint

type Instruction struct {
	Name     string
	Operands []OperandType
}

// Size returns the encoded length of the instruction in words, opcode
// included.
func (in *Instruction) Size() uint16 {
	return uint16(len(in.Operands)) + 1
}

// InputSource supplies the words consumed by the in opcode. Next reports
// false when no word is buffered; the engine then suspends with
// STATUS_AWAITING_INPUT and leaves refilling to its driver.
type InputSource interface {
	Next() (uint16, bool)
}

type MachineState struct {
	Registers [REGISTER_COUNT]uint16
	Program   uint16
	Stack     []uint16
	Memory    [MEMORY_SIZE]uint16
	Status    Status
}

type MachineDebugger interface {
	Step(mc *Machine)
}

type Machine struct {
	State    MachineState
	Input    InputSource
	Display  io.Writer
	Trace    io.Writer
	Debugger MachineDebugger
}

func (s Status) String() string {
	switch s {
	case STATUS_RUNNING:
		return "running"
	case STATUS_HALTED:
		return "halted"
	case STATUS_AWAITING_INPUT:
		return "awaiting input"
	case STATUS_FAULT:
		return "fault"
	default:
		return fmt.Sprintf("status(%d)", uint(s))
	}
}
