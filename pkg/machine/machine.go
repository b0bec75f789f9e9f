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
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

func (mc *MachineState) Reset() {
	for i := range mc.Registers {
		mc.Registers[i] = 0x0000
	}

	for i := range mc.Memory {
		mc.Memory[i] = 0x0000
	}

	mc.Program = 0
	mc.Stack = mc.Stack[:0]
	mc.Status = STATUS_RUNNING
}

// Resolve maps an operand onto its value: literals stand for themselves,
// register addresses for the register's contents.
func (mc *MachineState) Resolve(addr uint16) (uint16, error) {
	if addr <= WORD_MAX {
		return addr, nil
	}

	if addr <= REGISTER_LAST {
		return mc.Registers[addr-REGISTER_BASE], nil
	}

	return 0, &Fault{Errno: ERR_INVALID_ADDRESS, PC: mc.Program, Word: addr}
}

// Store writes through a destination operand, which must name a register.
func (mc *MachineState) Store(addr uint16, value uint16) error {
	if addr < REGISTER_BASE || addr > REGISTER_LAST {
		return &Fault{Errno: ERR_INVALID_REGISTER, PC: mc.Program, Word: addr}
	}

	mc.Registers[addr-REGISTER_BASE] = value
	return nil
}

func (mc *MachineState) Push(value uint16) {
	mc.Stack = append(mc.Stack, value)
}

func (mc *MachineState) Pop() (uint16, bool) {
	if len(mc.Stack) == 0 {
		return 0, false
	}

	value := mc.Stack[len(mc.Stack)-1]
	mc.Stack = mc.Stack[:len(mc.Stack)-1]
	return value, true
}

// LoadBin resets the machine and copies a little-endian program image into
// memory starting at address 0.
func (mc *Machine) LoadBin(reader io.Reader) error {
	mc.State.Reset()

	scratch := make([]byte, 2)
	index := 0

	for {
		_, err := io.ReadFull(reader, scratch)

		if err == io.EOF {
			return nil
		} else if err == io.ErrUnexpectedEOF {
			return errors.New("Program image has an odd number of bytes")
		} else if err != nil {
			return err
		}

		if index >= MEMORY_SIZE {
			return fmt.Errorf("Program image exceeds %d words", MEMORY_SIZE)
		}

		mc.State.Memory[index] = binary.LittleEndian.Uint16(scratch)
		index++
	}
}

func (mc *Machine) Halt() {
	mc.State.Status = STATUS_HALTED
}

func (mc *Machine) fault(errno Errno, word uint16) {
	panic(&Fault{Errno: errno, Word: word})
}

func (mc *Machine) fetch() uint16 {
	if mc.State.Program > WORD_MAX {
		mc.fault(ERR_INVALID_ADDRESS, mc.State.Program)
	}

	word := mc.State.Memory[mc.State.Program]
	mc.State.Program++
	return word
}

// operand fetches the next word and resolves it to a value.
func (mc *Machine) operand() uint16 {
	value, err := mc.State.Resolve(mc.fetch())

	if err != nil {
		panic(err)
	}

	return value
}

func (mc *Machine) store(addr uint16, value uint16) {
	if err := mc.State.Store(addr, value); err != nil {
		panic(err)
	}
}

func (mc *Machine) memory(addr uint16) *uint16 {
	if addr > WORD_MAX {
		mc.fault(ERR_INVALID_ADDRESS, addr)
	}

	return &mc.State.Memory[addr]
}

func (mc *Machine) trace(addr uint16, text string) {
	if _, err := fmt.Fprintf(mc.Trace, "%5d: %s\n", addr, text); err != nil {
		panic(&Fault{Errno: ERR_IO, Err: err})
	}
}

func cond(c bool) uint16 {
	if c {
		return 1
	}

	return 0
}

// Step executes one instruction. A step that cannot complete because the
// input source is dry leaves the program counter on the in opcode and
// reports STATUS_AWAITING_INPUT; the next call retries it from scratch.
// Only completed steps are traced, so suspended and faulting instructions
// never reach the trace.
func (mc *Machine) Step() (status Status, err error) {
	switch mc.State.Status {
	case STATUS_HALTED, STATUS_FAULT:
		return mc.State.Status, nil
	}

	start := mc.State.Program

	defer func() {
		if r := recover(); r != nil {
			fault, ok := r.(*Fault)

			if !ok {
				panic(r)
			}

			fault.PC = start
			mc.State.Program = start
			mc.State.Status = STATUS_FAULT
			status, err = STATUS_FAULT, fault
		}
	}()

	mc.State.Status = STATUS_RUNNING

	// Rendered up front so a self-modifying write cannot change the line
	var traced string
	if mc.Trace != nil {
		traced, _ = Disassemble(&mc.State, start)
	}

	opcode := mc.fetch()

	switch opcode {
	case OP_HALT:
		mc.State.Status = STATUS_HALTED

	case OP_SET:
		dest := mc.fetch()
		mc.store(dest, mc.operand())

	case OP_PUSH:
		mc.State.Push(mc.operand())

	case OP_POP:
		dest := mc.fetch()
		value, ok := mc.State.Pop()

		if !ok {
			mc.fault(ERR_STACK_EMPTY, opcode)
		}

		mc.store(dest, value)

	case OP_EQ:
		dest, a, b := mc.fetch(), mc.operand(), mc.operand()
		mc.store(dest, cond(a == b))

	case OP_GT:
		dest, a, b := mc.fetch(), mc.operand(), mc.operand()
		mc.store(dest, cond(a > b))

	case OP_JMP:
		mc.State.Program = mc.operand()

	case OP_JT:
		a, target := mc.operand(), mc.operand()

		if a != 0 {
			mc.State.Program = target
		}

	case OP_JF:
		a, target := mc.operand(), mc.operand()

		if a == 0 {
			mc.State.Program = target
		}

	case OP_ADD:
		dest, a, b := mc.fetch(), mc.operand(), mc.operand()
		mc.store(dest, uint16((uint32(a)+uint32(b))%WORD_MOD))

	case OP_MULT:
		dest, a, b := mc.fetch(), mc.operand(), mc.operand()
		mc.store(dest, uint16((uint32(a)*uint32(b))%WORD_MOD))

	case OP_MOD:
		dest, a, b := mc.fetch(), mc.operand(), mc.operand()

		if b == 0 {
			mc.fault(ERR_DIVIDE_BY_ZERO, opcode)
		}

		mc.store(dest, a%b)

	case OP_AND:
		dest, a, b := mc.fetch(), mc.operand(), mc.operand()
		mc.store(dest, uint16(uint32(a&b)%WORD_MOD))

	case OP_OR:
		dest, a, b := mc.fetch(), mc.operand(), mc.operand()
		mc.store(dest, uint16(uint32(a|b)%WORD_MOD))

	// 16-bit complement reduced mod 32768, i.e. the 15-bit complement of
	// any in-range value
	case OP_NOT:
		dest, a := mc.fetch(), mc.operand()
		mc.store(dest, uint16(uint32(^a)%WORD_MOD))

	case OP_RMEM:
		dest, addr := mc.fetch(), mc.operand()
		mc.store(dest, *mc.memory(addr))

	case OP_WMEM:
		addr, value := mc.operand(), mc.operand()
		*mc.memory(addr) = value

	case OP_CALL:
		target := mc.operand()
		mc.State.Push(mc.State.Program)
		mc.State.Program = target

	// An empty stack on return is a regular way to stop
	case OP_RET:
		if addr, ok := mc.State.Pop(); ok {
			mc.State.Program = addr
		} else {
			mc.State.Status = STATUS_HALTED
		}

	case OP_OUT:
		value := mc.operand()

		if mc.Display != nil {
			if _, err := mc.Display.Write([]byte{byte(value % 256)}); err != nil {
				panic(&Fault{Errno: ERR_IO, Err: err})
			}
		}

	case OP_IN:
		dest := mc.fetch()

		if dest < REGISTER_BASE || dest > REGISTER_LAST {
			mc.fault(ERR_INVALID_REGISTER, dest)
		}

		var value uint16
		var ok bool

		if mc.Input != nil {
			value, ok = mc.Input.Next()
		}

		if !ok {
			mc.State.Program = start
			mc.State.Status = STATUS_AWAITING_INPUT
			return mc.State.Status, nil
		}

		mc.store(dest, value)

	case OP_NOOP:

	default:
		mc.fault(ERR_INVALID_OPCODE, opcode)
	}

	if mc.Trace != nil {
		mc.trace(start, traced)
	}

	if mc.Debugger != nil {
		mc.Debugger.Step(mc)
	}

	return mc.State.Status, nil
}

// Run steps the machine until it stops running, either for good or
// because it needs input.
func (mc *Machine) Run() (Status, error) {
	for {
		status, err := mc.Step()

		if status != STATUS_RUNNING {
			return status, err
		}
	}
}
