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
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lassandro/gosynacor/pkg/console"
	"github.com/lassandro/gosynacor/pkg/encoding"
	"github.com/lassandro/gosynacor/pkg/machine"
)

const help = `regs                     show registers
setreg [0-7|R#] [value]  overwrite a register
setmem [addr] [value]    overwrite a memory cell
getmem [addr] [#]        show memory cells
print [#]                disassemble from the program counter
stack                    show the stack, top first
jump [addr]              move the program counter
break [add|list|remove|clear]
step                     run one instruction and stop
exit                     resume the machine
quit                     halt the machine`

func decodeAddr(s string) (uint16, error) {
	addr, err := encoding.DecodeWord(s)

	if err != nil {
		return 0, err
	}

	if addr > machine.WORD_MAX {
		return 0, fmt.Errorf("Address %d out of range", addr)
	}

	return addr, nil
}

func decodeCount(s string) (uint16, error) {
	return encoding.DecodeWord(s)
}

func decodeRegister(s string) (int, error) {
	s = strings.TrimPrefix(strings.ToUpper(s), "R")

	index, err := strconv.Atoi(s)

	if err != nil || index < 0 || index >= machine.REGISTER_COUNT {
		return 0, errors.New("Invalid register")
	}

	return index, nil
}

func (dbg *Debugger) debugBreak(args []string) {
	const usage = "break [add|list|remove|clear]"

	if len(args) == 0 {
		args = append(args, "list")
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "a", "add":
		const usage = "break add [addr]"

		if len(args) != 1 {
			dbg.Log.Println(usage)
			return
		}

		addr, err := decodeAddr(args[0])

		if err != nil {
			dbg.Log.Println(err)
			return
		}

		if dbg.AddBreakpoint(addr) {
			fmt.Fprintf(dbg.Output, "Breakpoint added [%d]\n", addr)
		}

	case "l", "ls", "list":
		if len(dbg.Breakpoints) == 0 {
			fmt.Fprintln(dbg.Output, "No breakpoints")
			return
		}

		var fmtstring string
		{
			digits := math.Floor(math.Log10(float64(len(dbg.Breakpoints) + 1)))
			fmtstring = fmt.Sprintf("#%%0%dd: %%d\n", int64(digits)+1)
		}

		for i, breakpoint := range dbg.Breakpoints {
			fmt.Fprintf(dbg.Output, fmtstring, i, breakpoint.Addr)
		}

	case "r", "rm", "remove":
		const usage = "break remove [#]"

		if len(args) != 1 {
			dbg.Log.Println(usage)
			return
		}

		i, err := decodeCount(args[0])

		if err != nil {
			dbg.Log.Println(err)
			return
		}

		if int(i) >= len(dbg.Breakpoints) {
			dbg.Log.Println("Invalid breakpoint number")
			return
		}

		dbg.Breakpoints[i] = dbg.Breakpoints[len(dbg.Breakpoints)-1]
		dbg.Breakpoints = dbg.Breakpoints[:len(dbg.Breakpoints)-1]
		fmt.Fprintf(dbg.Output, "Breakpoint removed [%d]\n", i)

	case "clear":
		dbg.Breakpoints = nil
		fmt.Fprintln(dbg.Output, "Breakpoints reset")

	default:
		dbg.Log.Println(usage)
	}
}

func (dbg *Debugger) debugSetReg(mc *machine.MachineState, args []string) {
	const usage = "setreg [0-7|R#] [value]"

	if len(args) != 2 {
		dbg.Log.Println(usage)
		return
	}

	index, err := decodeRegister(args[0])

	if err != nil {
		dbg.Log.Println(err)
		return
	}

	value, err := encoding.DecodeWord(args[1])

	if err != nil {
		dbg.Log.Println(err)
		return
	}

	if value > machine.WORD_MAX {
		dbg.Log.Printf("Value %d out of range\n", value)
		return
	}

	mc.Registers[index] = value
	fmt.Fprintf(dbg.Output, "%s %d\n", bold(fmt.Sprintf("R%d:", index)), value)
}

func (dbg *Debugger) debugSetMem(mc *machine.MachineState, args []string) {
	const usage = "setmem [addr] [value]"

	if len(args) != 2 {
		dbg.Log.Println(usage)
		return
	}

	addr, err := decodeAddr(args[0])

	if err != nil {
		dbg.Log.Println(err)
		return
	}

	value, err := encoding.DecodeWord(args[1])

	if err != nil {
		dbg.Log.Println(err)
		return
	}

	mc.Memory[addr] = value
	dbg.PrintMem(mc, addr, 1)
}

func (dbg *Debugger) debugGetMem(mc *machine.MachineState, args []string) {
	const usage = "getmem [addr] [#]"

	if len(args) < 1 || len(args) > 2 {
		dbg.Log.Println(usage)
		return
	}

	addr, err := decodeAddr(args[0])

	if err != nil {
		dbg.Log.Println(err)
		return
	}

	var count uint16 = 1

	if len(args) > 1 {
		if count, err = decodeCount(args[1]); err != nil {
			dbg.Log.Println(err)
			return
		}
	}

	dbg.PrintMem(mc, addr, count)
}

func (dbg *Debugger) debugPrint(mc *machine.MachineState, args []string) {
	const usage = "print [#]"

	if len(args) > 1 {
		dbg.Log.Println(usage)
		return
	}

	var count uint16 = 1
	var err error

	if len(args) > 0 {
		if count, err = decodeCount(args[0]); err != nil {
			dbg.Log.Println(err)
			return
		}
	}

	dbg.PrintInstructions(mc, mc.Program, count)
}

func (dbg *Debugger) debugJump(mc *machine.MachineState, args []string) {
	const usage = "jump [addr]"

	if len(args) != 1 {
		dbg.Log.Println(usage)
		return
	}

	addr, err := decodeAddr(args[0])

	if err != nil {
		dbg.Log.Println(err)
		return
	}

	mc.Program = addr
	fmt.Fprintf(dbg.Output, "%s %d\n", bold("PC:"), addr)
}

// REPL runs inspector commands against the machine until the operator
// resumes or halts it. Only a failing console ends it with an error.
func (dbg *Debugger) REPL(mc *machine.Machine) error {
	fmt.Fprintln(dbg.Output, bold("Entering Debugger"))

	for {
		line, err := dbg.Console.ReadLine(dbg.Prompt)

		if err == console.ErrInterrupt {
			continue
		} else if err != nil {
			return err
		}

		args := strings.Fields(line)

		if len(args) == 0 {
			if len(dbg.lastcmd) == 0 {
				continue
			}
			args = dbg.lastcmd
		} else {
			dbg.lastcmd = make([]string, len(args))
			copy(dbg.lastcmd, args)
		}

		cmd := args[0]
		args = args[1:]

		switch cmd {
		case "regs":
			dbg.PrintRegs(&mc.State)

		case "setreg":
			dbg.debugSetReg(&mc.State, args)

		case "setmem":
			dbg.debugSetMem(&mc.State, args)

		case "getmem":
			dbg.debugGetMem(&mc.State, args)

		case "print":
			dbg.debugPrint(&mc.State, args)

		case "stack":
			dbg.PrintStack(&mc.State)

		case "jump":
			dbg.debugJump(&mc.State, args)

		case "break":
			dbg.debugBreak(args)

		case "step":
			dbg.Break = true
			dbg.stopped = false
			return nil

		case "exit":
			dbg.Break = false
			dbg.stopped = false
			fmt.Fprintln(dbg.Output, bold("Exiting Debugger"))
			return nil

		case "quit":
			mc.Halt()
			return nil

		case "help":
			fmt.Fprintln(dbg.Output, help)

		default:
			dbg.Log.Printf("error: '%s' is not a valid command\n", cmd)
		}
	}
}
