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
	"strconv"
	"strings"
)

func (mc *MachineState) peek(addr int) uint16 {
	if addr < 0 || addr >= len(mc.Memory) {
		return 0
	}

	return mc.Memory[addr]
}

// Disassemble renders the instruction at addr with its raw operands and
// returns its length in words. Unknown opcodes render as a placeholder one
// word long so a caller walking memory keeps moving.
func Disassemble(mc *MachineState, addr uint16) (string, uint16) {
	opcode := mc.peek(int(addr))

	if int(opcode) >= len(Instructions) {
		return fmt.Sprintf("??? %d", opcode), 1
	}

	instruction := &Instructions[opcode]

	var text strings.Builder
	text.WriteString(instruction.Name)

	var operand uint16
	for i := range instruction.Operands {
		operand = mc.peek(int(addr) + 1 + i)
		fmt.Fprintf(&text, " %d", operand)
	}

	if opcode == OP_OUT {
		if value, err := mc.Resolve(operand); err == nil {
			text.WriteString(" " + strconv.QuoteRune(rune(value%256)))
		}
	}

	return text.String(), instruction.Size()
}
