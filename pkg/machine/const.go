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

const (
	// Values and literal addresses live in 0..32767, registers are mapped
	// onto 32768..32775.
	MEMORY_SIZE    = 1 << 15
	REGISTER_COUNT = 8

	WORD_MAX      uint16 = MEMORY_SIZE - 1
	WORD_MOD      uint32 = MEMORY_SIZE
	REGISTER_BASE uint16 = MEMORY_SIZE
	REGISTER_LAST uint16 = REGISTER_BASE + REGISTER_COUNT - 1
)

const (
	OP_HALT uint16 = iota
	OP_SET
	OP_PUSH
	OP_POP
	OP_EQ
	OP_GT
	OP_JMP
	OP_JT
	OP_JF
	OP_ADD
	OP_MULT
	OP_MOD
	OP_AND
	OP_OR
	OP_NOT
	OP_RMEM
	OP_WMEM
	OP_CALL
	OP_RET
	OP_OUT
	OP_IN
	OP_NOOP
)

const (
	// Written to, read raw
	OPERAND_DEST OperandType = iota
	// Passed through the register/literal resolver
	OPERAND_VALUE
)

const (
	STATUS_RUNNING Status = iota
	STATUS_HALTED
	STATUS_AWAITING_INPUT
	STATUS_FAULT
)

const (
	ERR_INVALID_OPCODE Errno = iota
	ERR_INVALID_ADDRESS
	ERR_INVALID_REGISTER
	ERR_STACK_EMPTY
	ERR_DIVIDE_BY_ZERO
	ERR_IO
)

var Instructions = [...]Instruction{
	OP_HALT: {"halt", nil},
	OP_SET:  {"set", []OperandType{OPERAND_DEST, OPERAND_VALUE}},
	OP_PUSH: {"push", []OperandType{OPERAND_VALUE}},
	OP_POP:  {"pop", []OperandType{OPERAND_DEST}},
	OP_EQ:   {"eq", []OperandType{OPERAND_DEST, OPERAND_VALUE, OPERAND_VALUE}},
	OP_GT:   {"gt", []OperandType{OPERAND_DEST, OPERAND_VALUE, OPERAND_VALUE}},
	OP_JMP:  {"jmp", []OperandType{OPERAND_VALUE}},
	OP_JT:   {"jt", []OperandType{OPERAND_VALUE, OPERAND_VALUE}},
	OP_JF:   {"jf", []OperandType{OPERAND_VALUE, OPERAND_VALUE}},
	OP_ADD:  {"add", []OperandType{OPERAND_DEST, OPERAND_VALUE, OPERAND_VALUE}},
	OP_MULT: {"mult", []OperandType{OPERAND_DEST, OPERAND_VALUE, OPERAND_VALUE}},
	OP_MOD:  {"mod", []OperandType{OPERAND_DEST, OPERAND_VALUE, OPERAND_VALUE}},
	OP_AND:  {"and", []OperandType{OPERAND_DEST, OPERAND_VALUE, OPERAND_VALUE}},
	OP_OR:   {"or", []OperandType{OPERAND_DEST, OPERAND_VALUE, OPERAND_VALUE}},
	OP_NOT:  {"not", []OperandType{OPERAND_DEST, OPERAND_VALUE}},
	OP_RMEM: {"rmem", []OperandType{OPERAND_DEST, OPERAND_VALUE}},
	OP_WMEM: {"wmem", []OperandType{OPERAND_VALUE, OPERAND_VALUE}},
	OP_CALL: {"call", []OperandType{OPERAND_VALUE}},
	OP_RET:  {"ret", nil},
	OP_OUT:  {"out", []OperandType{OPERAND_VALUE}},
	OP_IN:   {"in", []OperandType{OPERAND_DEST}},
	OP_NOOP: {"noop", nil},
}
