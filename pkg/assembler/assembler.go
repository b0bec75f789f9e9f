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

package assembler

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lassandro/gosynacor/pkg/encoding"
	"github.com/lassandro/gosynacor/pkg/machine"
)

var mnemonics = make(map[string]uint16, len(machine.Instructions))

func init() {
	for opcode, instruction := range machine.Instructions {
		mnemonics[instruction.Name] = uint16(opcode)
	}
}

type statement struct {
	Op       Token
	Operands []Token
	Addr     int
}

func tokenize(line string, lineno int) ([]Token, error) {
	tokens := make([]Token, 0, 4)

	for i := 0; i < len(line); {
		c := line[i]

		switch {
		case c == ' ' || c == '\t' || c == ',' || c == '\r':
			i++

		case c == ';':
			return tokens, nil

		case c == '"' || c == '\'':
			start := i
			j := i + 1

			for j < len(line) && line[j] != c {
				if line[j] == '\\' {
					j++
				}
				j++
			}

			if j >= len(line) {
				return nil, &UnterminatedLiteralError{Cursor{lineno, start + 1}}
			}

			tokenType := TOKEN_STRING
			if c == '\'' {
				tokenType = TOKEN_CHAR
			}

			tokens = append(tokens, Token{
				tokenType, Cursor{lineno, start + 1}, line[start : j+1],
			})
			i = j + 1

		default:
			start := i

			for i < len(line) && !strings.ContainsRune(" \t,;\r", rune(line[i])) {
				i++
			}

			token := Token{TOKEN_IDENT, Cursor{lineno, start + 1}, line[start:i]}

			if strings.HasSuffix(token.Value, ":") {
				token.Type = TOKEN_LABEL
				token.Value = strings.TrimSuffix(token.Value, ":")
			} else if strings.HasPrefix(token.Value, ".") {
				token.Type = TOKEN_DIRECTIVE
			}

			tokens = append(tokens, token)
		}
	}

	return tokens, nil
}

func parseRegister(token *Token) (uint16, bool) {
	value := strings.ToLower(token.Value)

	if len(value) != 2 || value[0] != 'r' || value[1] < '0' || value[1] > '7' {
		return 0, false
	}

	return machine.REGISTER_BASE + uint16(value[1]-'0'), true
}

func parseOperand(token *Token, labels map[string]uint16) (uint16, bool, error) {
	switch token.Type {
	case TOKEN_CHAR:
		value, err := encoding.DecodeChar(token.Value)

		if err != nil {
			return 0, false, &InvalidOperandError{token.Position, token.Value, err.Error()}
		}

		return value, false, nil

	case TOKEN_IDENT:
		if value, ok := parseRegister(token); ok {
			return value, true, nil
		}

		if c := token.Value[0]; c == '#' || (c >= '0' && c <= '9') {
			value, err := encoding.DecodeWord(token.Value)

			if err != nil {
				return 0, false, &InvalidOperandError{token.Position, token.Value, err.Error()}
			}

			return value, false, nil
		}

		if addr, exists := labels[token.Value]; exists {
			return addr, false, nil
		}

		return 0, false, &UndefinedLabelError{token.Position, token.Value}
	}

	return 0, false, &InvalidOperandError{token.Position, token.Value, "unexpected token"}
}

func (stmt *statement) size() (int, error) {
	switch stmt.Op.Type {
	case TOKEN_IDENT:
		opcode, exists := mnemonics[strings.ToLower(stmt.Op.Value)]

		if !exists {
			return 0, &InvalidInstructionError{stmt.Op.Position, stmt.Op.Value}
		}

		instruction := &machine.Instructions[opcode]

		if len(stmt.Operands) != len(instruction.Operands) {
			return 0, &InvalidNumArgumentsError{
				stmt.Op.Position,
				len(instruction.Operands),
				len(stmt.Operands),
			}
		}

		return int(instruction.Size()), nil

	case TOKEN_DIRECTIVE:
		switch strings.ToLower(stmt.Op.Value) {
		case DIRECTIVE_WORD:
			if len(stmt.Operands) == 0 {
				return 0, &InvalidNumArgumentsError{stmt.Op.Position, 1, 0}
			}

			return len(stmt.Operands), nil

		case DIRECTIVE_STRING:
			if len(stmt.Operands) != 1 {
				return 0, &InvalidNumArgumentsError{
					stmt.Op.Position, 1, len(stmt.Operands),
				}
			}

			text, err := unquote(&stmt.Operands[0])

			if err != nil {
				return 0, err
			}

			return len(text), nil
		}
	}

	return 0, &InvalidInstructionError{stmt.Op.Position, stmt.Op.Value}
}

func unquote(token *Token) (string, error) {
	if token.Type != TOKEN_STRING {
		return "", &InvalidOperandError{token.Position, token.Value, "want a string"}
	}

	text, err := strconv.Unquote(token.Value)

	if err != nil {
		return "", &InvalidOperandError{token.Position, token.Value, err.Error()}
	}

	return text, nil
}

func (stmt *statement) encode(labels map[string]uint16) ([]uint16, []error) {
	var result []uint16
	var errs []error

	switch strings.ToLower(stmt.Op.Value) {
	case DIRECTIVE_WORD:
		for i := range stmt.Operands {
			value, _, err := parseOperand(&stmt.Operands[i], labels)

			if err != nil {
				errs = append(errs, err)
			}

			result = append(result, value)
		}

	case DIRECTIVE_STRING:
		text, _ := unquote(&stmt.Operands[0])

		for i := 0; i < len(text); i++ {
			result = append(result, uint16(text[i]))
		}

	default:
		opcode := mnemonics[strings.ToLower(stmt.Op.Value)]
		result = append(result, opcode)

		for i, operandType := range machine.Instructions[opcode].Operands {
			token := &stmt.Operands[i]
			value, isRegister, err := parseOperand(token, labels)

			if err != nil {
				errs = append(errs, err)
			} else if operandType == machine.OPERAND_DEST && !isRegister {
				errs = append(errs, &InvalidOperandError{
					token.Position, token.Value, "destination must be a register",
				})
			} else if !isRegister && value > machine.WORD_MAX {
				errs = append(errs, &InvalidOperandError{
					token.Position, token.Value, "literal out of range",
				})
			}

			result = append(result, value)
		}
	}

	return result, errs
}

// Assemble translates source text into a program image, one word per
// memory cell from address 0.
func Assemble(input io.Reader) (result []uint16, errs []error) {
	var statements []statement
	labels := make(map[string]uint16)
	addr := 0
	lineno := 0

	scanner := bufio.NewScanner(input)

	for scanner.Scan() {
		lineno++

		tokens, err := tokenize(scanner.Text(), lineno)

		if err != nil {
			errs = append(errs, err)
			continue
		}

		for len(tokens) > 0 && tokens[0].Type == TOKEN_LABEL {
			label := tokens[0]

			if _, exists := labels[label.Value]; exists {
				errs = append(errs, &DuplicateLabelError{label.Position, label.Value})
			} else {
				labels[label.Value] = uint16(addr)
			}

			tokens = tokens[1:]
		}

		if len(tokens) == 0 {
			continue
		}

		stmt := statement{Op: tokens[0], Operands: tokens[1:], Addr: addr}
		size, err := stmt.size()

		if err != nil {
			errs = append(errs, err)
			continue
		}

		statements = append(statements, stmt)
		addr += size
	}

	if err := scanner.Err(); err != nil {
		return nil, append(errs, err)
	}

	if addr > machine.MEMORY_SIZE {
		errs = append(errs, fmt.Errorf("Program exceeds %d words", machine.MEMORY_SIZE))
	}

	if len(errs) > 0 {
		return nil, errs
	}

	result = make([]uint16, 0, addr)

	for i := range statements {
		words, stmtErrs := statements[i].encode(labels)
		result = append(result, words...)
		errs = append(errs, stmtErrs...)
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return result, nil
}

// MustAssemble is Assemble for source known to be valid; it panics on the
// first error.
func MustAssemble(source string) []uint16 {
	result, errs := Assemble(strings.NewReader(source))

	if len(errs) > 0 {
		panic(errs[0])
	}

	return result
}
