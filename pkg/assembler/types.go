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
	"fmt"
)

type TokenType uint

const (
	TOKEN_NONE TokenType = iota
	TOKEN_IDENT
	TOKEN_LABEL
	TOKEN_DIRECTIVE
	TOKEN_STRING
	TOKEN_CHAR
)

const (
	DIRECTIVE_WORD   = ".word"
	DIRECTIVE_STRING = ".string"
)

type Cursor struct {
	Line   int
	Column int
}

type Token struct {
	Type     TokenType
	Position Cursor
	Value    string
}

type TokenError interface {
	GetPosition() Cursor
}

type InvalidInstructionError struct {
	Position Cursor
	Name     string
}

func (err *InvalidInstructionError) GetPosition() Cursor {
	return err.Position
}

func (err *InvalidInstructionError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Invalid instruction '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Name,
	)
}

type InvalidNumArgumentsError struct {
	Position Cursor
	Required int
	Received int
}

func (err *InvalidNumArgumentsError) GetPosition() Cursor {
	return err.Position
}

func (err *InvalidNumArgumentsError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Invalid number of arguments\n\twant:%d\n\thave:%v",
		err.Position.Line,
		err.Position.Column,
		err.Required,
		err.Received,
	)
}

type InvalidOperandError struct {
	Position Cursor
	Value    string
	Reason   string
}

func (err *InvalidOperandError) GetPosition() Cursor {
	return err.Position
}

func (err *InvalidOperandError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Invalid operand '%s': %s",
		err.Position.Line,
		err.Position.Column,
		err.Value,
		err.Reason,
	)
}

type UndefinedLabelError struct {
	Position Cursor
	Label    string
}

func (err *UndefinedLabelError) GetPosition() Cursor {
	return err.Position
}

func (err *UndefinedLabelError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Undefined label '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Label,
	)
}

type DuplicateLabelError struct {
	Position Cursor
	Label    string
}

func (err *DuplicateLabelError) GetPosition() Cursor {
	return err.Position
}

func (err *DuplicateLabelError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Duplicate label '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Label,
	)
}

type UnterminatedLiteralError struct {
	Position Cursor
}

func (err *UnterminatedLiteralError) GetPosition() Cursor {
	return err.Position
}

func (err *UnterminatedLiteralError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Unterminated literal",
		err.Position.Line,
		err.Position.Column,
	)
}
