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

import "fmt"

// Errno describes the nature of a machine fault.
type Errno uint

var strErrno = []string{
	ERR_INVALID_OPCODE:   "invalid opcode",
	ERR_INVALID_ADDRESS:  "invalid address",
	ERR_INVALID_REGISTER: "invalid register",
	ERR_STACK_EMPTY:      "pop from empty stack",
	ERR_DIVIDE_BY_ZERO:   "division by zero",
	ERR_IO:               "I/O error",
}

func (e Errno) Error() string {
	if int(e) < len(strErrno) {
		return strErrno[e]
	}

	return fmt.Sprintf("errno(%d)", uint(e))
}

// Fault is the fatal result of a step. PC is the address of the
// instruction that raised it, Word the offending encoding.
type Fault struct {
	Errno Errno
	PC    uint16
	Word  uint16
	Err   error
}

func (f *Fault) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s at pc %d: %v", f.Errno, f.PC, f.Err)
	}

	switch f.Errno {
	case ERR_INVALID_OPCODE, ERR_INVALID_ADDRESS, ERR_INVALID_REGISTER:
		return fmt.Sprintf("%s %d at pc %d", f.Errno, f.Word, f.PC)
	default:
		return fmt.Sprintf("%s at pc %d", f.Errno, f.PC)
	}
}

func (f *Fault) Unwrap() error {
	if f.Err != nil {
		return f.Err
	}

	return f.Errno
}

// Is lets errors.Is match a fault against its Errno even when an
// underlying I/O error is wrapped.
func (f *Fault) Is(target error) bool {
	errno, ok := target.(Errno)
	return ok && errno == f.Errno
}
