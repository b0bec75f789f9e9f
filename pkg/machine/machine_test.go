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

package machine_test

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/lassandro/gosynacor/pkg/input"
	"github.com/lassandro/gosynacor/pkg/machine"
)

const (
	R0 uint16 = machine.REGISTER_BASE + iota
	R1
	R2
	R3
	R4
	R5
	R6
	R7
)

type testMachineState struct {
	Registers [8]uint16
	Program   uint16
	Stack     []uint16
	Status    machine.Status
	Memory    map[uint16]uint16
}

type testCase struct {
	Name     string
	Steps    uint
	Keyboard string
	Display  string
	Input    testMachineState
	Output   testMachineState
}

type failCase struct {
	Name  string
	Errno machine.Errno
	Input testMachineState
}

func newTestMachine(state *testMachineState, keyboard string) (*machine.Machine, *bytes.Buffer) {
	var mc machine.Machine
	var displayBuf bytes.Buffer

	queue := input.NewQueue()
	queue.Preload(keyboard)

	mc.Input = queue
	mc.Display = &displayBuf

	mc.State.Reset()
	mc.State.Registers = state.Registers
	mc.State.Program = state.Program
	mc.State.Stack = append([]uint16(nil), state.Stack...)

	for addr, value := range state.Memory {
		mc.State.Memory[addr] = value
	}

	return &mc, &displayBuf
}

func testMachineSuccess(t *testing.T, test *testCase) {
	if test.Input.Memory == nil {
		panic("No memory map provided")
	}

	mc, displayBuf := newTestMachine(&test.Input, test.Keyboard)

	if test.Steps == 0 {
		test.Steps = 1
	}

	for i := uint(0); i < test.Steps; i++ {
		if _, err := mc.Step(); err != nil {
			t.Fatalf("Unexpected fault\nhave:%v", err)
		}
	}

	for i := 0; i < 8; i++ {
		want := test.Output.Registers[i]
		have := mc.State.Registers[i]
		if have != want {
			t.Errorf(
				"Register mismatch"+
					"\nwant:%d (test.Output.Registers[%d])\nhave:%d",
				want,
				i,
				have,
			)
		}
	}

	if mc.State.Program != test.Output.Program {
		t.Errorf(
			"Program counter mismatch"+
				"\nwant:%d (test.Output.Program)\nhave:%d",
			test.Output.Program,
			mc.State.Program,
		)
	}

	if mc.State.Status != test.Output.Status {
		t.Errorf(
			"Status mismatch"+
				"\nwant:%s (test.Output.Status)\nhave:%s",
			test.Output.Status,
			mc.State.Status,
		)
	}

	if len(mc.State.Stack) != len(test.Output.Stack) ||
		(len(mc.State.Stack) > 0 &&
			!reflect.DeepEqual(mc.State.Stack, test.Output.Stack)) {
		t.Errorf(
			"Stack mismatch"+
				"\nwant:%s (test.Output.Stack)\nhave:%s",
			spew.Sdump(test.Output.Stack),
			spew.Sdump(mc.State.Stack),
		)
	}

	for i, value := range mc.State.Memory {
		input, expectingInput := test.Input.Memory[uint16(i)]
		output, expectingOutput := test.Output.Memory[uint16(i)]

		if expectingOutput {
			// Value was supposed to change
			if value != output {
				t.Fatalf(
					"Memory value mismatch"+
						"\nwant:%d (test.Output.Memory[%d])\nhave:%d",
					output,
					i,
					value,
				)
			}
		} else if expectingInput {
			// Value was supposed to remain
			if value != input {
				t.Fatalf(
					"Memory value mismatch"+
						"\nwant:%d (test.Input.Memory[%d])\nhave:%d",
					input,
					i,
					value,
				)
			}
		} else if value != 0 {
			// Value was expected to remain unitialized
			t.Fatalf(
				"Memory unexpectedly changed"+
					"\nwant:0 (test.Output.Memory[%d])\nhave:%d",
				i,
				value,
			)
		}
	}

	if have := displayBuf.String(); have != test.Display {
		t.Errorf(
			"Display output mismatch"+
				"\nwant:%q (test.Display)\nhave:%q",
			test.Display,
			have,
		)
	}
}

func testMachineFail(t *testing.T, test *failCase) {
	mc, _ := newTestMachine(&test.Input, "")
	start := test.Input.Program

	status, err := mc.Step()

	if status != machine.STATUS_FAULT {
		t.Fatalf("Status mismatch\nwant:%s\nhave:%s", machine.STATUS_FAULT, status)
	}

	if !errors.Is(err, test.Errno) {
		t.Fatalf("Fault mismatch\nwant:%v\nhave:%v", test.Errno, err)
	}

	var fault *machine.Fault
	if !errors.As(err, &fault) || fault.PC != start {
		t.Fatalf("Fault location mismatch\nwant:%d\nhave:%v", start, err)
	}

	if mc.State.Program != start {
		t.Errorf("Program counter moved\nwant:%d\nhave:%d", start, mc.State.Program)
	}

	// A faulted machine stays put
	if status, err := mc.Step(); status != machine.STATUS_FAULT || err != nil {
		t.Errorf("Faulted machine stepped\nhave:%s %v", status, err)
	}
}

func testSuccess(t *testing.T, tests []testCase) {
	t.Run("Success", func(t *testing.T) {
		for _, test := range tests {
			test := test
			t.Run(test.Name, func(t *testing.T) {
				testMachineSuccess(t, &test)
			})
		}
	})
}

func testFail(t *testing.T, tests []failCase) {
	t.Run("Fail", func(t *testing.T) {
		for _, test := range tests {
			test := test
			t.Run(test.Name, func(t *testing.T) {
				testMachineFail(t, &test)
			})
		}
	})
}

func TestHalt(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "HALT",
			Input: testMachineState{
				Memory: map[uint16]uint16{0: machine.OP_HALT},
			},
			Output: testMachineState{
				Program: 1,
				Status:  machine.STATUS_HALTED,
			},
		},
		{
			Name:  "HALT Stays Halted",
			Steps: 3,
			Input: testMachineState{
				Memory: map[uint16]uint16{0: machine.OP_HALT},
			},
			Output: testMachineState{
				Program: 1,
				Status:  machine.STATUS_HALTED,
			},
		},
		{
			Name: "NOOP",
			Input: testMachineState{
				Program: 10,
				Memory:  map[uint16]uint16{10: machine.OP_NOOP},
			},
			Output: testMachineState{
				Program: 11,
			},
		},
	})
}

func TestSet(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "SET Literal",
			Input: testMachineState{
				Memory: map[uint16]uint16{0: machine.OP_SET, 1: R0, 2: 42},
			},
			Output: testMachineState{
				Program:   3,
				Registers: [8]uint16{0: 42},
			},
		},
		{
			Name: "SET Register",
			Input: testMachineState{
				Registers: [8]uint16{2: 7},
				Memory:    map[uint16]uint16{0: machine.OP_SET, 1: R1, 2: R2},
			},
			Output: testMachineState{
				Program:   3,
				Registers: [8]uint16{1: 7, 2: 7},
			},
		},
		{
			Name: "SET Last Register",
			Input: testMachineState{
				Memory: map[uint16]uint16{0: machine.OP_SET, 1: R7, 2: 32767},
			},
			Output: testMachineState{
				Program:   3,
				Registers: [8]uint16{7: 32767},
			},
		},
	})
}

func TestStack(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "PUSH Literal",
			Input: testMachineState{
				Memory: map[uint16]uint16{0: machine.OP_PUSH, 1: 5},
			},
			Output: testMachineState{
				Program: 2,
				Stack:   []uint16{5},
			},
		},
		{
			Name: "PUSH Register",
			Input: testMachineState{
				Registers: [8]uint16{3: 99},
				Stack:     []uint16{1},
				Memory:    map[uint16]uint16{0: machine.OP_PUSH, 1: R3},
			},
			Output: testMachineState{
				Program:   2,
				Registers: [8]uint16{3: 99},
				Stack:     []uint16{1, 99},
			},
		},
		{
			Name:  "PUSH POP",
			Steps: 2,
			Input: testMachineState{
				Memory: map[uint16]uint16{
					0: machine.OP_PUSH, 1: 5,
					2: machine.OP_POP, 3: R1,
				},
			},
			Output: testMachineState{
				Program:   4,
				Registers: [8]uint16{1: 5},
			},
		},
		{
			Name: "POP Last In",
			Input: testMachineState{
				Stack:  []uint16{1, 2, 3},
				Memory: map[uint16]uint16{0: machine.OP_POP, 1: R0},
			},
			Output: testMachineState{
				Program:   2,
				Registers: [8]uint16{0: 3},
				Stack:     []uint16{1, 2},
			},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "POP Empty",
			Errno: machine.ERR_STACK_EMPTY,
			Input: testMachineState{
				Memory: map[uint16]uint16{0: machine.OP_POP, 1: R0},
			},
		},
	})
}

func TestCompare(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "EQ Equal",
			Input: testMachineState{
				Registers: [8]uint16{0: 9},
				Memory:    map[uint16]uint16{0: machine.OP_EQ, 1: R0, 2: 5, 3: 5},
			},
			Output: testMachineState{
				Program:   4,
				Registers: [8]uint16{0: 1},
			},
		},
		{
			Name: "EQ Unequal",
			Input: testMachineState{
				Registers: [8]uint16{0: 9},
				Memory:    map[uint16]uint16{0: machine.OP_EQ, 1: R0, 2: 5, 3: 6},
			},
			Output: testMachineState{
				Program:   4,
				Registers: [8]uint16{0: 0},
			},
		},
		{
			Name: "EQ Registers",
			Input: testMachineState{
				Registers: [8]uint16{1: 300, 2: 300},
				Memory:    map[uint16]uint16{0: machine.OP_EQ, 1: R0, 2: R1, 3: R2},
			},
			Output: testMachineState{
				Program:   4,
				Registers: [8]uint16{0: 1, 1: 300, 2: 300},
			},
		},
		{
			Name: "GT Greater",
			Input: testMachineState{
				Memory: map[uint16]uint16{0: machine.OP_GT, 1: R0, 2: 6, 3: 5},
			},
			Output: testMachineState{
				Program:   4,
				Registers: [8]uint16{0: 1},
			},
		},
		{
			Name: "GT Equal",
			Input: testMachineState{
				Registers: [8]uint16{0: 9},
				Memory:    map[uint16]uint16{0: machine.OP_GT, 1: R0, 2: 5, 3: 5},
			},
			Output: testMachineState{
				Program: 4,
			},
		},
		{
			Name: "GT Less",
			Input: testMachineState{
				Registers: [8]uint16{0: 9},
				Memory:    map[uint16]uint16{0: machine.OP_GT, 1: R0, 2: 5, 3: 32767},
			},
			Output: testMachineState{
				Program: 4,
			},
		},
	})
}

func TestJump(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "JMP Literal",
			Input: testMachineState{
				Memory: map[uint16]uint16{0: machine.OP_JMP, 1: 10},
			},
			Output: testMachineState{
				Program: 10,
			},
		},
		{
			Name: "JMP Register",
			Input: testMachineState{
				Registers: [8]uint16{0: 20},
				Memory:    map[uint16]uint16{0: machine.OP_JMP, 1: R0},
			},
			Output: testMachineState{
				Program:   20,
				Registers: [8]uint16{0: 20},
			},
		},
		{
			Name: "JT Taken",
			Input: testMachineState{
				Memory: map[uint16]uint16{0: machine.OP_JT, 1: 1, 2: 10},
			},
			Output: testMachineState{
				Program: 10,
			},
		},
		{
			Name: "JT Not Taken",
			Input: testMachineState{
				Memory: map[uint16]uint16{0: machine.OP_JT, 1: 0, 2: 10},
			},
			Output: testMachineState{
				Program: 3,
			},
		},
		{
			Name: "JT Register Taken",
			Input: testMachineState{
				Registers: [8]uint16{0: 32767, 1: 50},
				Memory:    map[uint16]uint16{0: machine.OP_JT, 1: R0, 2: R1},
			},
			Output: testMachineState{
				Program:   50,
				Registers: [8]uint16{0: 32767, 1: 50},
			},
		},
		{
			Name: "JF Taken",
			Input: testMachineState{
				Memory: map[uint16]uint16{0: machine.OP_JF, 1: 0, 2: 10},
			},
			Output: testMachineState{
				Program: 10,
			},
		},
		{
			Name: "JF Not Taken",
			Input: testMachineState{
				Memory: map[uint16]uint16{0: machine.OP_JF, 1: 5, 2: 10},
			},
			Output: testMachineState{
				Program: 3,
			},
		},
	})
}

func TestArithmetic(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "ADD",
			Input: testMachineState{
				Memory: map[uint16]uint16{0: machine.OP_ADD, 1: R0, 2: 2, 3: 3},
			},
			Output: testMachineState{
				Program:   4,
				Registers: [8]uint16{0: 5},
			},
		},
		{
			Name: "ADD Overflow",
			Input: testMachineState{
				Memory: map[uint16]uint16{0: machine.OP_ADD, 1: R0, 2: 32758, 3: 15},
			},
			Output: testMachineState{
				Program:   4,
				Registers: [8]uint16{0: 5},
			},
		},
		{
			Name: "ADD Registers",
			Input: testMachineState{
				Registers: [8]uint16{1: 32767, 2: 1},
				Memory:    map[uint16]uint16{0: machine.OP_ADD, 1: R0, 2: R1, 3: R2},
			},
			Output: testMachineState{
				Program:   4,
				Registers: [8]uint16{0: 0, 1: 32767, 2: 1},
			},
		},
		{
			Name: "MULT",
			Input: testMachineState{
				Memory: map[uint16]uint16{0: machine.OP_MULT, 1: R0, 2: 6, 3: 7},
			},
			Output: testMachineState{
				Program:   4,
				Registers: [8]uint16{0: 42},
			},
		},
		{
			Name: "MULT Overflow",
			Input: testMachineState{
				Memory: map[uint16]uint16{0: machine.OP_MULT, 1: R0, 2: 32767, 3: 32767},
			},
			Output: testMachineState{
				Program:   4,
				Registers: [8]uint16{0: 1},
			},
		},
		{
			Name: "MOD",
			Input: testMachineState{
				Memory: map[uint16]uint16{0: machine.OP_MOD, 1: R0, 2: 10, 3: 3},
			},
			Output: testMachineState{
				Program:   4,
				Registers: [8]uint16{0: 1},
			},
		},
		{
			Name: "AND",
			Input: testMachineState{
				Memory: map[uint16]uint16{0: machine.OP_AND, 1: R0, 2: 12, 3: 10},
			},
			Output: testMachineState{
				Program:   4,
				Registers: [8]uint16{0: 8},
			},
		},
		{
			Name: "OR",
			Input: testMachineState{
				Memory: map[uint16]uint16{0: machine.OP_OR, 1: R0, 2: 12, 3: 10},
			},
			Output: testMachineState{
				Program:   4,
				Registers: [8]uint16{0: 14},
			},
		},
		{
			Name: "NOT Zero",
			Input: testMachineState{
				Memory: map[uint16]uint16{0: machine.OP_NOT, 1: R0, 2: 0},
			},
			Output: testMachineState{
				Program:   3,
				Registers: [8]uint16{0: 32767},
			},
		},
		{
			Name: "NOT Alternating",
			Input: testMachineState{
				Memory: map[uint16]uint16{0: machine.OP_NOT, 1: R0, 2: 0x5555},
			},
			Output: testMachineState{
				Program:   3,
				Registers: [8]uint16{0: 0x2AAA},
			},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "MOD Zero",
			Errno: machine.ERR_DIVIDE_BY_ZERO,
			Input: testMachineState{
				Memory: map[uint16]uint16{0: machine.OP_MOD, 1: R0, 2: 10, 3: 0},
			},
		},
	})
}

func TestMemory(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "RMEM Literal",
			Input: testMachineState{
				Memory: map[uint16]uint16{0: machine.OP_RMEM, 1: R0, 2: 100, 100: 1234},
			},
			Output: testMachineState{
				Program:   3,
				Registers: [8]uint16{0: 1234},
			},
		},
		{
			Name: "RMEM Register",
			Input: testMachineState{
				Registers: [8]uint16{1: 100},
				Memory:    map[uint16]uint16{0: machine.OP_RMEM, 1: R0, 2: R1, 100: R5},
			},
			Output: testMachineState{
				Program:   3,
				Registers: [8]uint16{0: R5, 1: 100},
			},
		},
		{
			Name: "WMEM Literal",
			Input: testMachineState{
				Memory: map[uint16]uint16{0: machine.OP_WMEM, 1: 100, 2: 77},
			},
			Output: testMachineState{
				Program: 3,
				Memory:  map[uint16]uint16{100: 77},
			},
		},
		{
			Name: "WMEM Register",
			Input: testMachineState{
				Registers: [8]uint16{0: 200, 1: 5},
				Memory:    map[uint16]uint16{0: machine.OP_WMEM, 1: R0, 2: R1},
			},
			Output: testMachineState{
				Program:   3,
				Registers: [8]uint16{0: 200, 1: 5},
				Memory:    map[uint16]uint16{200: 5},
			},
		},
		{
			Name: "WMEM Self Modifying",
			Input: testMachineState{
				Memory: map[uint16]uint16{0: machine.OP_WMEM, 1: 0, 2: machine.OP_HALT},
			},
			Output: testMachineState{
				Program: 3,
				Memory:  map[uint16]uint16{0: machine.OP_HALT},
			},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "RMEM Out Of Range",
			Errno: machine.ERR_INVALID_ADDRESS,
			Input: testMachineState{
				Registers: [8]uint16{1: 40000},
				Memory:    map[uint16]uint16{0: machine.OP_RMEM, 1: R0, 2: R1},
			},
		},
		{
			Name:  "JMP Out Of Range",
			Errno: machine.ERR_INVALID_ADDRESS,
			Input: testMachineState{
				Program: machine.WORD_MAX + 1,
			},
		},
	})
}

func TestCall(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "CALL",
			Input: testMachineState{
				Memory: map[uint16]uint16{0: machine.OP_CALL, 1: 10},
			},
			Output: testMachineState{
				Program: 10,
				Stack:   []uint16{2},
			},
		},
		{
			Name:  "CALL RET",
			Steps: 2,
			Input: testMachineState{
				Memory: map[uint16]uint16{
					0:  machine.OP_CALL,
					1:  10,
					10: machine.OP_RET,
				},
			},
			Output: testMachineState{
				Program: 2,
			},
		},
		{
			Name: "RET Empty Stack",
			Input: testMachineState{
				Memory: map[uint16]uint16{0: machine.OP_RET},
			},
			Output: testMachineState{
				Program: 1,
				Status:  machine.STATUS_HALTED,
			},
		},
		{
			Name:  "PUSH RET",
			Steps: 2,
			Input: testMachineState{
				Memory: map[uint16]uint16{
					0: machine.OP_PUSH,
					1: 30,
					2: machine.OP_RET,
				},
			},
			Output: testMachineState{
				Program: 30,
			},
		},
	})
}

func TestDisplay(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:    "OUT Halt",
			Steps:   3,
			Display: "A\n",
			Input: testMachineState{
				Memory: map[uint16]uint16{
					0: machine.OP_OUT, 1: 65,
					2: machine.OP_OUT, 3: 10,
					4: machine.OP_HALT,
				},
			},
			Output: testMachineState{
				Program: 5,
				Status:  machine.STATUS_HALTED,
			},
		},
		{
			Name:    "OUT Register",
			Steps:   3,
			Display: "\x05",
			Input: testMachineState{
				Memory: map[uint16]uint16{
					0: machine.OP_SET, 1: R0, 2: 4,
					3: machine.OP_ADD, 4: R0, 5: R0, 6: 1,
					7: machine.OP_OUT, 8: R0,
				},
			},
			Output: testMachineState{
				Program:   9,
				Registers: [8]uint16{0: 5},
			},
		},
		{
			Name:    "OUT Wraps At Byte",
			Display: "a",
			Input: testMachineState{
				Memory: map[uint16]uint16{0: machine.OP_OUT, 1: 256 + 'a'},
			},
			Output: testMachineState{
				Program: 2,
			},
		},
	})
}

func TestKeyboard(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:     "IN Preloaded",
			Steps:    4,
			Keyboard: "foo\n",
			Input: testMachineState{
				Memory: map[uint16]uint16{
					0: machine.OP_IN, 1: R0,
					2: machine.OP_IN, 3: R1,
					4: machine.OP_IN, 5: R2,
					6: machine.OP_IN, 7: R3,
				},
			},
			Output: testMachineState{
				Program:   8,
				Registers: [8]uint16{0: 'f', 1: 'o', 2: 'o', 3: '\n'},
			},
		},
		{
			Name: "IN Empty",
			Input: testMachineState{
				Program:   4,
				Registers: [8]uint16{0: 0xBEE},
				Memory:    map[uint16]uint16{4: machine.OP_IN, 5: R0},
			},
			Output: testMachineState{
				Program:   4,
				Registers: [8]uint16{0: 0xBEE},
				Status:    machine.STATUS_AWAITING_INPUT,
			},
		},
		{
			Name:     "IN Drained",
			Steps:    3,
			Keyboard: "x",
			Input: testMachineState{
				Memory: map[uint16]uint16{
					0: machine.OP_IN, 1: R0,
					2: machine.OP_IN, 3: R1,
				},
			},
			Output: testMachineState{
				Program:   2,
				Registers: [8]uint16{0: 'x'},
				Status:    machine.STATUS_AWAITING_INPUT,
			},
		},
	})
}

func TestInputLiteralDestination(t *testing.T) {
	queue := input.NewQueue()
	queue.Preload("a")

	var mc machine.Machine
	mc.Input = queue
	mc.State.Memory[0] = machine.OP_IN
	mc.State.Memory[1] = 5

	status, err := mc.Step()

	if status != machine.STATUS_FAULT || !errors.Is(err, machine.ERR_INVALID_REGISTER) {
		t.Fatalf("Fault mismatch\nwant:%v\nhave:%s %v", machine.ERR_INVALID_REGISTER, status, err)
	}

	// The rejected instruction does not consume input
	if queue.Len() != 1 {
		t.Errorf("Queue length mismatch\nwant:1\nhave:%d", queue.Len())
	}
}

func TestInputResume(t *testing.T) {
	queue := input.NewQueue()

	var mc machine.Machine
	mc.Input = queue
	mc.State.Memory[0] = machine.OP_IN
	mc.State.Memory[1] = R2
	mc.State.Memory[2] = machine.OP_HALT

	if status, err := mc.Step(); status != machine.STATUS_AWAITING_INPUT || err != nil {
		t.Fatalf("Status mismatch\nwant:%s\nhave:%s %v", machine.STATUS_AWAITING_INPUT, status, err)
	}

	queue.Feed("go\r\n")

	status, err := mc.Run()

	if status != machine.STATUS_HALTED || err != nil {
		t.Fatalf("Status mismatch\nwant:%s\nhave:%s %v", machine.STATUS_HALTED, status, err)
	}

	if mc.State.Registers[2] != 'g' {
		t.Errorf("Register mismatch\nwant:%d\nhave:%d", 'g', mc.State.Registers[2])
	}

	// Unread input stays queued
	if queue.Len() != 2 {
		t.Errorf("Queue length mismatch\nwant:2\nhave:%d", queue.Len())
	}
}

func TestInvalidEncoding(t *testing.T) {
	testFail(t, []failCase{
		{
			Name:  "Opcode 22",
			Errno: machine.ERR_INVALID_OPCODE,
			Input: testMachineState{
				Memory: map[uint16]uint16{0: 22},
			},
		},
		{
			Name:  "Opcode Register Range",
			Errno: machine.ERR_INVALID_OPCODE,
			Input: testMachineState{
				Program: 7,
				Memory:  map[uint16]uint16{7: R0},
			},
		},
		{
			Name:  "SET Literal Destination",
			Errno: machine.ERR_INVALID_REGISTER,
			Input: testMachineState{
				Memory: map[uint16]uint16{0: machine.OP_SET, 1: 5, 2: 1},
			},
		},
		{
			Name:  "ADD Destination Past Registers",
			Errno: machine.ERR_INVALID_REGISTER,
			Input: testMachineState{
				Memory: map[uint16]uint16{0: machine.OP_ADD, 1: R7 + 1, 2: 1, 3: 1},
			},
		},
		{
			Name:  "SET Operand Past Registers",
			Errno: machine.ERR_INVALID_ADDRESS,
			Input: testMachineState{
				Memory: map[uint16]uint16{0: machine.OP_SET, 1: R0, 2: 32776},
			},
		},
	})
}

func TestLoadBin(t *testing.T) {
	var mc machine.Machine
	mc.State.Registers[0] = 9
	mc.State.Memory[10] = 9

	image := []byte{0x13, 0x00, 0x41, 0x00, 0x00, 0x80}

	if err := mc.LoadBin(bytes.NewReader(image)); err != nil {
		t.Fatal(err)
	}

	want := []uint16{machine.OP_OUT, 'A', R0}

	for i, word := range want {
		if mc.State.Memory[i] != word {
			t.Errorf("Memory value mismatch\nwant:%d (Memory[%d])\nhave:%d", word, i, mc.State.Memory[i])
		}
	}

	if mc.State.Memory[10] != 0 || mc.State.Registers[0] != 0 {
		t.Error("Machine state survived a reload")
	}

	if err := mc.LoadBin(bytes.NewReader(image[:3])); err == nil {
		t.Error("Odd-sized image loaded without error")
	}

	oversized := make([]byte, (machine.MEMORY_SIZE+1)*2)

	if err := mc.LoadBin(bytes.NewReader(oversized)); err == nil {
		t.Error("Oversized image loaded without error")
	}
}

type stepCounter struct {
	count int
}

func (sc *stepCounter) Step(mc *machine.Machine) {
	sc.count++
}

func TestDebuggerHook(t *testing.T) {
	var mc machine.Machine
	var counter stepCounter

	mc.Debugger = &counter
	mc.Input = input.NewQueue()
	mc.State.Memory[0] = machine.OP_NOOP
	mc.State.Memory[1] = machine.OP_IN
	mc.State.Memory[2] = R0

	if status, _ := mc.Run(); status != machine.STATUS_AWAITING_INPUT {
		t.Fatalf("Status mismatch\nwant:%s\nhave:%s", machine.STATUS_AWAITING_INPUT, status)
	}

	// A suspended in instruction is not a completed step
	if counter.count != 1 {
		t.Errorf("Hook count mismatch\nwant:1\nhave:%d", counter.count)
	}
}
