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

package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"
)

// ErrInterrupt is returned by a LineReader when the operator asked to break
// into the inspector instead of entering a line.
var ErrInterrupt = errors.New("console: interrupted")

// LineReader yields one line of operator text per call, trailing newline
// included and carriage returns normalised away.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

type Reader struct {
	Output io.Writer

	reader *bufio.Reader
}

func NewReader(r io.Reader) *Reader {
	return &Reader{reader: bufio.NewReader(r)}
}

func (r *Reader) ReadLine(prompt string) (string, error) {
	if prompt != "" && r.Output != nil {
		fmt.Fprint(r.Output, prompt)
	}

	line, err := r.reader.ReadString('\n')

	if err == io.EOF && len(line) > 0 {
		err = nil
	}

	if err != nil {
		return "", err
	}

	return strings.ReplaceAll(line, "\r\n", "\n"), nil
}

// Terminal reads lines with editing and history when stdin is a tty.
// Ctrl-C surfaces as ErrInterrupt.
type Terminal struct {
	state *liner.State
}

func NewTerminal() *Terminal {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	return &Terminal{state: state}
}

func (t *Terminal) ReadLine(prompt string) (string, error) {
	line, err := t.state.Prompt(prompt)

	if err == liner.ErrPromptAborted {
		return "", ErrInterrupt
	} else if err != nil {
		return "", err
	}

	if strings.TrimSpace(line) != "" {
		t.state.AppendHistory(line)
	}

	return line + "\n", nil
}

func (t *Terminal) Close() error {
	return t.state.Close()
}
