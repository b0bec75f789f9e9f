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

// Package input buffers console text for the in opcode and recognises the
// line that breaks into the inspector.
package input

import "strings"

const DEFAULT_SENTINEL = "debug"

type Queue struct {
	Sentinel string

	pending   []uint16
	interrupt bool
}

func NewQueue() *Queue {
	return &Queue{Sentinel: DEFAULT_SENTINEL}
}

func normalize(text string) string {
	return strings.ReplaceAll(text, "\r\n", "\n")
}

func (q *Queue) push(text string) {
	for i := 0; i < len(text); i++ {
		q.pending = append(q.pending, uint16(text[i]))
	}
}

// Next pops the oldest buffered word. It reports false once the queue is
// dry; the caller is expected to Feed it another line.
func (q *Queue) Next() (uint16, bool) {
	if len(q.pending) == 0 {
		return 0, false
	}

	word := q.pending[0]
	q.pending = q.pending[1:]
	return word, true
}

// Feed appends one console line, newline included. A line that is the
// sentinel raises the interrupt flag instead and reports false.
func (q *Queue) Feed(line string) bool {
	line = normalize(line)

	if q.Sentinel != "" && strings.TrimSpace(line) == q.Sentinel {
		q.interrupt = true
		return false
	}

	q.push(line)
	return true
}

// Preload queues saved text verbatim, as though it had been typed. The
// sentinel is not recognised here.
func (q *Queue) Preload(text string) {
	q.push(normalize(text))
}

func (q *Queue) Len() int {
	return len(q.pending)
}

func (q *Queue) Interrupted() bool {
	return q.interrupt
}

func (q *Queue) Interrupt() {
	q.interrupt = true
}

func (q *Queue) ClearInterrupt() {
	q.interrupt = false
}
