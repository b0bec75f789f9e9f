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

package encoding

import (
	"encoding/binary"
	"errors"
	"strconv"
	"strings"
)

// Decodes a hexidecimal string in the formats: 0xFFFF, xFFFF, 0xFF, xFF
func DecodeHex(s string) (uint16, error) {
	if i := strings.IndexAny(s, "xX"); i == 0 {
		s = "0" + s
	} else if i == -1 || i != 1 {
		return 0, errors.New("Invalid hex string")
	}

	result, err := strconv.ParseUint(s, 0, 16)

	if err != nil {
		return 0, err
	}

	return uint16(result), nil
}

// Decodes an unsigned base-10 string in the formats: #123, 123
func DecodeInt(s string) (uint16, error) {
	if i := strings.Index(s, "#"); i == 0 {
		s = s[1:]
	}

	result, err := strconv.ParseUint(s, 10, 16)

	if err != nil {
		return 0, err
	}

	return uint16(result), nil
}

// Decodes either of the hex or base-10 formats
func DecodeWord(s string) (uint16, error) {
	if strings.ContainsAny(s, "xX") {
		return DecodeHex(s)
	}

	return DecodeInt(s)
}

// Decodes a quoted character literal such as 'a' or '\n'
func DecodeChar(s string) (uint16, error) {
	if len(s) < 3 || s[0] != '\'' || s[len(s)-1] != '\'' {
		return 0, errors.New("Invalid character literal")
	}

	value, _, tail, err := strconv.UnquoteChar(s[1:len(s)-1], '\'')

	if err != nil {
		return 0, err
	}

	if tail != "" || value > 0xFF {
		return 0, errors.New("Invalid character literal")
	}

	return uint16(value), nil
}

func EncodeWords(words []uint16) []byte {
	result := make([]byte, len(words)*2)

	for i, word := range words {
		binary.LittleEndian.PutUint16(result[i*2:], word)
	}

	return result
}
