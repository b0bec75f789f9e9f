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

package main

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/urfave/cli.v1"

	"github.com/lassandro/gosynacor/pkg/assembler"
	"github.com/lassandro/gosynacor/pkg/encoding"
)

var app = cli.NewApp()

var (
	bold      = color.New(color.Bold).SprintFunc()
	underline = color.New(color.FgRed).SprintFunc()
)

func init() {
	log.SetFlags(0)
	log.SetOutput(os.Stderr)
}

func init() {
	app.Name = "synacor-asm"
	app.Usage = "assemble Synacor source into a program image"
	app.ArgsUsage = "[filename]"
	app.HideVersion = true
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name: "out, o",
			Usage: "Specifies a precise name for the output file, " +
				"overriding the default means of determining it",
		},
	}
	app.Action = synacorAsm
}

func printErrors(source []byte, errs []error) {
	lines := strings.Split(string(source), "\n")

	for _, err := range errs {
		tokenErr, ok := err.(assembler.TokenError)

		if !ok || tokenErr.GetPosition().Line > len(lines) {
			log.Println(err)
			continue
		}

		cursor := tokenErr.GetPosition()
		line := strings.TrimRight(lines[cursor.Line-1], "\r")

		log.Printf(
			"%s\n%s\n%s",
			err,
			line,
			underline(fmt.Sprintf("%*s", cursor.Column, "^")),
		)
	}
}

// readSource reads the named file when one is given and piped stdin
// otherwise. The returned name is empty for stdin.
func readSource(args []string, stdin *os.File) ([]byte, string, error) {
	switch len(args) {
	case 0:
		stat, err := stdin.Stat()

		if err != nil {
			return nil, "", err
		} else if stat.Mode()&os.ModeCharDevice != 0 {
			return nil, "", fmt.Errorf("usage: %s %s", app.Name, app.ArgsUsage)
		}

		source, err := ioutil.ReadAll(stdin)
		return source, "", err

	case 1:
		filename := filepath.Base(args[0])

		if stat, err := os.Stat(args[0]); err != nil {
			return nil, filename, err
		} else if stat.IsDir() {
			return nil, filename, fmt.Errorf("%s is not a valid assembly file", filename)
		}

		source, err := ioutil.ReadFile(args[0])
		return source, filename, err

	default:
		return nil, "", fmt.Errorf("usage: %s %s", app.Name, app.ArgsUsage)
	}
}

func synacorAsm(ctx *cli.Context) error {
	outfile := ctx.String("out")
	source, filename, err := readSource(ctx.Args(), os.Stdin)

	if err != nil {
		return err
	}

	if filename == "" {
		log.SetPrefix(bold("<stdin>:"))

		if outfile == "" {
			outfile = "out.bin"
		}
	} else {
		log.SetPrefix(bold(filename + ":"))

		if outfile == "" {
			outfile = strings.TrimSuffix(filename, filepath.Ext(filename)) + ".bin"
		}
	}

	result, errs := assembler.Assemble(bytes.NewReader(source))

	if len(errs) > 0 {
		printErrors(source, errs)
		return fmt.Errorf("%d error(s)", len(errs))
	}

	if err := ioutil.WriteFile(outfile, encoding.EncodeWords(result), 0666); err != nil {
		return fmt.Errorf("Error writing output file: %w", err)
	}

	return nil
}

func main() {
	if err := app.Run(os.Args); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
