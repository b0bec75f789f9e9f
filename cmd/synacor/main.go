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
	"bufio"
	"errors"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"gopkg.in/urfave/cli.v1"

	"github.com/lassandro/gosynacor/pkg/config"
	"github.com/lassandro/gosynacor/pkg/console"
	"github.com/lassandro/gosynacor/pkg/machine"
	"github.com/lassandro/gosynacor/pkg/runner"
)

var app = cli.NewApp()

func init() {
	exe, _ := os.Executable()
	log.SetFlags(0)
	log.SetPrefix(fmt.Sprintf("%s: ", filepath.Base(exe)))
	log.SetOutput(os.Stderr)
}

func init() {
	app.Name = "synacor"
	app.Usage = "run a Synacor program image"
	app.ArgsUsage = "<program.bin>"
	app.HideVersion = true
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "TOML configuration file",
		},
		cli.StringFlag{
			Name:  "save, s",
			Usage: "Text replayed as console input before the first read",
		},
		cli.StringFlag{
			Name:  "record, r",
			Usage: "Appends every console line given to the machine to a file",
		},
		cli.StringFlag{
			Name:  "trace, t",
			Usage: "Writes a disassembly of every executed instruction to a file",
		},
		cli.StringFlag{
			Name:  "sentinel",
			Usage: "Console line that breaks into the debugger (default \"debug\")",
		},
		cli.BoolFlag{
			Name:  "debug, d",
			Usage: "Enters the debugger before the first instruction",
		},
		cli.BoolFlag{
			Name:  "no-color",
			Usage: "Disables colored debugger output",
		},
	}
	app.Action = synacor
}

func loadConfig(ctx *cli.Context) (config.Config, error) {
	cfg := config.Default()

	if path := ctx.String("config"); path != "" {
		var err error

		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}

	if ctx.IsSet("save") {
		cfg.Save = ctx.String("save")
	}

	if ctx.IsSet("record") {
		cfg.Record = ctx.String("record")
	}

	if ctx.IsSet("trace") {
		cfg.Trace = ctx.String("trace")
	}

	if ctx.IsSet("sentinel") {
		cfg.Sentinel = ctx.String("sentinel")
	}

	if ctx.Bool("no-color") {
		cfg.Color = config.COLOR_NEVER
	}

	switch ctx.NArg() {
	case 0:
	case 1:
		cfg.Program = ctx.Args().First()
	default:
		return cfg, errors.New("Expected a single program image")
	}

	if cfg.Program == "" {
		return cfg, errors.New("No program image given")
	}

	return cfg, nil
}

func synacor(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)

	if err != nil {
		return err
	}

	switch cfg.Color {
	case config.COLOR_NEVER:
		color.NoColor = true
	case config.COLOR_ALWAYS:
		color.NoColor = false
	}

	file, err := os.Open(cfg.Program)

	if err != nil {
		return err
	}

	defer file.Close()

	var mc machine.Machine

	if err := mc.LoadBin(file); err != nil {
		return fmt.Errorf("%s: %w", cfg.Program, err)
	}

	var save []byte

	if cfg.Save != "" {
		if save, err = ioutil.ReadFile(cfg.Save); err != nil {
			return err
		}
	}

	breakpoints, err := cfg.Breakpoints()

	if err != nil {
		return err
	}

	var lines console.LineReader

	if console.IsTerminal(os.Stdin) {
		term := console.NewTerminal()
		defer term.Close()
		lines = term
	} else {
		lines = console.NewReader(os.Stdin)
	}

	r := runner.NewRunner(&mc, lines)
	r.Queue.Sentinel = cfg.Sentinel
	r.Queue.Preload(string(save))
	mc.Display = os.Stdout

	for _, addr := range breakpoints {
		r.Debugger.AddBreakpoint(addr)
	}

	if cfg.Trace != "" {
		file, err := os.Create(cfg.Trace)

		if err != nil {
			return err
		}

		defer file.Close()

		trace := bufio.NewWriter(file)
		defer trace.Flush()
		mc.Trace = trace
	}

	if cfg.Record != "" {
		file, err := os.OpenFile(
			cfg.Record, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666,
		)

		if err != nil {
			return err
		}

		defer file.Close()
		r.Record = file
	}

	if ctx.Bool("debug") {
		r.Queue.Interrupt()
	}

	if err := r.Run(); err != nil {
		var fault *machine.Fault

		if errors.As(err, &fault) {
			text, _ := machine.Disassemble(&mc.State, fault.PC)
			log.Printf("%5d: %s", fault.PC, text)
		}

		return err
	}

	return nil
}

func main() {
	if err := app.Run(os.Args); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
