/*
	Copyright 2026 the octavo authors
	This file is part of octavo.
	octavo is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.
	octavo is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.
	You should have received a copy of the GNU General Public License
	along with octavo. If not, see <http://www.gnu.org/licenses/>.
*/

// Package main implements the octavo command line frontend.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroox/octavo/octavo"
	_ "github.com/retroox/octavo/drivers"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

type optionFlags struct {
	input  string
	driver string

	scale   int
	outline bool
	clock   int

	list  bool
	trace bool
	quiet bool
	debug bool
}

func main() {
	ctx := app.Context()
	options := readArguments()
	logger := createLogger(options)

	if !options.quiet {
		printBanner()
	}

	if err := run(ctx, logger, options); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("Interrupted")
			return
		}
		logger.Error("Running failed", log.Err(err))
		os.Exit(1)
	}
}

func readArguments() optionFlags {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	options := optionFlags{}

	flags.StringVar(&options.driver, "driver", "sdl", "frontend driver to use (sdl, ebiten, termloop, null)")
	flags.IntVar(&options.scale, "scale", 0, "window pixels per display pixel (windowed drivers only)")
	flags.BoolVar(&options.outline, "outline", false, "draw a grid outline around pixels (sdl driver only)")
	flags.IntVar(&options.clock, "clock", octavo.DefaultSettings.ClockHz, "instruction execution rate in Hz")
	flags.BoolVar(&options.list, "list", false, "print a disassembly listing of the program and exit")
	flags.BoolVar(&options.trace, "trace", false, "log every executed instruction")
	flags.BoolVar(&options.quiet, "q", false, "perform operations quietly")
	flags.BoolVar(&options.debug, "debug", false, "enable debug logging")

	err := flags.Parse(os.Args[1:])
	args := flags.Args()

	if err != nil || len(args) != 1 {
		printBanner()
		fmt.Printf("usage: octavo [options] <program file>\n\n")
		flags.PrintDefaults()
		os.Exit(1)
	}
	options.input = args[0]

	return options
}

func createLogger(options optionFlags) *log.Logger {
	cfg := log.DefaultConfig()
	if options.debug || options.trace {
		cfg.Level = log.DebugLevel
	} else if options.quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

func printBanner() {
	fmt.Println("[--------------------------------]")
	fmt.Println("[ octavo - CHIP-8 virtual machine ]")
	fmt.Printf("[--------------------------------]\n\n")
	fmt.Printf("version: %s\n\n", buildinfo.Version(version, commit, date))
}

func run(ctx context.Context, logger *log.Logger, options optionFlags) error {
	settings := *octavo.DefaultSettings
	settings.ClockHz = options.clock

	m, err := octavo.New(options.driver, &settings)
	if err != nil {
		return err
	}

	if options.scale > 0 {
		if err := m.SetDriverData("scale", options.scale); err != nil {
			return fmt.Errorf("setting scale: %w", err)
		}
	}
	if options.outline {
		if err := m.SetDriverData("outline", true); err != nil {
			return fmt.Errorf("setting outline: %w", err)
		}
	}

	progSize, err := m.Load(options.input)
	if err != nil {
		return fmt.Errorf("loading program '%s': %w", options.input, err)
	}
	logger.Debug("Program loaded",
		log.String("file", options.input),
		log.Int("size", progSize))

	if options.list {
		return listProgram(m, progSize)
	}

	if options.trace {
		m.Trace = func(pc, opcode uint16, asm string) {
			logger.Debug(fmt.Sprintf("%04X  %04X  %s", pc, opcode, asm))
		}
	}

	return m.Start(ctx)
}

// listProgram prints a disassembly listing of the loaded program to
// stdout, one 16-bit word per line with its pseudo-asm rendering, the
// printable ASCII of raw data words and a description of the operation.
func listProgram(m *octavo.Machine, progSize int) error {
	w := new(tabwriter.Writer)
	w.Init(os.Stdout, 8, 8, 0, '\t', 0)
	fmt.Fprintln(w, "addr\topcode\tpseudo-code\tascii\tdescription\t")

	for offset := 0; offset+1 < progSize; offset += 2 {
		address := octavo.Entry + offset
		opcode := uint16(m.Memory[address])<<8 | uint16(m.Memory[address+1])

		asciitext := ""
		if ascii := octavo.ASCII(opcode); ascii != "" {
			asciitext = fmt.Sprintf("`%s`", ascii)
		}

		fmt.Fprintf(w, "%04X\t%04X\t%v\t%s\t%s\n",
			address, opcode,
			octavo.Disassemble(opcode), asciitext, octavo.Describe(opcode))
	}

	// odd-sized programs end on a lone data byte
	if progSize%2 != 0 {
		address := octavo.Entry + progSize - 1
		fmt.Fprintf(w, "%04X\t%02X\t%s\t\t%s\n",
			address, m.Memory[address],
			fmt.Sprintf("DB %02X", m.Memory[address]), "Unknown / Raw Data")
	}

	return w.Flush()
}
