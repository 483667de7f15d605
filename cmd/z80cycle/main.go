// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/ezrec/z80cycle/cpu"
	"github.com/ezrec/z80cycle/emulator"
	"github.com/ezrec/z80cycle/translate"
)

// parseDump parses an addr:count data memory window.
func parseDump(text string) (addr uint32, count int, err error) {
	addrText, countText, ok := strings.Cut(text, ":")
	if !ok {
		countText = "64"
	}

	value, err := strconv.ParseUint(addrText, 0, 32)
	if err != nil {
		return
	}
	addr = uint32(value)

	value, err = strconv.ParseUint(countText, 0, 31)
	if err != nil {
		return
	}
	count = int(value)

	return
}

func main() {
	var compile string
	var binary string
	var org uint
	var start uint
	var until string
	var maxInstructions int
	var dump string
	var lang string
	var verbose bool

	flag.StringVar(&compile, "c", "", ".asm file to compile")
	flag.StringVar(&binary, "b", "", "Binary image to load")
	flag.UintVar(&org, "org", 0, "Load address of the binary image")
	flag.UintVar(&start, "start", 0, "Initial PC")
	flag.StringVar(&until, "until", "", "Stop when this expression is true, ie 'pc == 0x10'")
	flag.IntVar(&maxInstructions, "max", 0, "Stop after this many instructions")
	flag.StringVar(&dump, "dump", "", "Data memory to dump on exit, as addr:count")
	flag.StringVar(&lang, "lang", "", "Message language, ie 'en-US'")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(lang) != 0 {
		err := translate.Use(lang)
		if err != nil {
			log.Fatalf("-lang %v: %v", lang, err)
		}
	}

	if start > 0xffff || org > 0xffff {
		log.Fatalf("%v: -start and -org must be 16-bit addresses", os.Args[0])
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Start = uint16(start)
	emu.MaxInstructions = maxInstructions

	prog := &cpu.Program{}

	// Compile a new instruction stream.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: verbose}
		for key, value := range emu.Defines() {
			asm.Predefine(key, value)
		}
		prog, err = asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	}

	// Load a binary image.
	if len(binary) != 0 {
		data, err := os.ReadFile(binary)
		if err != nil {
			log.Fatalf("%v: %v", binary, err)
		}
		prog.Opcodes = append(prog.Opcodes, cpu.Opcode{
			Addr:  int(org),
			Words: []string{".bin", binary},
			Bytes: data,
		})
	}

	if len(until) != 0 {
		pred, err := emulator.Expression(until)
		if err != nil {
			log.Fatalf("-until: %v", err)
		}
		emu.Until = pred
	}

	var dumpAddr uint32
	var dumpCount int
	if len(dump) != 0 {
		var err error
		dumpAddr, dumpCount, err = parseDump(dump)
		if err != nil {
			log.Fatalf("-dump %v: %v", dump, err)
		}
	}

	emu.Program = prog
	err := emu.Reset()
	if err != nil {
		log.Fatal(err)
	}

	err = emu.Run()
	if err != nil {
		log.Print(emu.Snapshot(dumpAddr, dumpCount).String())
		log.Fatal(err)
	}

	fmt.Print(emu.Snapshot(dumpAddr, dumpCount).String())
}
