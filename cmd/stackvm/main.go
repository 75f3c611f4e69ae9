// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"log"
	"os"

	"github.com/ezrec/stackvm/config"
	"github.com/ezrec/stackvm/cpu"
	"github.com/ezrec/stackvm/emulator"
	"github.com/ezrec/stackvm/image"
	"github.com/ezrec/stackvm/translate"
)

func main() {
	var configFile string
	var compile string
	var execute string
	var save string
	var debug bool
	var strict bool
	var storage string
	var verbose bool

	flag.StringVar(&configFile, "config", "", "stackvm.toml file to use (default: search upwards)")
	flag.StringVar(&compile, "c", "", ".asm file to compile")
	flag.StringVar(&execute, "x", "", "image file to execute")
	flag.StringVar(&save, "s", "", "Save compiled image to file, do not execute")
	flag.BoolVar(&debug, "d", false, "Debug mode")
	flag.BoolVar(&strict, "strict", false, "Unknown opcodes are fatal")
	flag.StringVar(&storage, "storage", "", "Secondary storage file")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if (len(compile) == 0) == (len(execute) == 0) {
		log.Fatalf("%v: exactly one of -c or -x is required", os.Args[0])
	}

	var cfg *config.Config
	var err error
	if len(configFile) != 0 {
		cfg, err = config.Load(configFile)
	} else {
		cfg, err = config.Find(".")
	}
	if err != nil {
		log.Fatal(err)
	}
	if cfg == nil {
		cfg = &config.Config{}
	}

	// Command line flags override the configuration file.
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "d":
			if debug {
				cfg.Mode = cpu.MODE_DEBUG.String()
			} else {
				cfg.Mode = cpu.MODE_EXECUTE.String()
			}
		case "strict":
			cfg.Strict = strict
		case "storage":
			cfg.Storage = storage
		case "v":
			cfg.Verbose = verbose
		}
	})

	if len(cfg.Language) != 0 {
		translate.SetLocales(cfg.Language)
	}

	prog := &cpu.Program{}

	// Compile a new instruction stream.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: cfg.Verbose}
		prog, err = asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		for _, diag := range asm.Errors {
			log.Printf("%v: %v", compile, diag)
		}
	}

	// Load a saved image.
	if len(execute) != 0 {
		inf, err := os.Open(execute)
		if err != nil {
			log.Fatalf("%v: %v", execute, err)
		}
		defer inf.Close()

		img, err := image.Load(inf)
		if err != nil {
			log.Fatalf("%v: %v", execute, err)
		}
		prog = img.Program()
	}

	if len(save) != 0 {
		ouf, err := os.Create(save)
		if err != nil {
			log.Fatalf("%v: %v", save, err)
		}
		err = image.FromProgram(prog).Save(ouf)
		if err == nil {
			err = ouf.Close()
		}
		if err != nil {
			log.Fatalf("%v: %v", save, err)
		}
		return
	}

	emu := emulator.NewEmulator(cfg.CpuMode())
	emu.Verbose = cfg.Verbose
	emu.Cpu.Strict = cfg.Strict
	emu.Terminal.Input = os.Stdin
	emu.Terminal.Output = os.Stdout

	if len(cfg.Storage) != 0 {
		file, err := os.OpenFile(cfg.Storage, os.O_RDWR, 0)
		if err != nil {
			log.Fatalf("%v: %v", cfg.Storage, err)
		}
		defer file.Close()
		emu.Storage.File = file
	}

	err = emu.Load(prog)
	if err != nil {
		log.Fatal(err)
	}

	stop, err := emu.Run()
	if err != nil {
		log.Print(err)
		os.Exit(1)
	}

	if cfg.Verbose {
		log.Printf("stop: %v", stop)
	}
}
