// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"log"

	"github.com/ezrec/stackvm/cpu"
	"github.com/ezrec/stackvm/io"
)

// Stop is the reason a run ended.
type Stop int

const (
	STOP_NONE = Stop(iota) // Still running.
	STOP_END               // The pc ran off the end of memory.
	STOP_HALT              // A halt instruction was executed.
	STOP_EXIT              // The operator left the debug inspector.
	STOP_FAULT             // A fatal runtime error occurred.
)

func (stop Stop) String() string {
	switch stop {
	case STOP_NONE:
		return "running"
	case STOP_END:
		return "end"
	case STOP_HALT:
		return "halt"
	case STOP_EXIT:
		return "exit"
	case STOP_FAULT:
		return "fault"
	}
	return "unknown"
}

// Emulator state. CPU + program listing + console and storage.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.

	Terminal  io.Terminal // Operator console.
	Storage   io.Storage  // Secondary storage; unused when Storage.File is nil.
	Inspector Inspector   // Debug mode step inspector.

	stop Stop
}

// NewEmulator creates a new emulator in the requested mode.
func NewEmulator(mode cpu.Mode) (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(mode),
		Program: &cpu.Program{},
	}

	emu.Inspector.Console = &emu.Terminal

	emu.Cpu.Console = &emu.Terminal
	emu.Cpu.Debugger = &emu.Inspector

	return
}

// Load a program listing into memory, and reset the emulator.
func (emu *Emulator) Load(prog *cpu.Program) (err error) {
	emu.Program = prog

	return emu.Reset()
}

// Reset reloads the current program into memory and restarts it.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose
	emu.Storage.Verbose = emu.Verbose

	if emu.Storage.File != nil {
		emu.Cpu.Storage = &emu.Storage
	} else {
		emu.Cpu.Storage = nil
	}

	err = emu.Cpu.Load(emu.Program.Binary())
	if err != nil {
		return
	}

	emu.stop = STOP_NONE

	if emu.Verbose {
		log.Printf("emulator: reset, %d lines, mode %v", len(emu.Program.Lines), emu.Cpu.Mode())
	}

	return
}

// Stop returns the reason the last run ended, or STOP_NONE.
func (emu *Emulator) Stop() Stop {
	return emu.stop
}

// LineNo returns the source line number for the instruction at the pc,
// or 0 if the pc is outside of the program listing.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Line == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single tick of the emulator.
// done is set when the run has ended; err is set on a fatal error.
func (emu *Emulator) Tick() (done bool, err error) {
	if emu.stop != STOP_NONE {
		done = true
		return
	}

	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()

	err = emu.Cpu.Tick()
	switch {
	case err == nil:
		return
	case errors.Is(err, cpu.ErrPcEnd):
		emu.stop = STOP_END
	case errors.Is(err, cpu.ErrHalt):
		emu.stop = STOP_HALT
	case errors.Is(err, cpu.ErrDebugExit):
		emu.stop = STOP_EXIT
	default:
		emu.stop = STOP_FAULT
		done = true
		err = &ErrRuntime{LineNo: lineno, Err: err}
		return
	}

	if emu.Verbose {
		log.Printf("emulator: stop %v after %d ticks", emu.stop, emu.Cpu.Ticks)
	}

	done = true
	err = nil

	return
}

// Run ticks the emulator until the run ends.
func (emu *Emulator) Run() (stop Stop, err error) {
	for done := false; !done; {
		done, err = emu.Tick()
		if err != nil {
			break
		}
	}

	stop = emu.stop

	return
}
