package emulator

import (
	"fmt"
	"strings"

	"github.com/ezrec/stackvm/cpu"
	"github.com/ezrec/stackvm/io"
	"github.com/ezrec/stackvm/translate"
)

// Inspector is the interactive debug menu run after every instruction
// in debug mode. It only reports on the CPU; it never changes it.
type Inspector struct {
	Console io.Console
}

var _ cpu.Debugger = (*Inspector)(nil)

func (in *Inspector) printf(format string, args ...any) {
	translate.Fprintf(in.Console, format, args...)
}

// Inspect prompts until the operator resumes or exits.
// Exiting returns cpu.ErrDebugExit.
func (in *Inspector) Inspect(cp *cpu.Cpu) (err error) {
	if in.Console == nil {
		return
	}

	for {
		var menu string
		menu, err = in.Console.Prompt(f("debug>>> "))
		if err != nil {
			return
		}

		switch {
		case strings.Contains(menu, "s"):
			in.printf("stack %v\n", fmt.Sprint(cp.Stack.Data))
		case strings.Contains(menu, "m"):
			in.printf("+-- memory\n")
			for addr, value := range cp.Memory.NonZero() {
				fmt.Fprintf(in.Console, "| %03d : %d\n", addr, value)
			}
		case strings.Contains(menu, "o"):
			in.printf("+-- output\n")
			for _, line := range strings.Split(string(cp.Output), "\n") {
				fmt.Fprintf(in.Console, "| %s\n", line)
			}
		case strings.Contains(menu, "exit"):
			_, err = in.Console.Prompt(f("leaving the debugger"))
			if err != nil {
				return
			}
			err = cpu.ErrDebugExit
			return
		default:
			in.printf("continuing\n")
			return
		}
	}
}
