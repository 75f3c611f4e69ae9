// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ezrec/stackvm/io"
	"github.com/ezrec/stackvm/translate"
)

// Console is the operator terminal used by input and output.
type Console io.Console

// Storage is the line-addressed secondary storage used by read and write.
type Storage io.LineStorage

// Debugger is invoked after each executed instruction in debug mode.
type Debugger interface {
	Inspect(cpu *Cpu) error
}

// Mode is the execution mode, fixed for the lifetime of the Cpu.
type Mode int

const (
	MODE_EXECUTE = Mode(0) // Silent execution.
	MODE_DEBUG   = Mode(1) // Narrated execution with step inspection.
)

func (mode Mode) String() string {
	switch mode {
	case MODE_EXECUTE:
		return "execute"
	case MODE_DEBUG:
		return "debug"
	}
	return fmt.Sprintf("Mode(%d)", int(mode))
}

// ParseMode converts a mode name to a Mode.
func ParseMode(name string) (mode Mode, err error) {
	switch strings.ToLower(name) {
	case "", "execute", "exec":
		mode = MODE_EXECUTE
	case "debug":
		mode = MODE_DEBUG
	default:
		err = fmt.Errorf("%w: %q", ErrModeInvalid, name)
	}
	return
}

// Cpu is the simulation context of the stack machine.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.
	Strict  bool // Set to make unknown opcodes fatal instead of skipped.
	mode    Mode

	Memory Memory // Shared program and data memory.
	Stack  Stack  // Operand stack.
	Pc     int    // Program counter.
	Output []rune // Characters output in debug mode.
	Ticks  int    // Executed instruction counter.

	Console  Console  // Operator terminal.
	Storage  Storage  // Secondary storage, may be nil.
	Debugger Debugger // Step inspector, used in debug mode only.
}

// NewCpu creates a new CPU in the requested mode.
func NewCpu(mode Mode) (cpu *Cpu) {
	cpu = &Cpu{
		mode: mode,
	}

	return
}

// Mode returns the execution mode.
func (cpu *Cpu) Mode() Mode {
	return cpu.mode
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 6s: %03d\n", "pc", cpu.Pc)
	op := "---"
	if cpu.Memory.InRange(int32(cpu.Pc)) {
		op = Opcode(cpu.Memory.Cell[cpu.Pc]).String()
	}
	text += fmt.Sprintf("% 6s: %v\n", "op", op)
	text += fmt.Sprintf("% 6s: %v\n", "stack", cpu.Stack.Data)
	text += fmt.Sprintf("% 6s: %d\n", "ticks", cpu.Ticks)

	return
}

// Reset clears the stack, output log and counters, and sets the pc to 0.
// Memory is left untouched.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Stack.Reset()
	cpu.Pc = 0
	cpu.Output = nil
	cpu.Ticks = 0
}

// Load copies an image into zeroed memory and resets the CPU.
func (cpu *Cpu) Load(image []int32) (err error) {
	err = cpu.Memory.Reset(image)
	if err != nil {
		return
	}

	cpu.Reset()

	if cpu.Verbose {
		log.Printf("cpu: loaded %d words", len(image))
	}

	return
}

// narrate prints execution commentary in debug mode.
func (cpu *Cpu) narrate(format string, args ...any) {
	if cpu.mode != MODE_DEBUG || cpu.Console == nil {
		return
	}

	translate.Fprintf(cpu.Console, format+"\n", translate.Plain(args...)...)
}

// pop removes count values from the stack; values[0] is the deepest.
// The stack is unchanged on error.
func (cpu *Cpu) pop(count int) (values []int32, err error) {
	values, ok := cpu.Stack.PopN(count)
	if !ok {
		err = ErrStackEmpty
	}

	return
}

// prompt reads a line of input from the console.
func (cpu *Cpu) prompt() (line string, err error) {
	if cpu.Console == nil {
		err = ErrConsoleMissing
		return
	}

	prompt := "> "
	if cpu.mode == MODE_DEBUG {
		prompt = "[input]> "
	}

	return cpu.Console.Prompt(prompt)
}

// parseValue parses a decimal integer, defaulting to 0.
func parseValue(text string) int32 {
	value, err := strconv.ParseInt(strings.TrimSpace(text), 10, 32)
	if err != nil {
		return 0
	}

	return int32(value)
}

func boolValue(cond bool) int32 {
	if cond {
		return 1
	}
	return 0
}

// Tick executes a single fetch-decode-execute step.
// Returns ErrPcEnd when the pc runs off the end of memory, and ErrHalt
// or ErrDebugExit when execution was terminated.
func (cpu *Cpu) Tick() (err error) {
	if cpu.Pc < 0 || cpu.Pc >= len(cpu.Memory.Cell) {
		err = ErrPcEnd
		return
	}

	op := Opcode(cpu.Memory.Cell[cpu.Pc])

	cpu.narrate("program address %v: executing %v", cpu.Pc, fmt.Sprintf("%08b", int32(op)))

	if !op.Valid() {
		if cpu.Strict {
			err = &ErrExecute{Pc: cpu.Pc, Op: op, Err: ErrOpcodeInvalid}
			return
		}
		if cpu.Verbose {
			log.Printf("%03d: skip %v", cpu.Pc, op)
		}
		cpu.Pc++
		return
	}

	err = cpu.Execute(op)
	if err != nil {
		return
	}

	cpu.Ticks++

	if cpu.mode == MODE_DEBUG && cpu.Debugger != nil {
		err = cpu.Debugger.Inspect(cpu)
	}

	return
}

// Execute executes a single decoded instruction at the current pc.
func (cpu *Cpu) Execute(op Opcode) (err error) {
	pc := cpu.Pc
	next_pc := pc + op.Size()

	var args []int32
	defer func() {
		if err != nil && !errors.Is(err, ErrHalt) {
			err = &ErrExecute{Pc: pc, Op: op, Operands: args, Err: err}
		}
	}()

	if cpu.Verbose {
		log.Printf("%03d: %v %v", pc, op, cpu.Stack.Data)
	}

	args, err = cpu.pop(op.Pops())
	if err != nil {
		return
	}

	var a, b int32
	switch len(args) {
	case 1:
		a = args[0]
	case 2:
		a, b = args[0], args[1]
	}

	switch op {
	case OP_ADD:
		cpu.narrate("add %v and %v", a, b)
		cpu.Stack.Push(a + b)
	case OP_SUB:
		cpu.narrate("subtract %v from %v", b, a)
		cpu.Stack.Push(a - b)
	case OP_MUL:
		cpu.narrate("multiply %v by %v", a, b)
		cpu.Stack.Push(a * b)
	case OP_DIV:
		cpu.narrate("divide %v by %v", a, b)
		if b == 0 {
			err = ErrDivideByZero
			return
		}
		cpu.Stack.Push(a / b)
	case OP_MOD:
		cpu.narrate("remainder of %v divided by %v", a, b)
		if b == 0 {
			err = ErrDivideByZero
			return
		}
		cpu.Stack.Push(a % b)
	case OP_PUSH:
		var imm int32
		imm, err = cpu.Memory.Load(int32(pc + 1))
		if err != nil {
			return
		}
		cpu.narrate("push %v onto the stack", imm)
		cpu.Stack.Push(imm)
	case OP_POP:
		cpu.narrate("remove %v from the stack", a)
	case OP_EQUAL:
		cpu.narrate("test whether %v equals %v", a, b)
		cpu.pushCondition(a == b)
	case OP_LESS:
		cpu.narrate("test whether %v is less than %v", a, b)
		cpu.pushCondition(a < b)
	case OP_AND:
		cpu.narrate("test whether both %v and %v are true", a, b)
		cpu.pushCondition(a != 0 && b != 0)
	case OP_OR:
		cpu.narrate("test whether either %v or %v is true", a, b)
		cpu.pushCondition(a != 0 || b != 0)
	case OP_NOT:
		cpu.narrate("complement %v", a)
		cpu.Stack.Push(^a)
	case OP_JUMP:
		target, cond := a, b
		if cond != 0 {
			cpu.narrate("value is not 0, not jumping")
			break
		}
		if !cpu.Memory.InRange(target) {
			err = ErrAddressRange
			return
		}
		cpu.narrate("value is 0, jumping to address %v", target)
		next_pc = int(target)
	case OP_LOAD:
		cpu.narrate("load memory %v", a)
		var value int32
		value, err = cpu.Memory.Load(a)
		if err != nil {
			return
		}
		cpu.Stack.Push(value)
	case OP_STORE:
		value, index := a, b
		cpu.narrate("store %v into memory %v", value, index)
		err = cpu.Memory.Store(index, value)
		if err != nil {
			return
		}
	case OP_INPUT:
		cpu.narrate("accepting input")
		var line string
		line, err = cpu.prompt()
		if err != nil {
			return
		}
		cpu.Stack.Push(parseValue(line))
	case OP_OUTPUT:
		cpu.narrate("output %v as a character", a)
		err = cpu.output(a)
		if err != nil {
			return
		}
	case OP_READ:
		line := a
		cpu.narrate("read storage line %v", line)
		if cpu.Storage == nil {
			err = ErrStorageMissing
			return
		}
		var text string
		text, err = cpu.Storage.ReadLine(int(line))
		if err != nil {
			return
		}
		cpu.Stack.Push(parseValue(text))
	case OP_WRITE:
		value, line := a, b
		cpu.narrate("write %v to storage line %v", value, line)
		if cpu.Storage == nil {
			err = ErrStorageMissing
			return
		}
		err = cpu.Storage.WriteLine(int(line), strconv.FormatInt(int64(value), 10))
		if err != nil {
			return
		}
	case OP_HALT:
		cpu.narrate("halting the program")
		err = ErrHalt
		return
	default:
		err = ErrOpcodeInvalid
		return
	}

	cpu.Pc = next_pc

	return
}

// pushCondition pushes 1 for true, 0 for false.
func (cpu *Cpu) pushCondition(cond bool) {
	if cond {
		cpu.narrate("condition holds, pushing 1")
	} else {
		cpu.narrate("condition fails, pushing 0")
	}
	cpu.Stack.Push(boolValue(cond))
}

// output emits a value as a character. In debug mode the character
// is also appended to the output log.
func (cpu *Cpu) output(value int32) (err error) {
	if value < 0 || !utf8.ValidRune(rune(value)) {
		err = ErrOutputInvalid
		return
	}

	if cpu.Console == nil {
		err = ErrConsoleMissing
		return
	}

	ch := rune(value)
	if cpu.mode == MODE_DEBUG {
		translate.Fprintf(cpu.Console, "[output]: %c\n", ch)
		cpu.Output = append(cpu.Output, ch)
		return
	}

	_, err = cpu.Console.Write([]byte(string(ch)))

	return
}
