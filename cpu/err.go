package cpu

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ezrec/stackvm/translate"
)

var f = translate.From

var (
	// Cpu termination
	ErrPcEnd     = errors.New(f("pc past end of memory"))
	ErrHalt      = errors.New(f("halt"))
	ErrDebugExit = errors.New(f("debug exit"))

	// Cpu errors
	ErrStackEmpty     = errors.New(f("stack empty"))
	ErrDivideByZero   = errors.New(f("divide by zero"))
	ErrAddressRange   = errors.New(f("address out of range"))
	ErrOutputInvalid  = errors.New(f("output value is not a character"))
	ErrStorageMissing = errors.New(f("no storage attached"))
	ErrConsoleMissing = errors.New(f("no console attached"))
	ErrImageTooLarge  = errors.New(f("image exceeds memory"))
	ErrOpcodeInvalid  = errors.New(f("opcode invalid"))
	ErrModeInvalid    = errors.New(f("mode invalid"))

	// Assembler errors
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
)

// ErrExecute is a fatal execution error, with the failing
// instruction, its program counter, and any operands popped.
type ErrExecute struct {
	Pc       int
	Op       Opcode
	Operands []int32
	Err      error
}

func (err *ErrExecute) Error() string {
	if len(err.Operands) == 0 {
		return f("pc %v %v: %v", translate.Plain(err.Pc, err.Op, err.Err)...)
	}

	args := make([]string, len(err.Operands))
	for n, arg := range err.Operands {
		args[n] = fmt.Sprintf("%d", arg)
	}

	return f("pc %v %v [%v]: %v", translate.Plain(err.Pc, err.Op, strings.Join(args, " "), err.Err)...)
}

func (err *ErrExecute) Unwrap() error {
	return err.Err
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %v '%v' %v", translate.Plain(err.LineNo, err.Line, err.Err)...)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseCharacter string

func (err ErrParseCharacter) Error() string {
	return f("'%v' is not a character", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
