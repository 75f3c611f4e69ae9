package cpu

import (
	"strings"
)

// Opcode is the numeric instruction code held in a memory cell.
type Opcode int32

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_ADD    = Opcode(0)  // add
	OP_SUB    = Opcode(1)  // sub
	OP_MUL    = Opcode(2)  // mul
	OP_DIV    = Opcode(3)  // div
	OP_MOD    = Opcode(4)  // mod
	OP_PUSH   = Opcode(5)  // push
	OP_POP    = Opcode(6)  // pop
	OP_EQUAL  = Opcode(7)  // equal
	OP_LESS   = Opcode(8)  // lessthan
	OP_AND    = Opcode(9)  // and
	OP_OR     = Opcode(10) // or
	OP_NOT    = Opcode(11) // not
	OP_JUMP   = Opcode(12) // jump
	OP_LOAD   = Opcode(13) // load
	OP_STORE  = Opcode(14) // store
	OP_INPUT  = Opcode(15) // input
	OP_OUTPUT = Opcode(16) // output
	OP_READ   = Opcode(17) // read
	OP_WRITE  = Opcode(18) // write
	OP_HALT   = Opcode(19) // halt

	OP_COUNT = 20 // Number of defined opcodes.
)

// Valid returns true if the opcode is in the instruction table.
func (op Opcode) Valid() bool {
	return op >= 0 && op < OP_COUNT
}

// Size returns the number of memory words the instruction occupies.
func (op Opcode) Size() int {
	if op == OP_PUSH {
		return 2
	}

	return 1
}

// Pops returns the number of stack values the instruction consumes.
func (op Opcode) Pops() int {
	switch op {
	case OP_PUSH, OP_INPUT, OP_HALT:
		return 0
	case OP_POP, OP_NOT, OP_LOAD, OP_OUTPUT, OP_READ:
		return 1
	default:
		if !op.Valid() {
			return 0
		}
		return 2
	}
}

// mnemonicMap maps lower case assembly mnemonics, including aliases, to opcodes.
var mnemonicMap = func() map[string]Opcode {
	mm := map[string]Opcode{
		"jumpifzero": OP_JUMP,
		"jz":         OP_JUMP,
		"lt":         OP_LESS,
		"eq":         OP_EQUAL,
	}
	for op := Opcode(0); op < OP_COUNT; op++ {
		mm[op.String()] = op
	}
	return mm
}()

// LookupMnemonic finds the opcode for a case-insensitive mnemonic.
func LookupMnemonic(word string) (op Opcode, ok bool) {
	op, ok = mnemonicMap[strings.ToLower(word)]
	return
}
