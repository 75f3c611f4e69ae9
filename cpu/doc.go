// Package cpu implements the stack machine and its assembler.
//
// The machine has a single 512 word memory shared by program and data,
// an unbounded operand stack of 32-bit integers, and a program counter.
// There are twenty opcodes; push is the only one with an inline operand.
// Input and output go through a Console, and read and write address a
// line-oriented secondary Storage.
//
// The assembler translates one mnemonic per source line, with push
// operands given as integers, character literals, or compile-time
// $(...) expressions.
package cpu
