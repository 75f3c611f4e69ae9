// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/stackvm/internal"
)

// Assembler is a single pass, best-effort assembler for the stack machine.
//
// Each source line encodes at most one instruction. Lines that cannot be
// assembled are dropped and reported in Errors; assembly always continues
// with the next line.
type Assembler struct {
	Verbose bool    // If set, verbosely logs the assembler actions.
	Lines   []Line  // List of generated lines.
	Errors  []error // Diagnostics from the last Parse, as ErrSyntax.

	predefine map[string]int32 // Predefined expression names.
}

// Predefine defines a name usable in $(...) expressions.
func (asm *Assembler) Predefine(name string, value int32) {
	if asm.predefine == nil {
		asm.predefine = map[string]int32{name: value}
	} else {
		asm.predefine[name] = value
	}
}

// Defines returns an iterator over the names predeclared in $(...)
// expressions, other than LINENO.
func (asm *Assembler) Defines() iter.Seq2[string, int32] {
	var builtin iter.Seq2[string, int32] = func(yield func(string, int32) bool) {
		if !yield("MEMORY_SIZE", MEMORY_SIZE) {
			return
		}
		for op := Opcode(0); op < OP_COUNT; op++ {
			if !yield(strings.ToUpper(op.String()), int32(op)) {
				return
			}
		}
	}

	return internal.IterSeq2Concat(builtin, maps.All(asm.predefine))
}

// Assemble translates source text to a memory image, returning
// the non-fatal diagnostics alongside it.
func Assemble(source string) (words []int32, diags []error) {
	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(source))
	if err != nil {
		diags = append(asm.Errors, err)
		return
	}

	return prog.Binary(), asm.Errors
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int32, err error) {
	invert := false
	if strings.HasPrefix(word, "~") {
		invert = true
		word = word[1:]
	}
	if strings.HasPrefix(word, "'") {
		// Character quotes should have been expanded into
		// values in parseLine()
		err = ErrParseCharacter(strings.Trim(word, "'"))
		return
	}
	digits := strings.TrimLeft(word, "+-")
	prefix := ""
	if len(digits) > 2 && digits[0] == '0' {
		prefix = strings.ToLower(digits[:2])
	}

	var v64 int64
	switch prefix {
	case "0x", "0o", "0b":
		v64, err = strconv.ParseInt(word, 0, 64)
	default:
		v64, err = strconv.ParseInt(word, 10, 32)
	}
	if err != nil || v64 < math.MinInt32 || v64 > math.MaxInt32 {
		// Hexadecimal may also give the 32-bit pattern, ie 0xffffffff
		if err != nil || prefix != "0x" || v64 < 0 || v64 > math.MaxUint32 {
			err = ErrParseNumber(word)
			return
		}
	}

	value = int32(uint32(v64))

	if invert {
		value = ^value
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string, lineno int) (value int32, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{
		"LINENO": starlark.MakeInt(lineno),
	}
	for key, val := range asm.Defines() {
		pred[key] = starlark.MakeInt(int(val))
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = ErrParseExpression(expr)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok || st_int64 < math.MinInt32 || st_int64 > math.MaxInt32 {
		err = ErrParseExpression(expr)
		return
	}
	value = int32(st_int64)
	return
}

var (
	reCharacter  = regexp.MustCompile(`'\\?[^']'`)
	reExpression = regexp.MustCompile(`\$\([^\$]*\)`)
)

// parseLine expands character literals and $(...) expressions, then
// splits the line into words. An expression that fails to evaluate is
// replaced by 0, and its error returned.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	line = reCharacter.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "t":
				str = "\t"
			case "e":
				str = "\033"
			case "0":
				str = "\000"
			default:
				return word
			}
		}
		ch, size := utf8.DecodeRuneInString(str)
		if size != len(str) || ch == utf8.RuneError {
			return word
		}
		return fmt.Sprintf("%d", ch)
	})

	line = reExpression.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2:len(str)-1], lineno)
		if _err != nil {
			err = _err
			return "0"
		}
		return fmt.Sprintf("%d", value)
	})

	words = strings.Fields(line)

	return
}

// currentPc gets the address of the next generated word.
func (asm *Assembler) currentPc() int {
	if len(asm.Lines) == 0 {
		return 0
	}

	last := asm.Lines[len(asm.Lines)-1]

	return last.Pc + len(last.Codes)
}

// report records a non-fatal diagnostic.
func (asm *Assembler) report(lineno int, line string, err error) {
	err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
	if asm.Verbose {
		log.Printf("asm: %v", err)
	}
	asm.Errors = append(asm.Errors, err)
}

// Parse parses an input stream into a Program. Only a failure to read
// the input is returned as an error; assembly diagnostics are in
// asm.Errors.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	reader := bufio.NewReader(input)

	var lineno int

	asm.Lines = asm.Lines[:0]
	asm.Errors = nil

	for {
		text, rerr := reader.ReadString('\n')
		if rerr == io.EOF && len(text) == 0 {
			break
		}
		if rerr != nil && rerr != io.EOF {
			err = rerr
			return
		}
		text = strings.TrimRight(text, "\r\n")
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line, _, _ := strings.Cut(text, ";")
		line = strings.TrimSpace(line)

		words, perr := asm.parseLine(line, lineno)
		if perr != nil {
			asm.report(lineno, line, perr)
		}

		codes, perr := asm.parseWords(words)
		if perr != nil {
			asm.report(lineno, line, perr)
		}

		if len(codes) == 0 {
			continue
		}

		asm.Lines = append(asm.Lines, Line{
			LineNo: lineno,
			Pc:     asm.currentPc(),
			Words:  words,
			Codes:  codes,
		})
	}

	prog = &Program{
		Lines: append([]Line(nil), asm.Lines...),
	}

	return
}

// immediate parses the single operand of push or .word.
// Missing or unparsable operands yield 0 and an error.
func (asm *Assembler) immediate(args []string) (value int32, err error) {
	if len(args) == 0 {
		err = ErrOpcodeValueMissing
		return
	}

	value, err = asm.valueOf(args[0])
	if err != nil {
		value = 0
		return
	}

	if len(args) > 1 {
		err = ErrOpcodeExtraArgs
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
// Codes may be returned together with a non-fatal error.
func (asm *Assembler) parseWords(words []string) (codes []int32, err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	mnemonic := strings.ToLower(words[0])
	args := words[1:]

	if mnemonic == ".word" {
		var value int32
		value, err = asm.immediate(args)
		codes = []int32{value}
		return
	}

	op, ok := LookupMnemonic(mnemonic)
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	if op == OP_PUSH {
		var value int32
		value, err = asm.immediate(args)
		codes = []int32{int32(op), value}
		return
	}

	codes = []int32{int32(op)}
	if len(args) != 0 {
		err = ErrOpcodeExtraArgs
	}

	return
}
