package cpu

import (
	"iter"
)

// Line is a line of assembled source with the words it generated.
type Line struct {
	LineNo int      // Source line number, 1-based.
	Pc     int      // Memory address of the first generated word.
	Words  []string // Source words, after comment stripping.
	Codes  []int32  // Generated memory words.
}

type Program struct {
	Lines []Line
}

type Debug struct {
	*Line
	Index int
}

// Debug finds the source line that generated the word at pc.
// The Line is nil if pc is outside the assembled program.
func (prog *Program) Debug(pc int) (dbg Debug) {
	for n, line := range prog.Lines {
		if pc >= line.Pc && pc < line.Pc+len(line.Codes) {
			dbg = Debug{
				Line:  &prog.Lines[n],
				Index: pc - line.Pc,
			}
			break
		}
	}

	return
}

// Binary flattens the program into a memory image.
func (prog *Program) Binary() (bins []int32) {
	for _, code := range prog.Codes() {
		bins = append(bins, code)
	}

	return
}

// Codes iterates over every generated word with its address.
func (prog *Program) Codes() iter.Seq2[int, int32] {
	return func(yield func(pc int, code int32) bool) {
		for _, line := range prog.Lines {
			for n, code := range line.Codes {
				if !yield(line.Pc+n, code) {
					return
				}
			}
		}
	}
}
