// Package io provides the operator console and the line-addressed
// secondary storage used by the stack machine.
package io

// Console is the operator terminal. Input and the debug inspector read
// lines through Prompt; output characters are written with Write.
type Console interface {
	// Prompt displays the prompt, then blocks for a line of input.
	// The returned line has surrounding whitespace removed.
	Prompt(prompt string) (line string, err error)
	// Write emits output text.
	Write(p []byte) (n int, err error)
}

// LineStorage is secondary storage addressed by 1-based line number.
type LineStorage interface {
	// ReadLine returns the text of a line.
	ReadLine(line int) (text string, err error)
	// WriteLine replaces the text of an existing line.
	WriteLine(line int, text string) (err error)
}
