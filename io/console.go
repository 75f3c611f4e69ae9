package io

import (
	"bufio"
	"io"
	"strings"
)

// Terminal is a Console over an input reader and an output writer.
// A nil Output discards, a nil Input reads as end of file.
type Terminal struct {
	Input  io.Reader
	Output io.Writer

	reader *bufio.Reader
}

var _ Console = (*Terminal)(nil)

// Rewind drops any buffered input.
func (tc *Terminal) Rewind() {
	tc.reader = nil
}

// Prompt writes the prompt, then reads the next input line.
// At end of input the line is empty and no error is returned.
func (tc *Terminal) Prompt(prompt string) (line string, err error) {
	if len(prompt) != 0 {
		_, err = tc.Write([]byte(prompt))
		if err != nil {
			return
		}
	}

	if tc.Input == nil {
		return
	}

	if tc.reader == nil {
		tc.reader = bufio.NewReader(tc.Input)
	}

	line, err = tc.reader.ReadString('\n')
	if err == io.EOF {
		err = nil
	}

	line = strings.TrimSpace(line)

	return
}

// Write writes text to the output.
func (tc *Terminal) Write(p []byte) (n int, err error) {
	if tc.Output == nil {
		n = len(p)
		return
	}

	return tc.Output.Write(p)
}
