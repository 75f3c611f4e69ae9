package io

import (
	"bufio"
	"io"
	"log"
	"strings"
)

// StorageFile is an open, seekable file that may be rewritten in place.
// An *os.File opened read-write satisfies it.
type StorageFile interface {
	io.ReadWriteSeeker
	Truncate(size int64) error
	Sync() error
}

// Storage treats a StorageFile as newline-delimited lines, addressed
// from 1. The file is owned by the caller; Storage never opens or
// closes it.
type Storage struct {
	Verbose bool
	File    StorageFile
}

var _ LineStorage = (*Storage)(nil)

// scan seeks to the start and yields lines until yield returns false.
func (st *Storage) scan(yield func(lineno int, text string) bool) (err error) {
	_, err = st.File.Seek(0, io.SeekStart)
	if err != nil {
		return
	}

	reader := bufio.NewReader(st.File)
	for lineno := 1; ; lineno++ {
		var text string
		text, err = reader.ReadString('\n')
		if err == io.EOF {
			err = nil
			if len(text) == 0 {
				return
			}
		} else if err != nil {
			return
		}
		if !yield(lineno, strings.TrimRight(text, "\r\n")) {
			return
		}
	}
}

// Lines returns the number of lines in the file.
func (st *Storage) Lines() (count int, err error) {
	err = st.scan(func(lineno int, text string) bool {
		count = lineno
		return true
	})
	return
}

// ReadLine returns the text of a line.
func (st *Storage) ReadLine(line int) (text string, err error) {
	var count int
	found := false
	err = st.scan(func(lineno int, str string) bool {
		count = lineno
		if lineno == line {
			text = str
			found = true
			return false
		}
		return true
	})
	if err != nil {
		return
	}

	if !found {
		err = ErrStorageLine{Line: line, Lines: count}
		return
	}

	if st.Verbose {
		log.Printf("storage: read %d: %q", line, text)
	}

	return
}

// WriteLine replaces the text of an existing line. The whole file is
// rewritten and synced before returning; the file never grows.
func (st *Storage) WriteLine(line int, text string) (err error) {
	var lines []string
	err = st.scan(func(lineno int, str string) bool {
		lines = append(lines, str)
		return true
	})
	if err != nil {
		return
	}

	if line < 1 || line > len(lines) {
		err = ErrStorageLine{Line: line, Lines: len(lines)}
		return
	}

	lines[line-1] = text

	err = st.File.Truncate(0)
	if err != nil {
		return
	}

	_, err = st.File.Seek(0, io.SeekStart)
	if err != nil {
		return
	}

	out := bufio.NewWriter(st.File)
	for _, str := range lines {
		_, err = out.WriteString(str + "\n")
		if err != nil {
			return
		}
	}

	err = out.Flush()
	if err != nil {
		return
	}

	err = st.File.Sync()
	if err != nil {
		return
	}

	if st.Verbose {
		log.Printf("storage: write %d: %q", line, text)
	}

	return
}
