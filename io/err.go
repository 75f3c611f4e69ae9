package io

import (
	"errors"

	"github.com/ezrec/stackvm/translate"
)

var f = translate.From

var (
	// Storage errors
	ErrStorageRange = errors.New(f("storage line out of range"))
)

// ErrStorageLine indicates a line number outside of the storage file.
type ErrStorageLine struct {
	Line  int // Requested line.
	Lines int // Lines in the file.
}

func (err ErrStorageLine) Error() string {
	return f("storage line %v out of range 1..%v", translate.Plain(err.Line, err.Lines)...)
}

func (err ErrStorageLine) Is(target error) (ok bool) {
	return target == ErrStorageRange
}
