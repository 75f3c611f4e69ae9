package emulator

import (
	"github.com/ezrec/stackvm/translate"
)

var f = translate.From

// ErrRuntime indicates the source location of a runtime error.
type ErrRuntime struct {
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return err.Err.Error()
	}
	return f("line %v %v", translate.Plain(err.LineNo, err.Err)...)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
