package cpu

import (
	"errors"
	"testing"
)

func FuzzCpu(f *testing.F) {
	f.Add(int32(OP_ADD), int32(1), int32(2))
	f.Add(int32(OP_DIV), int32(1), int32(0))
	f.Add(int32(OP_JUMP), int32(-1), int32(0))
	f.Add(int32(OP_STORE), int32(0), int32(MEMORY_SIZE))
	f.Add(int32(99), int32(0), int32(0))

	f.Fuzz(func(t *testing.T, op int32, a int32, b int32) {
		cpu := NewCpu(MODE_EXECUTE)
		cpu.Storage = memStorage{"0", "0", "0", "0"}

		err := cpu.Load([]int32{int32(OP_PUSH), a, int32(OP_PUSH), b, op, int32(OP_HALT)})
		if err != nil {
			t.Fatal(err)
		}

		for range tickLimit {
			err = cpu.Tick()
			if err != nil {
				break
			}
		}

		switch {
		case err == nil:
		case errors.Is(err, ErrHalt), errors.Is(err, ErrPcEnd):
		default:
			var eerr *ErrExecute
			if !errors.As(err, &eerr) {
				t.Errorf("unexpected error type %T: %v", err, err)
			}
		}
	})
}
