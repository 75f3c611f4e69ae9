package cpu

import (
	"iter"
)

const (
	MEMORY_SIZE = 512 // Number of int32 cells shared by program and data.
)

// Memory is the shared program and data address space.
// Stores may overwrite cells that hold not-yet-executed instructions.
type Memory struct {
	Cell [MEMORY_SIZE]int32
}

// InRange returns true if the address is a valid cell index.
func (mem *Memory) InRange(addr int32) bool {
	return addr >= 0 && int(addr) < len(mem.Cell)
}

// Load reads a cell.
func (mem *Memory) Load(addr int32) (value int32, err error) {
	if !mem.InRange(addr) {
		err = ErrAddressRange
		return
	}

	value = mem.Cell[addr]
	return
}

// Store writes a cell.
func (mem *Memory) Store(addr int32, value int32) (err error) {
	if !mem.InRange(addr) {
		err = ErrAddressRange
		return
	}

	mem.Cell[addr] = value
	return
}

// Reset zeros all cells, then copies in an image at address 0.
func (mem *Memory) Reset(image []int32) (err error) {
	if len(image) > len(mem.Cell) {
		err = ErrImageTooLarge
		return
	}

	clear(mem.Cell[:])
	copy(mem.Cell[:], image)

	return
}

// NonZero iterates over every nonzero cell, in address order.
func (mem *Memory) NonZero() iter.Seq2[int, int32] {
	return func(yield func(addr int, value int32) bool) {
		for addr, value := range mem.Cell {
			if value == 0 {
				continue
			}
			if !yield(addr, value) {
				return
			}
		}
	}
}
