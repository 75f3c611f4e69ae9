// Package image saves and loads assembled programs as CBOR encoded
// memory images, with the line map needed for runtime diagnostics.
package image

import (
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/ezrec/stackvm/cpu"
	"github.com/ezrec/stackvm/translate"
)

var f = translate.From

// VERSION is the image format version written by Marshal.
const VERSION = 1

var (
	ErrImageVersion = errors.New(f("image version not supported"))
	ErrImageLines   = errors.New(f("image line map does not match words"))
)

// Line maps a source line to the words it generated.
type Line struct {
	LineNo int      `cbor:"1,keyasint"`
	Pc     int      `cbor:"2,keyasint"`
	Size   int      `cbor:"3,keyasint"`
	Words  []string `cbor:"4,keyasint,omitempty"`
}

// Image is a saved memory image.
type Image struct {
	Version int     `cbor:"1,keyasint"`
	Words   []int32 `cbor:"2,keyasint"`
	Lines   []Line  `cbor:"3,keyasint,omitempty"`
}

var encMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("image: failed to create CBOR enc mode: %v", err))
	}
	encMode = em
}

// FromProgram creates an image of an assembled program.
func FromProgram(prog *cpu.Program) (img *Image) {
	img = &Image{
		Version: VERSION,
		Words:   prog.Binary(),
	}

	for _, line := range prog.Lines {
		img.Lines = append(img.Lines, Line{
			LineNo: line.LineNo,
			Pc:     line.Pc,
			Size:   len(line.Codes),
			Words:  line.Words,
		})
	}

	return
}

// Check verifies the version, and that the line map covers the words
// contiguously from address 0.
func (img *Image) Check() (err error) {
	if img.Version != VERSION {
		err = fmt.Errorf("%w: %d", ErrImageVersion, img.Version)
		return
	}

	pc := 0
	for _, line := range img.Lines {
		if line.Pc != pc || line.Size < 1 || line.Size > len(img.Words)-pc {
			err = fmt.Errorf("%w: line %d", ErrImageLines, line.LineNo)
			return
		}
		pc += line.Size
	}

	if pc != len(img.Words) {
		err = fmt.Errorf("%w: %d of %d words", ErrImageLines, pc, len(img.Words))
		return
	}

	if len(img.Words) > cpu.MEMORY_SIZE {
		err = cpu.ErrImageTooLarge
		return
	}

	return
}

// Program rebuilds the program listing of a checked image.
func (img *Image) Program() (prog *cpu.Program) {
	prog = &cpu.Program{}

	for _, line := range img.Lines {
		prog.Lines = append(prog.Lines, cpu.Line{
			LineNo: line.LineNo,
			Pc:     line.Pc,
			Words:  line.Words,
			Codes:  img.Words[line.Pc : line.Pc+line.Size],
		})
	}

	return
}

// Marshal encodes the image as canonical CBOR.
func (img *Image) Marshal() (data []byte, err error) {
	return encMode.Marshal(img)
}

// Unmarshal decodes and checks a CBOR image.
func Unmarshal(data []byte) (img *Image, err error) {
	img = &Image{}
	err = cbor.Unmarshal(data, img)
	if err != nil {
		img = nil
		err = fmt.Errorf("image: %w", err)
		return
	}

	err = img.Check()
	if err != nil {
		img = nil
		return
	}

	return
}

// Save writes the image to w.
func (img *Image) Save(w io.Writer) (err error) {
	data, err := img.Marshal()
	if err != nil {
		return
	}

	_, err = w.Write(data)

	return
}

// Load reads an image from r.
func Load(r io.Reader) (img *Image, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return
	}

	return Unmarshal(data)
}
