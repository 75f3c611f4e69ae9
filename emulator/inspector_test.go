package emulator

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/stackvm/cpu"
	"github.com/ezrec/stackvm/io"
)

func newInspected(input string) (in *Inspector, cp *cpu.Cpu, output *bytes.Buffer) {
	output = &bytes.Buffer{}
	in = &Inspector{
		Console: &io.Terminal{
			Input:  strings.NewReader(input),
			Output: output,
		},
	}

	cp = cpu.NewCpu(cpu.MODE_DEBUG)
	cp.Stack.Push(3)
	cp.Stack.Push(-4)
	cp.Memory.Cell[0] = 5
	cp.Memory.Cell[7] = 42
	cp.Output = []rune("ab\ncd")

	return
}

func TestInspector_Commands(t *testing.T) {
	assert := assert.New(t)

	in, cp, output := newInspected("s\nm\no\nnext\n")
	err := in.Inspect(cp)
	assert.NoError(err)

	expected := strings.Join([]string{
		"debug>>> stack [3 -4]",
		"debug>>> +-- memory",
		"| 000 : 5",
		"| 007 : 42",
		"debug>>> +-- output",
		"| ab",
		"| cd",
		"debug>>> continuing",
		"",
	}, "\n")
	assert.Equal(expected, output.String())

	// Inspection never changes the cpu.
	assert.Equal([]int32{3, -4}, cp.Stack.Data)
	assert.Equal(0, cp.Pc)
}

func TestInspector_Order(t *testing.T) {
	assert := assert.New(t)

	// "exits" contains an s, so the stack is shown instead.
	in, cp, output := newInspected("exits\n\n")
	err := in.Inspect(cp)
	assert.NoError(err)
	assert.Contains(output.String(), "stack [3 -4]")
}

func TestInspector_Exit(t *testing.T) {
	assert := assert.New(t)

	in, cp, output := newInspected("exit\n\n")
	err := in.Inspect(cp)
	assert.ErrorIs(err, cpu.ErrDebugExit)
	assert.Equal("debug>>> leaving the debugger", output.String())
}

func TestInspector_EndOfInput(t *testing.T) {
	assert := assert.New(t)

	in, cp, output := newInspected("")
	err := in.Inspect(cp)
	assert.NoError(err)
	assert.Equal("debug>>> continuing\n", output.String())
}

func TestInspector_NoConsole(t *testing.T) {
	assert := assert.New(t)

	in := &Inspector{}
	err := in.Inspect(cpu.NewCpu(cpu.MODE_DEBUG))
	assert.NoError(err)
}
