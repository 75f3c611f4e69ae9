package emulator

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/stackvm/cpu"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(cpu.MODE_EXECUTE)

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.NotNil(emu.Program)
	assert.Equal(STOP_NONE, emu.Stop())
	assert.Equal(cpu.MODE_EXECUTE, emu.Cpu.Mode())
}

func doLoad(emu *Emulator, program []string, input string, t *testing.T) (output *bytes.Buffer) {
	assert := assert.New(t)

	asm := &cpu.Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	assert.Empty(asm.Errors)

	err = emu.Load(prog)
	assert.NoError(err)

	output = &bytes.Buffer{}
	emu.Terminal.Input = strings.NewReader(input)
	emu.Terminal.Output = output
	emu.Terminal.Rewind()

	return
}

// doRunSingle ticks a straight-line program, checking the source line
// of every instruction as it executes.
func doRunSingle(emu *Emulator, program []string, input string, t *testing.T) (output *bytes.Buffer) {
	assert := assert.New(t)

	output = doLoad(emu, program, input, t)

	for _, line := range emu.Program.Lines {
		here := program[line.LineNo-1]
		assert.Equal(line.LineNo, emu.LineNo(), here)
		assert.Equal(line.Pc, emu.Cpu.Pc, here)
		done, err := emu.Tick()
		if err != nil {
			t.Log(emu.Cpu.String())
			t.Fatalf("%v", err)
		}
		if done {
			break
		}
	}

	return
}

func TestEmulator_Example(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(cpu.MODE_EXECUTE)
	program := []string{
		"PUSH 5",
		"PUSH 3",
		"ADD",
		"HALT",
	}

	doRunSingle(emu, program, "", t)

	assert.Equal(STOP_HALT, emu.Stop())
	assert.Equal([]int32{8}, emu.Cpu.Stack.Data)

	done, err := emu.Tick()
	assert.True(done)
	assert.NoError(err)
}

func TestEmulator_Run(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		program []string
		input   string
		stop    Stop
		output  string
		err     error
	}){
		{"halt", []string{"push 72", "output", "push 105", "output", "halt"}, "", STOP_HALT, "Hi", nil},
		{"end", []string{"push 1", "pop"}, "", STOP_END, "", nil},
		{"echo", []string{"input", "push 48", "add", "output", "halt"}, "7\n", STOP_HALT, "> 7", nil},
		{"underflow", []string{"push 1", "add"}, "", STOP_FAULT, "", cpu.ErrStackEmpty},
		{"divide", []string{"push 1", "push 0", "div"}, "", STOP_FAULT, "", cpu.ErrDivideByZero},
		{"storage", []string{"push 1", "read"}, "", STOP_FAULT, "", cpu.ErrStorageMissing},
	}

	for _, entry := range table {
		emu := NewEmulator(cpu.MODE_EXECUTE)
		output := doLoad(emu, entry.program, entry.input, t)

		stop, err := emu.Run()
		assert.Equal(entry.stop, stop, entry.name)
		assert.Equal(entry.stop, emu.Stop(), entry.name)
		assert.Equal(entry.output, output.String(), entry.name)
		if entry.err == nil {
			assert.NoError(err, entry.name)
		} else {
			assert.True(errors.Is(err, entry.err), entry.name)
		}
	}
}

func TestEmulator_RuntimeLine(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(cpu.MODE_EXECUTE)
	program := []string{
		"; divide by zero",
		"push 4",
		"",
		"push 0",
		"mod",
		"halt",
	}

	doLoad(emu, program, "", t)

	_, err := emu.Run()
	assert.Error(err)

	var rerr *ErrRuntime
	assert.True(errors.As(err, &rerr))
	assert.Equal(5, rerr.LineNo)

	var eerr *cpu.ErrExecute
	assert.True(errors.As(err, &eerr))
	assert.Equal(4, eerr.Pc)
	assert.Equal(cpu.OP_MOD, eerr.Op)
	assert.Equal([]int32{4, 0}, eerr.Operands)

	assert.True(strings.HasPrefix(err.Error(), "line 5 "))
}

func TestEmulator_Reset(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(cpu.MODE_EXECUTE)
	program := []string{
		"push 9",
		"push 20",
		"store",
		"halt",
	}

	doLoad(emu, program, "", t)

	stop, err := emu.Run()
	assert.NoError(err)
	assert.Equal(STOP_HALT, stop)
	assert.Equal(int32(9), emu.Cpu.Memory.Cell[20])

	err = emu.Reset()
	assert.NoError(err)
	assert.Equal(STOP_NONE, emu.Stop())
	assert.Equal(0, emu.Cpu.Pc)
	assert.Equal(int32(0), emu.Cpu.Memory.Cell[20])
	assert.True(emu.Cpu.Stack.Empty())
}

func TestEmulator_Storage(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "disk.txt")
	err := os.WriteFile(path, []byte("10\n20\n30\n"), 0o644)
	assert.NoError(err)

	file, err := os.OpenFile(path, os.O_RDWR, 0)
	assert.NoError(err)
	defer file.Close()

	emu := NewEmulator(cpu.MODE_EXECUTE)
	emu.Storage.File = file

	program := []string{
		"push 2",
		"read",
		"push 1",
		"read",
		"add",
		"push 1",
		"write",
		"push 1",
		"read",
		"halt",
	}

	doLoad(emu, program, "", t)

	stop, err := emu.Run()
	assert.NoError(err)
	assert.Equal(STOP_HALT, stop)
	assert.Equal([]int32{30}, emu.Cpu.Stack.Data)

	data, err := os.ReadFile(path)
	assert.NoError(err)
	assert.Equal("30\n20\n30\n", string(data))

	program[0] = "push 4"
	doLoad(emu, program, "", t)

	_, err = emu.Run()
	assert.Error(err)
	assert.Equal(STOP_FAULT, emu.Stop())
}

func TestEmulator_Debug(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(cpu.MODE_DEBUG)
	program := []string{
		"push 65",
		"output",
		"halt",
	}

	output := doLoad(emu, program, "\n\n\n", t)

	stop, err := emu.Run()
	assert.NoError(err)
	assert.Equal(STOP_HALT, stop)

	text := output.String()
	assert.Contains(text, "program address 0: executing 00000101")
	assert.Contains(text, "push 65 onto the stack")
	assert.Contains(text, "[output]: A\n")
	assert.Contains(text, "halting the program")
	assert.Equal(2, strings.Count(text, "debug>>> "))
	assert.Equal([]rune("A"), emu.Cpu.Output)
}

func TestEmulator_DebugExit(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(cpu.MODE_DEBUG)
	program := []string{
		"push 1",
		"push 2",
		"halt",
	}

	doLoad(emu, program, "exit\n\n", t)

	stop, err := emu.Run()
	assert.NoError(err)
	assert.Equal(STOP_EXIT, stop)
	assert.Equal(2, emu.Cpu.Pc)
	assert.Equal([]int32{1}, emu.Cpu.Stack.Data)
}

func TestErrRuntime_Error(t *testing.T) {
	assert := assert.New(t)

	err := &ErrRuntime{LineNo: 1234, Err: cpu.ErrStackEmpty}
	assert.Equal("line 1234 stack empty", err.Error())
	assert.ErrorIs(err, cpu.ErrStackEmpty)

	err = &ErrRuntime{Err: cpu.ErrStackEmpty}
	assert.Equal("stack empty", err.Error())
}
