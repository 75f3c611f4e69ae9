package translate

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	SetLocales("en-US")

	assert.Equal("pc 12 add", From("pc %d %v", 12, "add"))
	assert.Equal("stack empty", From("stack empty"))
}

func TestPlain(t *testing.T) {
	assert := assert.New(t)

	SetLocales("en-US")

	assert.Equal("push 1000000", From("push %v", Plain(int32(1000000))...))
	assert.Equal("line 12345 of -2000", From("line %v of %v", Plain(12345, int64(-2000))...))
	assert.Equal([]any{"7", "x", true}, Plain(7, "x", true))
}

func TestFprintf(t *testing.T) {
	assert := assert.New(t)

	SetLocales()

	buff := &bytes.Buffer{}
	n, err := Fprintf(buff, "[output]: %c\n", 'A')
	assert.NoError(err)
	assert.Equal(len("[output]: A\n"), n)
	assert.Equal("[output]: A\n", buff.String())
}
