package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	assert.NoError(Use("en-US"))
	assert.Equal("opcode 0x1f missing", From("opcode 0x%02x missing", 0x1f))
	assert.Equal("label here", From("label %v", "here"))
}

func TestUse(t *testing.T) {
	assert := assert.New(t)

	assert.Error(Use("not a language tag"))
	assert.NoError(Use("de-DE"))
	assert.Equal("text", From("%v", "text"))
	assert.NoError(Use("en-US"))
}
