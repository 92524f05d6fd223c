package errors

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type codeError struct {
	code string
}

func (e *codeError) Error() string { return "code " + e.code }

func TestAsType(t *testing.T) {
	err := Wrap(&codeError{code: "NOT_FOUND"}, "load notification")

	target, ok := AsType[*codeError](err)
	assert.True(t, ok)
	assert.Equal(t, "NOT_FOUND", target.code)

	_, ok = AsType[*codeError](New("plain"))
	assert.False(t, ok)
}

func TestIsAny(t *testing.T) {
	sentinel := New("sentinel")
	err := Wrapf(sentinel, "publish %s", "envelope")

	assert.True(t, IsAny(err, io.EOF, sentinel))
	assert.False(t, IsAny(err, io.EOF))
	assert.False(t, IsAny(err))
}

func TestStackTrace(t *testing.T) {
	assert.Empty(t, StackTrace(New("no stack")))
	assert.Empty(t, StackTrace(nil))

	trace := StackTrace(Wrap(WithStack(io.EOF), "consume"))
	assert.True(t, strings.Contains(trace, "TestStackTrace"), trace)
}
