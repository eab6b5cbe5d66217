package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraceIDFrom(t *testing.T) {
	a := TraceIDFrom("deposit:alice:1")
	b := TraceIDFrom("deposit:alice:1")
	c := TraceIDFrom("deposit:alice:2")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.True(t, Valid(a))
}

func TestGenTraceID(t *testing.T) {
	assert.True(t, Valid(GenTraceID()))
	assert.NotEqual(t, GenTraceID(), GenTraceID())
	assert.False(t, Valid("not-a-uuid"))
}

func TestModify(t *testing.T) {
	trace := GenTraceID()

	a := Modify(trace, "entry:1")
	assert.Equal(t, a, Modify(trace, "entry:1"))
	assert.NotEqual(t, a, Modify(trace, "entry:2"))
	assert.NotEqual(t, trace, a)
	assert.True(t, Valid(a))
}
