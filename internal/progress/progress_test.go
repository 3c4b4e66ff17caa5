package progress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBar(t *testing.T) {
	var out bytes.Buffer
	b := New(&out)

	assert.Equal(t, int64(-1), b.Current())

	b.Start(3, 10)
	for range 4 {
		b.Increment()
	}
	assert.Equal(t, int64(4), b.Current())

	b.Finish()
	assert.Equal(t, int64(-1), b.Current())
	assert.Contains(t, out.String(), "L=3")
}

func TestBar_IncrementWithoutStart(t *testing.T) {
	b := New(&bytes.Buffer{})
	assert.NotPanics(t, func() {
		b.Increment()
		b.Finish()
	})
}
