package payload

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate_Size(t *testing.T) {
	tests := []struct {
		name string
		size int
		want int
	}{
		{name: "one kilobyte", size: 1024, want: 1024},
		{name: "original default", size: 50000, want: 50000},
		{name: "single byte", size: 1, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, Generate(tt.size, 42), tt.want)
		})
	}
}

func TestGenerate_NonPositive(t *testing.T) {
	assert.Panics(t, func() { Generate(0, 42) })
	assert.Panics(t, func() { Generate(-5, 42) })
}

func TestGenerate_Deterministic(t *testing.T) {
	a := Generate(4096, 7)
	b := Generate(4096, 7)
	c := Generate(4096, 8)

	assert.Equal(t, a, b)
	assert.False(t, bytes.Equal(a, c), "different seeds should yield different content")
}

func TestGenerate_NotConstant(t *testing.T) {
	buf := Generate(4096, 1)
	assert.NotEqual(t, bytes.Repeat(buf[:1], len(buf)), buf)
}
