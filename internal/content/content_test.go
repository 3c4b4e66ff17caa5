package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestType_For(t *testing.T) {
	tests := []struct {
		name     string
		override string
		payload  []byte
		want     string
	}{
		{name: "text", payload: []byte("plain words in a payload"), want: "text/plain; charset=utf-8"},
		{name: "binary", payload: []byte{0x00, 0xff, 0x10, 0x80, 0x00}, want: "application/octet-stream"},
		{name: "override", override: "application/x-bench", payload: []byte("text"), want: "application/x-bench"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct := &Type{Override: tt.override}
			assert.Equal(t, tt.want, ct.For(tt.payload))
		})
	}
}

func TestType_For_Cached(t *testing.T) {
	ct := &Type{}
	first := ct.For([]byte("plain words"))
	assert.Equal(t, first, ct.For([]byte{0x00, 0xff}))
}
