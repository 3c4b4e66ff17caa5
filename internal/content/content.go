// Package content resolves the Content-Type sent with benchmark uploads.
package content

import (
	"sync"

	"github.com/gabriel-vasile/mimetype"
)

// Type detects the content type of the shared payload once and then
// returns the cached value. The zero value is ready to use.
type Type struct {
	// Override, when set, is returned without looking at the payload
	Override string

	once  sync.Once
	value string
}

// For returns the content type for payload. Only the first call inspects
// the payload; every upload carries the same bytes.
func (t *Type) For(payload []byte) string {
	t.once.Do(func() {
		if t.Override != "" {
			t.value = t.Override
			return
		}
		t.value = mimetype.Detect(payload).String()
	})
	return t.value
}
