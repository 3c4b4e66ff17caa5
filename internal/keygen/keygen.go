// Package keygen produces the object keys uploaded by a level.
//
// Every upload gets its own key so that no upload is a same-content overwrite
// of an object the store already holds. Keys are regenerated for every level.
package keygen

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator produces count distinct keys for one level.
type Generator interface {
	Keys(level, count int) []string
}

// UUID generates keys of the form <prefix><random uuid><suffix>.
// Collisions are practically impossible, including across runs.
type UUID struct {
	Prefix string
	Suffix string
}

// Keys returns count random keys.
func (g UUID) Keys(_ int, count int) []string {
	keys := make([]string, count)
	for i := range keys {
		keys[i] = g.Prefix + uuid.NewString() + g.Suffix
	}
	return keys
}

// Sequential generates counter-suffixed keys that are unique by construction
// within a run: <prefix><run>-<level>-<index><suffix>.
type Sequential struct {
	Prefix string
	Suffix string
	Run    string
}

// Keys returns count keys for level.
func (g Sequential) Keys(level, count int) []string {
	run := g.Run
	if run == "" {
		run = "run"
	}
	keys := make([]string, count)
	for i := range keys {
		keys[i] = fmt.Sprintf("%s%s-%03d-%06d%s", g.Prefix, run, level, i, g.Suffix)
	}
	return keys
}
