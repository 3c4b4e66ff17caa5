// Package limits raises process resource limits before a sweep.
package limits

// Result describes the open file limit before and after Raise.
type Result struct {
	Before uint64
	After  uint64
}
