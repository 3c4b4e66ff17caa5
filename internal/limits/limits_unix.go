//go:build unix

package limits

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Raise lifts the soft open file limit to the hard limit. Every concurrent
// upload holds at least one socket, so high levels can exhaust a low default.
func Raise() (Result, error) {
	var rLimit unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rLimit); err != nil {
		return Result{}, fmt.Errorf("unable to get rlimit: %w", err)
	}

	res := Result{Before: uint64(rLimit.Cur), After: uint64(rLimit.Cur)}
	if rLimit.Cur >= rLimit.Max {
		return res, nil
	}

	rLimit.Cur = rLimit.Max
	if err := unix.Setrlimit(unix.RLIMIT_NOFILE, &rLimit); err != nil {
		return res, fmt.Errorf("unable to set open file limit: %w", err)
	}
	res.After = uint64(rLimit.Cur)
	return res, nil
}
