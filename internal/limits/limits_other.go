//go:build !unix

package limits

// Raise is a no-op on platforms without rlimits.
func Raise() (Result, error) {
	return Result{}, nil
}
