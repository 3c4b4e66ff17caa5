// Package sweep builds the list of concurrency levels a benchmark walks through.
package sweep

import (
	"fmt"
	"slices"

	"github.com/input-output-hk/catalyst-forge-libs/blobbench/benchtypes"
	"github.com/input-output-hk/catalyst-forge-libs/blobbench/errors"
)

// Range returns the sweep for min..max in increments of step.
func Range(minLevel, maxLevel, step int) benchtypes.Sweep {
	return benchtypes.Sweep{Range: []int{minLevel, maxLevel}, Step: step}
}

// Values returns the sweep for an explicit list of levels, sorted and
// without duplicates. The argument is not modified.
func Values(levels ...int) benchtypes.Sweep {
	v := slices.Clone(levels)
	slices.Sort(v)
	return benchtypes.Sweep{Values: slices.Compact(v)}
}

// Levels expands s into a strictly ascending list of positive levels.
// Duplicates in an explicit list are dropped.
func Levels(s benchtypes.Sweep) ([]int, error) {
	var levels []int

	switch {
	case len(s.Values) > 0:
		levels = slices.Clone(s.Values)
		slices.Sort(levels)
		levels = slices.Compact(levels)
	case len(s.Range) == 2:
		lo, hi := s.Range[0], s.Range[1]
		if hi < lo {
			return nil, invalid("range max %d is below min %d", hi, lo)
		}
		if lo < 1 {
			return nil, invalid("concurrency level must be at least 1, got %d", lo)
		}
		if hi > benchtypes.MaxConcurrency {
			return nil, invalid("concurrency level cannot exceed %d, got %d", benchtypes.MaxConcurrency, hi)
		}
		step := s.Step
		if step <= 0 {
			step = 1
		}
		for l := lo; ; l += step {
			levels = append(levels, l)
			// compared as a difference so a large step cannot overflow l
			if hi-l < step {
				break
			}
		}
	case len(s.Range) != 0:
		return nil, invalid("range needs exactly two values, got %d", len(s.Range))
	default:
		return nil, invalid("no concurrency levels given")
	}

	if levels[0] < 1 {
		return nil, invalid("concurrency level must be at least 1, got %d", levels[0])
	}
	if last := levels[len(levels)-1]; last > benchtypes.MaxConcurrency {
		return nil, invalid("concurrency level cannot exceed %d, got %d", benchtypes.MaxConcurrency, last)
	}
	return levels, nil
}

func invalid(format string, args ...any) error {
	return errors.NewError("configure", errors.ErrInvalidConfig).WithMessage(fmt.Sprintf(format, args...))
}
