// Package aggregate reduces the samples of one level into a LevelResult.
//
// Samples are partitioned by worker. The first sample of each worker (lowest
// Seq) is its init sample, reflecting connection and client warm-up; every
// later sample is steady-state. A level with no steady-state samples (for
// example when the object count equals the concurrency) has an undefined
// steady mean rather than zero.
package aggregate

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/input-output-hk/catalyst-forge-libs/blobbench/benchtypes"
)

const (
	// histogram range in microseconds: 1us .. 1h, three significant figures
	minTrackable = 1
	maxTrackable = int64(time.Hour / time.Microsecond)
	sigFigs      = 3
)

// Aggregate computes the LevelResult for level from its samples.
// total is the wall-clock duration of the batch and payloadSize the size of
// each uploaded object in bytes.
func Aggregate(level int, samples []benchtypes.Sample, total time.Duration, payloadSize int) benchtypes.LevelResult {
	first := firstBySeq(samples)
	hist := hdrhistogram.New(minTrackable, maxTrackable, sigFigs)

	var (
		initSum, steadySum time.Duration
		initN, steadyN     int
		maxSeen            time.Duration
	)
	for i, s := range samples {
		if first[s.Worker] == i {
			initSum += s.Duration
			initN++
		} else {
			steadySum += s.Duration
			steadyN++
		}
		if s.Duration > maxSeen {
			maxSeen = s.Duration
		}
		_ = hist.RecordValue(clamp(s.Duration.Microseconds()))
	}

	result := benchtypes.LevelResult{
		Concurrency:   level,
		Objects:       len(samples),
		InitSamples:   initN,
		SteadySamples: steadyN,
		AvgInit:       mean(initSum, initN),
		AvgSteady:     mean(steadySum, steadyN),
		Total:         total,
		Max:           maxSeen,
	}

	if len(samples) > 0 {
		result.P50 = micros(hist.ValueAtQuantile(50))
		result.P90 = micros(hist.ValueAtQuantile(90))
		result.P99 = micros(hist.ValueAtQuantile(99))
	}
	if total > 0 {
		result.Throughput = float64(len(samples)) * float64(payloadSize) / total.Seconds()
	}

	return result
}

// firstBySeq maps each worker to the index of its lowest-Seq sample.
func firstBySeq(samples []benchtypes.Sample) map[int]int {
	first := make(map[int]int)
	for i, s := range samples {
		j, ok := first[s.Worker]
		if !ok || s.Seq < samples[j].Seq {
			first[s.Worker] = i
		}
	}
	return first
}

func mean(sum time.Duration, n int) benchtypes.Mean {
	if n == 0 {
		return benchtypes.Mean{}
	}
	return benchtypes.Mean{Value: sum / time.Duration(n), Defined: true}
}

func clamp(us int64) int64 {
	if us < 0 {
		return 0
	}
	if us > maxTrackable {
		return maxTrackable
	}
	return us
}

func micros(v int64) time.Duration {
	return time.Duration(v) * time.Microsecond
}
